package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/vango-dev/relayed/internal/errors"
	"github.com/vango-dev/relayed/pkg/instrument"
	"github.com/vango-dev/relayed/pkg/relay"
	"github.com/vango-dev/relayed/pkg/userboard"
)

// demoOptions selects what the demo prints.
type demoOptions struct {
	json        bool
	metrics     bool
	randomUsers int
	name        string
}

// demoResult is the final state printed with --json.
type demoResult struct {
	Users   []userboard.User `json:"users"`
	Renders int              `json:"renders"`
}

func demoCmd(a *app) *cobra.Command {
	var opts demoOptions

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the user board example",
		Long: `Run the user board example against real cells.

The board is rendered as a table every time its user list changes. The
demo adds random users, opens a create-user form, shows that a second form
is rejected, fills in and submits the form, then opens and cancels another.

With --json only the final board is printed. With --metrics the cell and
action counters collected during the run are printed at the end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("random-users") {
				opts.randomUsers = a.cfg.Demo.RandomUsers
			}
			if opts.randomUsers < 0 {
				return errors.New("R003").WithDetail("--random-users must not be negative")
			}
			return runDemo(cmd.Context(), cmd.OutOrStdout(), a.logger, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Print only the final board as JSON")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Print collected metrics at the end")
	cmd.Flags().IntVar(&opts.randomUsers, "random-users", 2, "Number of random users to add")
	cmd.Flags().StringVar(&opts.name, "name", "Eve", "Name entered into the create-user form")

	return cmd
}

func runDemo(ctx context.Context, w io.Writer, logger *slog.Logger, opts demoOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	registry := prometheus.NewRegistry()
	metrics := instrument.NewMetrics(instrument.WithRegistry(registry))
	recorder := instrument.NewRecorder(
		instrument.WithMetrics(metrics),
		instrument.WithLogger(logger),
	)

	board := userboard.NewBoard(
		userboard.WithRecorder(recorder),
		userboard.WithObserver(metrics),
		userboard.WithObserver(instrument.LogObserver(logger, slog.LevelDebug)),
	)
	defer board.Close()

	screen := relay.NewOwner(nil)
	defer screen.Dispose()

	result := demoResult{}
	board.TrackedUsers().Subscribe(func(users []userboard.User) {
		result.Renders++
		result.Users = users
		if !opts.json {
			renderUsers(w, result.Renders, users)
		}
	}).DisposedBy(screen)

	say := func(format string, args ...any) {
		if !opts.json {
			info(w, format, args...)
		}
	}

	for i := 0; i < opts.randomUsers; i++ {
		user := board.AddRandomUser(ctx)
		say("Added %s (%s)", user.Name, user.Type.Title())
	}

	form, err := board.CreateForm(ctx)
	if err != nil {
		return demoStep("open form", err)
	}
	form.Bind(screen)
	say("Opened the create-user form")

	if _, err := board.CreateForm(ctx); !stderrors.Is(err, userboard.ErrFormOpen) {
		return demoStep("reject second form", fmt.Errorf("got %v, want %w", err, userboard.ErrFormOpen))
	}
	if !opts.json {
		warn(w, "A second form was rejected: %v", userboard.ErrFormOpen)
	}

	if err := form.Submit(ctx); !stderrors.Is(err, userboard.ErrFormInvalid) {
		return demoStep("submit empty form", fmt.Errorf("got %v, want %w", err, userboard.ErrFormInvalid))
	}
	say("Submitting the empty form was refused")

	form.SetNameInput(opts.name)
	form.SetTypeInput(userboard.VIP.Ptr())
	say("Entered %q as %s, form valid: %t", opts.name, userboard.VIP.Title(), form.IsValid())

	if err := form.Submit(ctx); err != nil {
		return demoStep("submit form", err)
	}
	say("Submitted the form")

	form, err = board.CreateForm(ctx)
	if err != nil {
		return demoStep("reopen form", err)
	}
	form.Cancel(ctx)
	say("Opened and cancelled another form, form open: %t", board.Form() != nil)

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return demoStep("encode result", err)
		}
	} else {
		success(w, "Board has %d users after %d renders", len(result.Users), result.Renders)
	}

	if opts.metrics {
		families, err := registry.Gather()
		if err != nil {
			return demoStep("gather metrics", err)
		}
		renderMetrics(w, families)
	}

	return nil
}

func demoStep(step string, err error) error {
	return errors.New("R022").
		WithDetail("The demo failed at step: " + step).
		Wrap(err)
}

// renderUsers prints the board as a table.
func renderUsers(w io.Writer, render int, users []userboard.User) {
	fmt.Fprintf(w, "\nBoard (render %d)\n", render)

	table := tablewriter.NewWriter(w)
	table.Header("#", "Name", "Type", "ID")
	for i, u := range users {
		table.Append(
			fmt.Sprint(i+1),
			u.Name,
			u.Type.Title(),
			u.ID.String()[:8],
		)
	}
	table.Render()
}

// renderMetrics prints one row per series with its count.
func renderMetrics(w io.Writer, families []*dto.MetricFamily) {
	fmt.Fprintln(w, "\nMetrics")

	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Labels", "Value")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			table.Append(mf.GetName(), formatLabels(m.GetLabel()), formatValue(m))
		}
	}
	table.Render()
}

func formatLabels(pairs []*dto.LabelPair) string {
	labels := make([]string, 0, len(pairs))
	for _, lp := range pairs {
		labels = append(labels, lp.GetName()+"="+lp.GetValue())
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}

func formatValue(m *dto.Metric) string {
	switch {
	case m.GetCounter() != nil:
		return fmt.Sprint(m.GetCounter().GetValue())
	case m.GetHistogram() != nil:
		h := m.GetHistogram()
		return fmt.Sprintf("%d obs, %.6fs", h.GetSampleCount(), h.GetSampleSum())
	case m.GetGauge() != nil:
		return fmt.Sprint(m.GetGauge().GetValue())
	}
	return ""
}
