package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/relayed/pkg/relaygen"
)

func genCmd(a *app) *cobra.Command {
	var (
		output    string
		prefix    string
		noGetters bool
		noSetters bool
	)

	cmd := &cobra.Command{
		Use:   "gen [dir]",
		Short: "Generate accessors for relay cell fields",
		Long: `Scan a package directory for unexported struct fields of type
relay.Cell[T] or *relay.Cell[T] and generate, per field, a getter, a setter
and a read-only stream accessor.

The output is deterministic and the file is only rewritten when its
content changes, so it is safe to run from go:generate.

Field tags:
  relayed:"-"            skip the field
  relayed:"Name"         use Name instead of the capitalized field name
  relayed:",readonly"    no setter

Examples:
  relayed gen                          # Current directory
  relayed gen ./pkg/userboard          # Another package
  relayed gen -o cells_gen.go          # Custom output file
  relayed gen --prefix Observe         # ObserveTitle() instead of TrackedTitle()`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			gen := &a.cfg.Gen
			if cmd.Flags().Changed("output") {
				gen.Output = output
			}
			if cmd.Flags().Changed("prefix") {
				gen.Prefix = prefix
			}
			if noGetters {
				gen.Getters = false
			}
			if noSetters {
				gen.Setters = false
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			return runGen(cmd, a, dir)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file name (default: relayed_gen.go)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Prefix for stream accessors (default: Tracked)")
	cmd.Flags().BoolVar(&noGetters, "no-getters", false, "Do not generate value getters")
	cmd.Flags().BoolVar(&noSetters, "no-setters", false, "Do not generate setters")

	return cmd
}

func runGen(cmd *cobra.Command, a *app, dir string) error {
	w := cmd.OutOrStdout()
	opts := relaygen.Options{
		Output:  a.cfg.Gen.Output,
		Prefix:  a.cfg.Gen.Prefix,
		Getters: a.cfg.Gen.Getters,
		Setters: a.cfg.Gen.Setters,
	}

	info(w, "Scanning %s...", dir)

	res, err := relaygen.Run(dir, opts, relaygen.WithLogger(a.logger))
	if err != nil {
		return err
	}

	info(w, "Found %d cell fields in %d types", res.Package.Accessors(), len(res.Package.Types))
	a.logger.Debug("accessors generated", "package", res.Package.Name, "path", res.Path, "unchanged", res.Unchanged)

	if res.Unchanged {
		success(w, "%s is up to date", res.Path)
		return nil
	}
	success(w, "Generated %s", res.Path)
	return nil
}
