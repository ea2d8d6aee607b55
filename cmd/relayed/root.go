package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vango-dev/relayed/internal/config"
	"github.com/vango-dev/relayed/internal/errors"
)

// envBindings maps config keys to the environment variables that override
// them. Flags take precedence over both.
var envBindings = map[string]string{
	"log.level":  "RELAYED_LOG_LEVEL",
	"log.format": "RELAYED_LOG_FORMAT",
}

// app is the state shared by all commands once flags are parsed.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "relayed",
		Short: "Observable value cells and their accessor generator",
		Long: `relayed works with relay cells: values with replay-one subscriptions
and synchronous, ordered fan-out.

  • gen generates getters, setters and read-only stream accessors for
    the cell fields of a package
  • demo runs the user board example and prints the board on every change`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default: relayed.json or relayed.yaml in the working directory or a parent)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text, json")

	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	cmd.AddCommand(
		initCmd(a),
		genCmd(a),
		demoCmd(a),
		versionCmd(),
	)

	return cmd
}

// setup loads the config, applies environment and flag overrides, and
// installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configFile)
	if err != nil {
		return err
	}
	return a.apply(cmd, cfg)
}

// apply applies environment and flag overrides to cfg and installs the
// logger.
func (a *app) apply(cmd *cobra.Command, cfg *config.Config) error {
	for key, env := range envBindings {
		if err := a.v.BindEnv(key, env); err != nil {
			return errors.New("R003").Wrap(err)
		}
	}
	a.v.SetDefault("log.level", cfg.Log.Level)
	a.v.SetDefault("log.format", cfg.Log.Format)

	cfg.Log.Level = a.v.GetString("log.level")
	cfg.Log.Format = a.v.GetString("log.format")
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	slog.SetDefault(logger)
	if cfg.Path() != "" {
		logger.Debug("config loaded", "path", cfg.Path())
	}
	return nil
}

// loadConfig reads the named file, or looks for one from the working
// directory up. Finding none is not an error: the defaults apply.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.LoadFromWorkingDir()
	if errors.Is(err, "R001") {
		return config.New(), nil
	}
	return cfg, err
}

// newLogger builds the slog handler the config asks for.
func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := config.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
