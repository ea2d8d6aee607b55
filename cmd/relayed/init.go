package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/relayed/internal/config"
	"github.com/vango-dev/relayed/internal/errors"
)

func initCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a config file with the default settings",
		Long: `Write relayed.yaml (or relayed.json with --json) into a directory,
filled with the default settings. gen and demo pick the file up from that
directory and every directory below it.

Examples:
  relayed init                 # ./relayed.yaml
  relayed init --json          # ./relayed.json
  relayed init ./tools --force # Overwrite an existing config`,
		Args: cobra.MaximumNArgs(1),
		// An existing config may be the reason for running init, so it is
		// not loaded.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(cmd, config.New())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, asJSON, force)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Write relayed.json instead of relayed.yaml")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, asJSON, force bool) error {
	if config.Exists(dir) && !force {
		return errors.New("R005").
			WithDetail("A config file already exists in " + dir).
			WithSuggestion("Use --force to overwrite it")
	}

	name := config.YAMLConfigFileName
	if asJSON {
		name = config.ConfigFileName
	}

	cfg := config.New()
	if err := cfg.SaveTo(filepath.Join(dir, name)); err != nil {
		return err
	}

	success(cmd.OutOrStdout(), "Wrote %s", cfg.Path())
	return nil
}
