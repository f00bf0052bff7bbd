package cli

import (
	"fmt"
	"os"

	"github.com/dshills/svnmirror/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage svnmirror configuration",
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigSetCmd(a), newConfigShowCmd(a))
	return cmd
}

func configFlagPath(cmd *cobra.Command) (string, error) {
	flagPath, _ := cmd.Flags().GetString("config")
	path, _, err := config.ResolvePath(flagPath)
	return path, err
}

func newConfigInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFlagPath(cmd)
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(a.stderr, "Config file already exists at %s\n", path)
				return nil
			}

			if err := config.Save(config.Default(), path); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(a.stdout, "Config file created at %s\n", path)
			return nil
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFlagPath(cmd)
			if err != nil {
				return err
			}

			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			if err := config.SetField(&cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}

			fmt.Fprintf(a.stdout, "Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			data, err := cfg.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, data)
			return nil
		},
	}
}
