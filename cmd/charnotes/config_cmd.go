package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/charnotes/internal/config"
	"github.com/marcus/charnotes/internal/host/identity"
	"github.com/marcus/charnotes/internal/version"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var character string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.ConfigPath())

			if character != "" {
				if err := identity.WriteFile(cfg.Identity.File, character); err != nil {
					return fmt.Errorf("write identity: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Active character set to %q\n", character)
			}
			return nil
		},
	}
	initCmd.Flags().StringVar(&character, "active", "", "also set the active character")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			path := config.ConfigPath()
			if _, err := os.Stat(path); err != nil {
				path += " (not created)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "charnotes version %s\n", version.Effective(Version))
		},
	}
}
