package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/config"
	"github.com/sadopc/focusflow/internal/export"
	"github.com/sadopc/focusflow/internal/store"
)

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the completed-task history to a file",
	}
	run := func(ext string, write func([]store.CompletedTask, string) error) *cobra.Command {
		return &cobra.Command{
			Use:   ext + " [PATH]",
			Short: "Export as " + strings.ToUpper(ext),
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := a.exportPath(ext)
				if len(args) == 1 {
					path = args[0]
				}
				tasks := a.store.Data.LoadCompletedTasks(cmd.Context())
				if err := write(tasks, path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", len(tasks), path)
				return nil
			},
		}
	}
	csvCmd := run("csv", export.ToCSV)
	jsonCmd := run("json", export.ToJSON)
	cmd.AddCommand(csvCmd, jsonCmd)
	return cmd
}

// exportPath is focusflow-YYYYMMDD.ext under export.dir, or the working directory.
func (a *app) exportPath(ext string) string {
	return filepath.Join(a.cfg.Export.Dir, export.FileName(a.now(), ext))
}

func (a *app) dataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Inspect or reset stored data",
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete everything and restore defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				confirm := false
				err := huh.NewConfirm().
					Title("Delete all focusflow data?").
					Description("Routines, tasks, habits, rewards and settings are removed.").
					Affirmative("Delete").
					Negative("Cancel").
					Value(&confirm).
					Run()
				if err != nil {
					return err
				}
				if !confirm {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := a.store.Data.ClearAllData(cmd.Context()); err != nil {
				return err
			}
			a.log.Info("all data cleared")
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
			return nil
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := a.store.KV.Keys(cmd.Context())
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}

	water := &cobra.Command{
		Use:   "water [GLASSES]",
		Short: "Log glasses of water (default 1) and print the total",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := optionalInt(args, 1)
			if err != nil {
				return err
			}
			total := a.store.Data.AddWater(cmd.Context(), n)
			fmt.Fprintf(cmd.OutOrStdout(), "💧 %d glasses\n", total)
			return nil
		},
	}

	move := &cobra.Command{
		Use:   "move [MINUTES]",
		Short: "Log a movement break (default 5 minutes)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := optionalInt(args, 5)
			if err != nil {
				return err
			}
			a.store.Data.AddMovementBreak(cmd.Context(), n)
			breaks := a.store.Data.LoadMovementBreaks(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Movement break logged (%d total)\n", len(breaks))
			return nil
		},
	}

	cmd.AddCommand(clearCmd, keysCmd, water, move)
	return cmd
}

func optionalInt(args []string, fallback int) (int, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive number, got %q", args[0])
	}
	return n, nil
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	show := &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "storage.backend:      %s\n", a.cfg.Storage.Backend)
			fmt.Fprintf(out, "storage.path:         %s\n", a.cfg.Storage.Path)
			fmt.Fprintf(out, "storage.redis_url:    %s\n", a.cfg.Storage.RedisURL)
			fmt.Fprintf(out, "storage.redis_prefix: %s\n", a.cfg.Storage.RedisPrefix)
			fmt.Fprintf(out, "log.level:            %s\n", a.cfg.Log.Level)
			fmt.Fprintf(out, "log.file:             %s\n", a.cfg.Log.File)
			fmt.Fprintf(out, "export.dir:           %s\n", a.cfg.Export.Dir)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init [PATH]",
		Short:       "Write the current configuration to a YAML file",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.GlobalConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists, use --force to overwrite", path)
			}
			if err := config.Write(path, a.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
