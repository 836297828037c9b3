package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/store"
)

func (a *app) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Preferences and accessibility options",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := a.store.Prefs.LoadPreferences(ctx)
			acc := a.store.Prefs.LoadAccessibility(ctx)
			values := map[string]string{
				"theme":                     p.Theme,
				"notifications":             strconv.FormatBool(p.Notifications),
				"sound":                     strconv.FormatBool(p.SoundEnabled),
				"haptic":                    strconv.FormatBool(p.HapticEnabled),
				"focus_duration":            strconv.Itoa(p.FocusDuration),
				"break_duration":            strconv.Itoa(p.BreakDuration),
				"long_break_duration":       strconv.Itoa(p.LongBreakDuration),
				"sessions_until_long_break": strconv.Itoa(p.SessionsUntilLongBreak),
				"user_name":                 p.UserName,
				"high_contrast":             strconv.FormatBool(acc.HighContrast),
				"text_size":                 strconv.FormatFloat(acc.TextSize, 'g', -1, 64),
				"color_blind_mode":          acc.ColorBlindMode,
			}
			var rows [][]string
			for _, name := range store.SettingNames {
				rows = append(rows, []string{name, values[name]})
			}
			printTable(cmd.OutOrStdout(), "", []string{"Setting", "Value"}, rows)
			return nil
		},
	}

	set := &cobra.Command{
		Use:       "set NAME VALUE",
		Short:     "Change one setting",
		Args:      cobra.ExactArgs(2),
		ValidArgs: store.SettingNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Prefs.Set(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.AddCommand(show, set)
	return cmd
}

func (a *app) shieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shield",
		Short: "Distraction shield block lists",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the shield configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printShield(cmd, a.store.Prefs.LoadShield(cmd.Context()))
			return nil
		},
	}

	on := &cobra.Command{
		Use:   "on",
		Short: "Enable the shield",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := a.store.Prefs.EnableShield(cmd.Context())
			if err != nil {
				return err
			}
			printShield(cmd, sh)
			return nil
		},
	}
	off := &cobra.Command{
		Use:   "off",
		Short: "Disable the shield",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := a.store.Prefs.DisableShield(cmd.Context())
			if err != nil {
				return err
			}
			printShield(cmd, sh)
			return nil
		},
	}

	var pkg, category string
	blockApp := &cobra.Command{
		Use:   "app NAME",
		Short: "Block an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := a.store.Prefs.AddBlockedApp(cmd.Context(), store.BlockedApp{Name: args[0], PackageName: pkg})
			if err != nil {
				return err
			}
			printShield(cmd, sh)
			return nil
		},
	}
	blockApp.Flags().StringVar(&pkg, "package", "", "package name")

	blockSite := &cobra.Command{
		Use:   "site URL",
		Short: "Block a website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := a.store.Prefs.AddBlockedWebsite(cmd.Context(), store.BlockedWebsite{URL: args[0], Category: category})
			if err != nil {
				return err
			}
			printShield(cmd, sh)
			return nil
		},
	}
	blockSite.Flags().StringVar(&category, "category", "", "category label")

	unblock := &cobra.Command{
		Use:   "unblock ID",
		Short: "Remove a blocked app or website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sh := a.store.Prefs.LoadShield(ctx)
			if id, err := resolveID(args[0], idsOf(sh.BlockedApps, func(b store.BlockedApp) string { return b.ID })); err == nil {
				sh, err = a.store.Prefs.RemoveBlockedApp(ctx, id)
				if err != nil {
					return err
				}
				printShield(cmd, sh)
				return nil
			}
			id, err := resolveID(args[0], idsOf(sh.BlockedWebsites, func(b store.BlockedWebsite) string { return b.ID }))
			if err != nil {
				return err
			}
			sh, err = a.store.Prefs.RemoveBlockedWebsite(ctx, id)
			if err != nil {
				return err
			}
			printShield(cmd, sh)
			return nil
		},
	}

	var ns store.ShieldNotificationSettings
	notify := &cobra.Command{
		Use:   "notify",
		Short: "Choose which notifications pass the shield",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := a.store.Prefs.UpdateNotificationSettings(cmd.Context(), ns)
			if err != nil {
				return err
			}
			printShield(cmd, sh)
			return nil
		},
	}
	notify.Flags().BoolVar(&ns.AllowImportant, "important", true, "allow important notifications")
	notify.Flags().BoolVar(&ns.AllowCalls, "calls", true, "allow calls")
	notify.Flags().BoolVar(&ns.AllowMessages, "messages", true, "allow messages")

	cmd.AddCommand(show, on, off, blockApp, blockSite, unblock, notify)
	return cmd
}

func printShield(cmd *cobra.Command, sh store.ShieldSettings) {
	out := cmd.OutOrStdout()
	state := "off"
	if sh.IsEnabled {
		state = "on"
	}
	n := sh.NotificationSettings
	fmt.Fprintf(out, "Shield %s (important=%t calls=%t messages=%t)\n", state, n.AllowImportant, n.AllowCalls, n.AllowMessages)
	var rows [][]string
	for _, b := range sh.BlockedApps {
		rows = append(rows, []string{shortID(b.ID), "app", b.Name, b.PackageName})
	}
	for _, b := range sh.BlockedWebsites {
		rows = append(rows, []string{shortID(b.ID), "site", b.URL, b.Category})
	}
	printTable(out, "Nothing blocked.", []string{"ID", "Kind", "Target", "Detail"}, rows)
}
