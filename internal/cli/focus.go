package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/store"
)

func (a *app) focusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Log focus sessions",
	}

	var mins int
	var kind string
	start := &cobra.Command{
		Use:   "start [TASK]",
		Short: "Open a focus session, optionally for a task title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			if !cmd.Flags().Changed("minutes") {
				mins = a.store.Prefs.LoadPreferences(cmd.Context()).FocusDuration
			}
			s, err := a.store.Focus.StartSession(cmd.Context(), title, kind, mins)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started %s session %s (%s)\n", s.SessionType, shortID(s.ID), minutes(s.Duration))
			return nil
		},
	}
	start.Flags().IntVarP(&mins, "minutes", "m", 25, "planned minutes (default from settings)")
	start.Flags().StringVar(&kind, "type", "focus", "session type")

	var notes string
	done := &cobra.Command{
		Use:   "done ID",
		Short: "Close a session; a routine item with the same title is completed too",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sessions := a.store.Focus.LoadSessions(ctx)
			id, err := resolveID(args[0], idsOf(sessions, func(s store.FocusSession) string { return s.ID }))
			if err != nil {
				return err
			}
			s, err := a.store.Focus.CompleteSession(ctx, id, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session done after %s\n", minutes(int(s.EndTime.Sub(s.StartTime).Minutes())))
			return nil
		},
	}
	done.Flags().StringVarP(&notes, "notes", "n", "", "notes for the session")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show focus totals and today's sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			ss := a.store.Focus.SessionStats(ctx)
			fs := a.store.Data.LoadFocusStats(ctx)

			fmt.Fprintf(out, "Sessions:        %d (%.0f%% completed)\n", ss.TotalSessions, ss.CompletionRate)
			fmt.Fprintf(out, "Session time:    %s, average %s\n", minutes(ss.TotalFocusTime), minutes(ss.AverageSessionLength))
			fmt.Fprintf(out, "Completed items: %d, %s focused\n", fs.CompletedSessions, minutes(fs.TotalFocusTime))
			fmt.Fprintf(out, "Weekly goal:     %s of %s (%.0f%%)\n", minutes(int(fs.WeeklyProgress)), minutes(fs.WeeklyGoal), fs.WeeklyRatio()*100)
			fmt.Fprintf(out, "Monthly goal:    %s of %s (%.0f%%)\n", minutes(int(fs.MonthlyProgress)), minutes(fs.MonthlyGoal), fs.MonthlyRatio()*100)

			var rows [][]string
			for _, s := range a.store.Focus.TodaySessions(ctx) {
				rows = append(rows, []string{check(s.Completed), shortID(s.ID), s.StartTime.Local().Format("15:04"), s.TaskTitle, s.SessionType, minutes(s.Duration)})
			}
			fmt.Fprintln(out, "\nToday")
			printTable(out, "No sessions today.", []string{"", "ID", "Start", "Task", "Type", "Planned"}, rows)
			return nil
		},
	}

	cmd.AddCommand(start, done, stats)
	return cmd
}

func (a *app) habitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Track daily and weekly habits",
	}

	var icon, stacked string
	var weekly bool
	var goal int
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			freq := store.FrequencyDaily
			if weekly {
				freq = store.FrequencyWeekly
			}
			h, err := a.store.Habits.Add(cmd.Context(), args[0], icon, freq, goal, stacked)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added habit %s %s %s\n", shortID(h.ID), h.Icon, h.Name)
			return nil
		},
	}
	add.Flags().StringVar(&icon, "icon", "", "emoji")
	add.Flags().BoolVar(&weekly, "weekly", false, "weekly instead of daily")
	add.Flags().IntVarP(&goal, "goal", "g", 1, "units per day")
	add.Flags().StringVar(&stacked, "after", "", "existing routine this habit is stacked on")

	list := &cobra.Command{
		Use:   "list",
		Short: "List habits with today's progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			sum := a.store.Habits.Summary(ctx)
			if sum.LongestStreak > 0 {
				fmt.Fprintf(out, "🔥 %d days: %s\n", sum.LongestStreak, sum.LongestHabit)
			}
			fmt.Fprintf(out, "Today: %d/%d habits\n", sum.CompletedToday, sum.Total)

			var rows [][]string
			for _, h := range a.store.Habits.List(ctx) {
				rows = append(rows, []string{check(h.Completed), shortID(h.ID), h.Icon + " " + h.Name, fmt.Sprintf("%d/%d", h.Progress, h.Goal), fmt.Sprintf("%d", h.Streak), string(h.Frequency)})
			}
			printTable(out, "No habits yet.", []string{"", "ID", "Habit", "Progress", "Streak", "Frequency"}, rows)
			return nil
		},
	}

	var once bool
	done := &cobra.Command{
		Use:   "done ID",
		Short: "Complete a habit for today, or add one unit with --step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.habitID(cmd, args[0])
			if err != nil {
				return err
			}
			var h *store.Habit
			if once {
				h, err = a.store.Habits.Progress(cmd.Context(), id)
			} else {
				h, err = a.store.Habits.Complete(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d/%d today, %d-day streak\n", h.Icon, h.Name, h.Progress, h.Goal, h.Streak)
			return nil
		},
	}
	done.Flags().BoolVar(&once, "step", false, "record one unit of progress")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.habitID(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.store.Habits.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted habit %s\n", shortID(id))
			return nil
		},
	}

	cmd.AddCommand(add, list, done, rm)
	return cmd
}

func (a *app) habitID(cmd *cobra.Command, prefix string) (string, error) {
	habits := a.store.Habits.List(cmd.Context())
	return resolveID(prefix, idsOf(habits, func(h store.Habit) string { return h.ID }))
}
