package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/store"
)

func (a *app) routineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routine",
		Short: "Plan the day: routine items and time blocks",
	}
	var date string
	cmd.PersistentFlags().StringVar(&date, "date", "", "day as YYYY-MM-DD (default today)")
	day := func() string {
		if date == "" {
			return a.today()
		}
		return date
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the agenda and the time blocks of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			d := day()

			agenda := store.MergeByID(a.store.Data.LoadRoutineItems(ctx), a.store.Tasks.GetTasks(ctx))
			var rows [][]string
			for _, it := range agenda {
				kind := "task"
				if it.IsRoutine {
					kind = "routine"
				}
				rows = append(rows, []string{check(it.Completed), shortID(it.ID), it.Time, it.Title, minutes(it.Duration), kind})
			}
			fmt.Fprintln(out, "Agenda")
			printTable(out, "Nothing scheduled.", []string{"", "ID", "Time", "Title", "Duration", "Kind"}, rows)

			fmt.Fprintf(out, "\nTime blocks for %s\n", d)
			printBlocks(out, a.store.Routines.GetRoutine(ctx, d))
			return nil
		},
	}

	var at string
	var dur int
	add := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a routine item to the agenda",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := a.store.Data.AddRoutineItem(cmd.Context(), store.TimedRoutineItem{
				Title:     args[0],
				Time:      at,
				Duration:  dur,
				IsRoutine: true,
				Priority:  store.PriorityMedium,
				Category:  store.CategoryPersonal,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added routine item %s %q\n", shortID(it.ID), it.Title)
			return nil
		},
	}
	add.Flags().StringVarP(&at, "time", "t", "", "time slot")
	add.Flags().IntVarP(&dur, "duration", "d", 30, "duration in minutes")

	var start, end, icon, color string
	block := &cobra.Command{
		Use:   "block TITLE",
		Short: "Add a time block to the day plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.store.Routines.AddBlock(cmd.Context(), day(), store.TimeBlock{
				Title: args[0], StartTime: start, EndTime: end, Icon: icon, Color: color,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added block %s %q %s-%s\n", shortID(b.ID), b.Title, b.StartTime, b.EndTime)
			return nil
		},
	}
	block.Flags().StringVar(&start, "start", "", "start time")
	block.Flags().StringVar(&end, "end", "", "end time")
	block.Flags().StringVar(&icon, "icon", "", "icon name")
	block.Flags().StringVar(&color, "color", "", "hex colour")

	var undo bool
	done := &cobra.Command{
		Use:   "done BLOCK_ID",
		Short: "Tick off a time block; finishing the day extends the streak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d := day()
			id, err := resolveID(args[0], idsOf(a.store.Routines.GetRoutine(ctx, d), func(b store.TimeBlock) string { return b.ID }))
			if err != nil {
				return err
			}
			blocks, err := a.store.Routines.SetBlockCompleted(ctx, d, id, !undo)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printBlocks(out, blocks)
			if undo || d != a.today() {
				return nil
			}
			streak, awarded, err := a.store.Rewards.UpdateStreak(ctx, blocks)
			if err != nil {
				return err
			}
			if awarded > 0 {
				fmt.Fprintf(out, "Day complete! %d-day streak, +%s points\n", streak.CurrentStreak, humanize.Comma(int64(awarded)))
			}
			return nil
		},
	}
	done.Flags().BoolVar(&undo, "undo", false, "mark the block as not done")

	complete := &cobra.Command{
		Use:   "complete ITEM_ID",
		Short: "Move a routine item to the completed history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items := a.store.Data.LoadRoutineItems(ctx)
			id, err := resolveID(args[0], idsOf(items, func(it store.TimedRoutineItem) string { return it.ID }))
			if err != nil {
				return err
			}
			t, err := a.store.Data.CompleteItem(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Completed %q (+%s focus)\n", t.Title, minutes(t.Duration))

			if rest := a.store.Data.LoadRoutineItems(ctx); len(rest) == 0 {
				streak, awarded, err := a.store.Rewards.UpdateStreakForItems(ctx, a.store.Data.CompletedRoutineItems(ctx, a.today()))
				if err != nil {
					return err
				}
				if awarded > 0 {
					fmt.Fprintf(out, "All routine items done! %d-day streak, +%s points\n", streak.CurrentStreak, humanize.Comma(int64(awarded)))
				}
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a routine item or a time block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items := a.store.Data.LoadRoutineItems(ctx)
			if id, err := resolveID(args[0], idsOf(items, func(it store.TimedRoutineItem) string { return it.ID })); err == nil {
				if err := a.store.Data.DeleteRoutineItem(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed routine item %s\n", shortID(id))
				return nil
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			d := day()
			id, err := resolveID(args[0], idsOf(a.store.Routines.GetRoutine(ctx, d), func(b store.TimeBlock) string { return b.ID }))
			if err != nil {
				return err
			}
			if err := a.store.Routines.RemoveBlock(ctx, d, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed block %s\n", shortID(id))
			return nil
		},
	}

	cmd.AddCommand(show, add, block, done, complete, rm)
	return cmd
}

func printBlocks(w io.Writer, blocks []store.TimeBlock) {
	var rows [][]string
	for _, b := range blocks {
		rows = append(rows, []string{check(b.Completed), shortID(b.ID), b.StartTime + "-" + b.EndTime, b.Title})
	}
	printTable(w, "No time blocks.", []string{"", "ID", "When", "Title"}, rows)
}

func (a *app) templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Save and reuse day plans",
	}

	var from string
	save := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a day's time blocks as a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := from
			if d == "" {
				d = a.today()
			}
			blocks := a.store.Routines.GetRoutine(cmd.Context(), d)
			if len(blocks) == 0 {
				return fmt.Errorf("no time blocks on %s to save", d)
			}
			t, err := a.store.Routines.SaveTemplate(cmd.Context(), args[0], blocks)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved template %s %q with %d blocks\n", shortID(t.ID), t.Name, len(t.Blocks))
			return nil
		},
	}
	save.Flags().StringVar(&from, "from", "", "day to copy (default today)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, t := range a.store.Routines.GetTemplates(cmd.Context()) {
				rows = append(rows, []string{shortID(t.ID), t.Name, fmt.Sprint(len(t.Blocks)), humanize.RelTime(t.UpdatedAt, a.now(), "ago", "from now")})
			}
			printTable(cmd.OutOrStdout(), "No templates.", []string{"ID", "Name", "Blocks", "Updated"}, rows)
			return nil
		},
	}

	var to string
	apply := &cobra.Command{
		Use:   "apply ID|NAME",
		Short: "Replace a day's plan with a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := a.templateID(cmd, args[0])
			if err != nil {
				return err
			}
			d := to
			if d == "" {
				d = a.today()
			}
			blocks, err := a.store.Routines.ApplyTemplate(ctx, id, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planned %d blocks on %s\n", len(blocks), d)
			return nil
		},
	}
	apply.Flags().StringVar(&to, "date", "", "target day (default today)")

	rm := &cobra.Command{
		Use:   "rm ID|NAME",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.templateID(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.store.Routines.DeleteTemplate(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %s\n", shortID(id))
			return nil
		},
	}

	mv := &cobra.Command{
		Use:   "rename ID|NAME NEW_NAME",
		Short: "Rename a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.templateID(cmd, args[0])
			if err != nil {
				return err
			}
			name := args[1]
			t, err := a.store.Routines.UpdateTemplate(cmd.Context(), id, store.TemplatePatch{Name: &name})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed template to %q\n", t.Name)
			return nil
		},
	}

	cmd.AddCommand(save, list, apply, rm, mv)
	return cmd
}

// templateID accepts a full id, a name or an id prefix.
func (a *app) templateID(cmd *cobra.Command, ref string) (string, error) {
	if t, err := a.store.Routines.GetTemplate(cmd.Context(), ref); err == nil {
		return t.ID, nil
	}
	templates := a.store.Routines.GetTemplates(cmd.Context())
	return resolveID(ref, idsOf(templates, func(t store.RoutineTemplate) string { return t.ID }))
}
