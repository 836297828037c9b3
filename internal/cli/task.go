package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/store"
)

func (a *app) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage ad hoc tasks",
	}

	var in store.NewTask
	var priority, category string
	add := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Title = args[0]
			in.Priority = store.Priority(priority)
			in.Category = store.Category(category)
			t, err := a.store.Tasks.CreateTask(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s %q at %s (%s)\n", shortID(t.ID), t.Title, t.Time, minutes(t.Duration))
			return nil
		},
	}
	add.Flags().StringVarP(&in.Time, "time", "t", "", "time slot, e.g. 09:30 or 2:00 PM")
	add.Flags().IntVarP(&in.Duration, "duration", "d", 25, "duration in minutes")
	add.Flags().StringVar(&in.Description, "desc", "", "description")
	add.Flags().StringVar(&in.Icon, "icon", "", "icon name")
	add.Flags().StringVarP(&priority, "priority", "p", "", "high, medium or low")
	add.Flags().StringVarP(&category, "category", "c", "", "work, personal, health, learning or social")
	add.Flags().StringVar(&in.Color, "color", "", "hex colour")

	var showDone bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List open tasks, or completed ones with --done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if showDone {
				var rows [][]string
				for _, t := range a.store.Tasks.GetCompletedTasks(ctx) {
					rows = append(rows, []string{shortID(t.ID), t.Title, minutes(t.Duration), ago(t.CompletedAt, a.now())})
				}
				printTable(out, "No completed tasks.", []string{"ID", "Title", "Duration", "Completed"}, rows)
				return nil
			}
			var rows [][]string
			for _, t := range store.MergeByID(a.store.Tasks.GetTasks(ctx)) {
				rows = append(rows, []string{shortID(t.ID), t.Time, t.Title, minutes(t.Duration), string(t.Priority), string(t.Category)})
			}
			printTable(out, "No tasks. Add one with: focusflow task add TITLE --time 09:00", []string{"ID", "Time", "Title", "Duration", "Priority", "Category"}, rows)
			return nil
		},
	}
	list.Flags().BoolVar(&showDone, "done", false, "show completed tasks")

	done := &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.taskID(cmd, args[0])
			if err != nil {
				return err
			}
			t, err := a.store.Tasks.CompleteTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %q\n", t.Title)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.taskID(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.store.Tasks.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", shortID(id))
			return nil
		},
	}

	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.taskID(cmd, args[0])
			if err != nil {
				return err
			}
			patch, err := taskPatch(cmd)
			if err != nil {
				return err
			}
			t, err := a.store.Tasks.UpdateTask(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s %q\n", shortID(t.ID), t.Title)
			return nil
		},
	}
	edit.Flags().String("title", "", "new title")
	edit.Flags().StringP("time", "t", "", "new time slot")
	edit.Flags().IntP("duration", "d", 0, "new duration in minutes")
	edit.Flags().String("desc", "", "new description")
	edit.Flags().StringP("priority", "p", "", "new priority")
	edit.Flags().StringP("category", "c", "", "new category")
	edit.Flags().String("status", "", "upcoming, current or in-progress")

	cmd.AddCommand(add, list, done, rm, edit)
	return cmd
}

func (a *app) taskID(cmd *cobra.Command, prefix string) (string, error) {
	tasks := a.store.Tasks.GetTasks(cmd.Context())
	return resolveID(prefix, idsOf(tasks, func(t store.TimedRoutineItem) string { return t.ID }))
}

// taskPatch collects only the flags the user set.
func taskPatch(cmd *cobra.Command) (store.TaskPatch, error) {
	var p store.TaskPatch
	f := cmd.Flags()
	str := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}
	p.Title = str("title")
	p.Time = str("time")
	p.Description = str("desc")
	if v := str("priority"); v != nil {
		pr := store.Priority(*v)
		p.Priority = &pr
	}
	if v := str("category"); v != nil {
		c := store.Category(*v)
		p.Category = &c
	}
	if v := str("status"); v != nil {
		s := store.Status(*v)
		if s == store.StatusCompleted {
			return p, fmt.Errorf("use 'task done' to complete a task")
		}
		p.Status = &s
	}
	if f.Changed("duration") {
		d, _ := f.GetInt("duration")
		p.Duration = &d
	}
	return p, nil
}
