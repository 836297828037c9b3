package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/store"
)

func (a *app) rewardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Points and unlockable rewards",
	}

	points := &cobra.Command{
		Use:   "points",
		Short: "Show the points balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s points\n", humanize.Comma(int64(a.store.Rewards.GetPoints(cmd.Context()))))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all rewards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printRewards(cmd, a, a.store.Rewards.GetRewards(cmd.Context()), "No rewards defined.")
			return nil
		},
	}

	available := &cobra.Command{
		Use:   "available",
		Short: "List locked rewards the balance can pay for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printRewards(cmd, a, a.store.Rewards.GetAvailableRewards(cmd.Context()), "Nothing affordable yet.")
			return nil
		},
	}

	var desc string
	add := &cobra.Command{
		Use:   "add TITLE POINTS",
		Short: "Define a reward",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cost, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("points %q: %w", args[1], err)
			}
			r, err := a.store.Rewards.AddReward(cmd.Context(), args[0], desc, cost)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added reward %s %q for %s points\n", shortID(r.ID), r.Title, humanize.Comma(int64(r.Points)))
			return nil
		},
	}
	add.Flags().StringVar(&desc, "desc", "", "description")

	unlock := &cobra.Command{
		Use:   "unlock ID",
		Short: "Unlock a reward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveID(args[0], idsOf(a.store.Rewards.GetRewards(ctx), func(r store.Reward) string { return r.ID }))
			if err != nil {
				return err
			}
			r, err := a.store.Rewards.UnlockReward(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unlocked %q\n", r.Title)
			return nil
		},
	}

	cmd.AddCommand(points, list, available, add, unlock)
	return cmd
}

func printRewards(cmd *cobra.Command, a *app, rewards []store.Reward, empty string) {
	var rows [][]string
	for _, r := range rewards {
		rows = append(rows, []string{shortID(r.ID), r.Title, humanize.Comma(int64(r.Points)), ago(r.UnlockedAt, a.now()), r.Description})
	}
	printTable(cmd.OutOrStdout(), empty, []string{"ID", "Reward", "Points", "Unlocked", "Description"}, rows)
}

func (a *app) streakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the current and longest streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.store.Rewards.GetStreak(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current streak: %d days\n", s.CurrentStreak)
			fmt.Fprintf(out, "Longest streak: %d days\n", s.LongestStreak)
			if s.LastCompletedDate != "" {
				fmt.Fprintf(out, "Last full day:  %s\n", s.LastCompletedDate)
			}
			return nil
		},
	}
}
