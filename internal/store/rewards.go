package store

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	keyRewards = "@FocusFlow/rewards"
	keyStreaks = "@FocusFlow/streaks"
	keyPoints  = "@FocusFlow/points"
)

// PointsPerItem is the base award for each item of a fully completed day.
const PointsPerItem = 10

// RewardsService tracks points, unlockable rewards and the daily streak.
type RewardsService struct {
	base
}

func (r *RewardsService) GetPoints(ctx context.Context) int {
	raw, ok, err := r.kv.Get(ctx, keyPoints)
	if err != nil {
		r.log.Warn("load failed", "key", keyPoints, "err", err)
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		r.log.Warn("decode failed", "key", keyPoints, "err", err)
		return 0
	}
	return n
}

// AddPoints adds n to the balance and returns the new total.
func (r *RewardsService) AddPoints(ctx context.Context, n int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := r.GetPoints(ctx) + n
	if err := r.kv.Set(ctx, keyPoints, strconv.Itoa(total)); err != nil {
		return 0, fmt.Errorf("add points: %w", err)
	}
	return total, nil
}

func (r *RewardsService) GetRewards(ctx context.Context) []Reward {
	return loadList[Reward](ctx, &r.base, keyRewards)
}

func (r *RewardsService) AddReward(ctx context.Context, title, description string, points int) (*Reward, error) {
	if strings.TrimSpace(title) == "" || points < 0 {
		return nil, fmt.Errorf("add reward: %w", ErrInvalidSetting)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reward := Reward{ID: uuid.NewString(), Title: title, Description: description, Points: points}
	rewards := append(r.GetRewards(ctx), reward)
	if err := r.save(ctx, keyRewards, rewards); err != nil {
		return nil, fmt.Errorf("add reward: %w", err)
	}
	return &reward, nil
}

// UnlockReward stamps the reward as unlocked. Points are not deducted.
func (r *RewardsService) UnlockReward(ctx context.Context, id string) (*Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rewards := r.GetRewards(ctx)
	i := slices.IndexFunc(rewards, func(rw Reward) bool { return rw.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("unlock reward %q: %w", id, ErrNotFound)
	}
	now := r.now()
	rewards[i].UnlockedAt = &now
	if err := r.save(ctx, keyRewards, rewards); err != nil {
		return nil, fmt.Errorf("unlock reward %q: %w", id, err)
	}
	return &rewards[i], nil
}

// GetAvailableRewards returns locked rewards the current balance can afford.
func (r *RewardsService) GetAvailableRewards(ctx context.Context) []Reward {
	points := r.GetPoints(ctx)
	var out []Reward
	for _, rw := range r.GetRewards(ctx) {
		if rw.UnlockedAt == nil && rw.Points <= points {
			out = append(out, rw)
		}
	}
	return out
}

func (r *RewardsService) GetStreak(ctx context.Context) Streak {
	var s Streak
	if !r.loadInto(ctx, keyStreaks, &s) {
		return Streak{}
	}
	return s
}

// StreakPoints is the award for completing n items while on the given streak:
// n*10*(1+0.1*streak), computed in integers.
func StreakPoints(n, streak int) int {
	return n * (PointsPerItem + streak)
}

// UpdateStreak advances the streak when every block is completed and awards
// points for the day. It returns the streak and the points awarded.
func (r *RewardsService) UpdateStreak(ctx context.Context, blocks []TimeBlock) (Streak, int, error) {
	return r.updateStreak(ctx, len(blocks), allCompleted(blocks))
}

// UpdateStreakForItems is UpdateStreak over routine items.
func (r *RewardsService) UpdateStreakForItems(ctx context.Context, items []TimedRoutineItem) (Streak, int, error) {
	return r.updateStreak(ctx, len(items), allCompleted(items))
}

func allCompleted[T interface{ IsCompleted() bool }](items []T) bool {
	for _, it := range items {
		if !it.IsCompleted() {
			return false
		}
	}
	return true
}

func (r *RewardsService) updateStreak(ctx context.Context, n int, done bool) (Streak, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	streak := r.GetStreak(ctx)
	if n == 0 || !done {
		return streak, 0, nil
	}

	today := r.today()
	if streak.LastCompletedDate != "" {
		if diff, err := daysBetween(streak.LastCompletedDate, today); err == nil && diff < 0 {
			r.log.Warn("last completion is in the future", "last", streak.LastCompletedDate, "today", today)
			return streak, 0, nil
		}
	}
	// A day pays out once. Completing again on the same day keeps the
	// streak and awards no points, even though each completion could.
	next, changed := advanceStreak(streak.CurrentStreak, streak.LastCompletedDate, today)
	if !changed {
		return streak, 0, nil
	}
	streak.CurrentStreak = next
	streak.LongestStreak = max(streak.LongestStreak, next)
	streak.LastCompletedDate = today

	awarded := StreakPoints(n, streak.CurrentStreak)
	err := r.saveAll(ctx, map[string]any{
		keyStreaks: streak,
		keyPoints:  r.GetPoints(ctx) + awarded,
	})
	if err != nil {
		return Streak{}, 0, fmt.Errorf("update streak: %w", err)
	}
	return streak, awarded, nil
}
