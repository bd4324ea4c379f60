package streak_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	errorvalues "github.com/streakhq/streakboard/internal/error_values"
	"github.com/streakhq/streakboard/pkg/entity"
	"github.com/streakhq/streakboard/pkg/streak"
)

func task(history ...string) entity.Task {
	return entity.Task{
		ID:      1,
		Name:    "test_task",
		History: history,
	}
}

func TestRecordCompletion(t *testing.T) {
	t.Run("first completion starts a streak of one", func(t *testing.T) {
		updated, broken, err := streak.RecordCompletion(task(), "2024-01-01")
		assert.NoError(t, err)
		assert.False(t, broken)
		assert.Equal(t, []string{"2024-01-01"}, updated.History)
		assert.Equal(t, 1, updated.Streak)
		assert.Equal(t, 1, updated.LongestStreak)
	})
	t.Run("consecutive days extend the streak", func(t *testing.T) {
		updated, broken, err := streak.RecordCompletion(task("2024-01-01", "2024-01-02"), "2024-01-03")
		assert.NoError(t, err)
		assert.False(t, broken)
		assert.Equal(t, 3, updated.Streak)
		assert.Equal(t, 3, updated.LongestStreak)
	})
	t.Run("gap over one day breaks the streak", func(t *testing.T) {
		updated, broken, err := streak.RecordCompletion(task("2024-01-01"), "2024-01-05")
		assert.NoError(t, err)
		assert.True(t, broken)
		assert.Equal(t, 1, updated.Streak)
		assert.Equal(t, 1, updated.LongestStreak)
	})
	t.Run("longest streak survives a break", func(t *testing.T) {
		updated, broken, err := streak.RecordCompletion(task("2024-01-01", "2024-01-02"), "2024-01-10")
		assert.NoError(t, err)
		assert.True(t, broken)
		assert.Equal(t, 1, updated.Streak)
		assert.Equal(t, 2, updated.LongestStreak)
	})
	t.Run("duplicate date is a no-op", func(t *testing.T) {
		in := task("2024-01-01", "2024-01-02")
		once, broken, err := streak.RecordCompletion(in, "2024-01-02")
		assert.NoError(t, err)
		assert.False(t, broken)
		assert.Equal(t, in, once)
		twice, _, err := streak.RecordCompletion(once, "2024-01-02")
		assert.NoError(t, err)
		assert.Equal(t, once, twice)
	})
	t.Run("malformed date is rejected without touching the task", func(t *testing.T) {
		in := task("2024-01-01")
		updated, broken, err := streak.RecordCompletion(in, "jan 2nd")
		assert.ErrorIs(t, err, errorvalues.ErrInvalidDate)
		assert.False(t, broken)
		assert.Equal(t, in, updated)
	})
	t.Run("filling a gap merges the runs", func(t *testing.T) {
		updated, broken, err := streak.RecordCompletion(task("2024-01-01", "2024-01-03"), "2024-01-02")
		assert.NoError(t, err)
		assert.False(t, broken)
		assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, updated.History)
		assert.Equal(t, 3, updated.Streak)
		assert.Equal(t, 3, updated.LongestStreak)
	})
	t.Run("longest streak never decreases", func(t *testing.T) {
		cur := task()
		prevLongest := 0
		for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-10", "2024-01-11", "2024-02-01"} {
			next, _, err := streak.RecordCompletion(cur, date)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, next.LongestStreak, prevLongest)
			prevLongest = next.LongestStreak
			cur = next
		}
		assert.Equal(t, 3, cur.LongestStreak)
		assert.Equal(t, 1, cur.Streak)
	})
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 4, streak.DaysBetween("2024-01-05", "2024-01-01"))
	assert.Equal(t, -4, streak.DaysBetween("2024-01-01", "2024-01-05"))
	assert.Equal(t, 0, streak.DaysBetween("2024-01-01", "2024-01-01"))
	// Across the leap day
	assert.Equal(t, 2, streak.DaysBetween("2024-03-01", "2024-02-28"))
	assert.Equal(t, 0, streak.DaysBetween("not a date", "2024-01-01"))
}
