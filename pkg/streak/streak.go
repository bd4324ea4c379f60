// Package streak holds the pure habit-tracking core: completion recording
// with streak recomputation, time-window classification of completion dates
// and leaderboard aggregation. Nothing in here performs I/O; callers supply
// the data and, where relevant, the reference time.
package streak

import (
	"slices"
	"time"

	errorvalues "github.com/streakhq/streakboard/internal/error_values"
	"github.com/streakhq/streakboard/pkg/entity"
)

// DateLayout is the history entry format. Lexicographic order of such
// strings equals chronological order, so plain string sort keeps history
// sorted by date.
const DateLayout = "2006-01-02"

// ParseDate validates a history entry.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errorvalues.ErrInvalidDate
	}
	return t, nil
}

// DaysBetween returns the whole-day difference a-b. Both arguments must be
// valid DateLayout strings; invalid input yields 0.
func DaysBetween(a, b string) int {
	ta, err := ParseDate(a)
	if err != nil {
		return 0
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0
	}
	return int(ta.Sub(tb) / (24 * time.Hour))
}

// RecordCompletion marks task as completed on date and returns the updated
// task. Marking an already recorded date is a no-op: the input task comes
// back unchanged, so repeated marking within one day can never inflate a
// streak. The second return reports a broken streak (gap of more than one
// day to the previous entry); it is informational and never blocks the
// update. Streak and LongestStreak are recomputed from the full history on
// every call, which keeps them correct even when a date is recorded out of
// order.
func RecordCompletion(task entity.Task, date string) (entity.Task, bool, error) {
	if _, err := ParseDate(date); err != nil {
		return task, false, err
	}
	if slices.Contains(task.History, date) {
		return task, false, nil
	}

	hist := make([]string, 0, len(task.History)+1)
	hist = append(hist, task.History...)
	hist = append(hist, date)
	slices.Sort(hist)

	broken := false
	if i := slices.Index(hist, date); i > 0 && DaysBetween(date, hist[i-1]) > 1 {
		broken = true
	}

	cur, longest := 0, 0
	for i := range hist {
		if i == 0 || DaysBetween(hist[i], hist[i-1]) == 1 {
			cur++
		} else {
			cur = 1
		}
		longest = max(longest, cur)
	}

	task.History = hist
	task.Streak = cur
	task.LongestStreak = longest
	return task, broken, nil
}
