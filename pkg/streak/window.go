package streak

import (
	"time"
)

// Window is a leaderboard scoring period. Windows overlap: one completion
// date can match several of them at once.
type Window string

const (
	Weekly  Window = "weekly"
	Monthly Window = "monthly"
	Yearly  Window = "yearly"
	AllTime Window = "allTime"
)

// Windows lists all scoring periods in presentation order.
var Windows = []Window{Weekly, Monthly, Yearly, AllTime}

// InWindow reports whether date falls inside w relative to now. Weekly is a
// rolling trailing 7-day period, not a calendar week; monthly and yearly are
// calendar-aligned. Malformed dates match no window.
func InWindow(date string, w Window, now time.Time) bool {
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	switch w {
	case Weekly:
		return now.Sub(d).Hours()/24 <= 7
	case Monthly:
		return d.Month() == now.Month() && d.Year() == now.Year()
	case Yearly:
		return d.Year() == now.Year()
	case AllTime:
		return true
	}
	return false
}

// MonthGrid returns every date of the month containing now, day 1 through
// the last day, ascending. Month length comes from calendar arithmetic, so
// leap Februaries get their 29 days.
func MonthGrid(now time.Time) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	count := first.AddDate(0, 1, -1).Day()
	grid := make([]string, 0, count)
	for day := 1; day <= count; day++ {
		grid = append(grid, time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.UTC).Format(DateLayout))
	}
	return grid
}
