package streak

import (
	"sort"
	"time"

	"github.com/streakhq/streakboard/pkg/entity"
)

// TopN is how many rows each board keeps.
const TopN = 5

// anonymous is shown for users who never finished onboarding.
const anonymous = "anon"

// BuildLeaderboard tallies every completion date of every task (archived
// ones included) into the per-user counter of each matching window, then
// ranks users per window: descending by count, ties kept in input order,
// truncated to TopN. Users without tasks participate with all-zero counts.
// The aggregation is stateless and recomputed from scratch on every call.
func BuildLeaderboard(records []entity.UserRecord, now time.Time) map[Window][]entity.LeaderboardRow {
	type tally struct {
		username string
		counts   map[Window]int
	}

	tallies := make([]tally, 0, len(records))
	for _, rec := range records {
		t := tally{username: rec.Username, counts: make(map[Window]int, len(Windows))}
		if t.username == "" {
			t.username = anonymous
		}
		for _, task := range rec.Tasks {
			for _, date := range task.History {
				for _, w := range Windows {
					if InWindow(date, w, now) {
						t.counts[w]++
					}
				}
			}
		}
		tallies = append(tallies, t)
	}

	boards := make(map[Window][]entity.LeaderboardRow, len(Windows))
	for _, w := range Windows {
		order := make([]int, len(tallies))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return tallies[order[a]].counts[w] > tallies[order[b]].counts[w]
		})
		rows := make([]entity.LeaderboardRow, 0, min(TopN, len(order)))
		for pos, i := range order {
			if pos == TopN {
				break
			}
			rows = append(rows, entity.LeaderboardRow{
				Position: pos + 1,
				Username: tallies[i].username,
				Count:    tallies[i].counts[w],
			})
		}
		boards[w] = rows
	}
	return boards
}

// Badge returns the medal shown next to a 1-based leaderboard position.
func Badge(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return "🏅"
}
