package streak_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/streakhq/streakboard/pkg/entity"
	"github.com/streakhq/streakboard/pkg/streak"
)

func record(username string, histories ...[]string) entity.UserRecord {
	rec := entity.UserRecord{
		UID:      uuid.New(),
		Username: username,
	}
	for i, history := range histories {
		rec.Tasks = append(rec.Tasks, entity.Task{
			ID:      int64(i + 1),
			Name:    fmt.Sprintf("task_%d", i+1),
			History: history,
		})
	}
	return rec
}

// datesBack returns n distinct dates ending the day before referenceNow.
func datesBack(n int) []string {
	dates := make([]string, 0, n)
	for i := n; i >= 1; i-- {
		dates = append(dates, referenceNow.AddDate(0, 0, -i).Format(streak.DateLayout))
	}
	return dates
}

func TestBuildLeaderboard(t *testing.T) {
	t.Run("ranks descending by count", func(t *testing.T) {
		records := []entity.UserRecord{
			record("alice", []string{"2021-03-01", "2021-03-02", "2021-05-01", "2021-06-01", "2021-07-01"}),
			record("bob", datesBack(9)),
			record("carol", []string{"2020-01-01", "2020-06-15"}),
		}
		boards := streak.BuildLeaderboard(records, referenceNow)
		allTime := boards[streak.AllTime]
		assert.Len(t, allTime, 3)
		assert.Equal(t, entity.LeaderboardRow{Position: 1, Username: "bob", Count: 9}, allTime[0])
		assert.Equal(t, entity.LeaderboardRow{Position: 2, Username: "alice", Count: 5}, allTime[1])
		assert.Equal(t, entity.LeaderboardRow{Position: 3, Username: "carol", Count: 2}, allTime[2])
	})
	t.Run("keeps only the top five", func(t *testing.T) {
		records := make([]entity.UserRecord, 0, 7)
		for i := 1; i <= 7; i++ {
			records = append(records, record(fmt.Sprintf("user_%d", i), datesBack(i)))
		}
		boards := streak.BuildLeaderboard(records, referenceNow)
		yearly := boards[streak.Yearly]
		assert.Len(t, yearly, 5)
		assert.Equal(t, "user_7", yearly[0].Username)
		assert.Equal(t, "user_3", yearly[4].Username)
	})
	t.Run("ties stay in input order", func(t *testing.T) {
		records := []entity.UserRecord{
			record("first", datesBack(3)),
			record("second", datesBack(3)),
		}
		boards := streak.BuildLeaderboard(records, referenceNow)
		for _, w := range streak.Windows {
			assert.Equal(t, "first", boards[w][0].Username, string(w))
			assert.Equal(t, "second", boards[w][1].Username, string(w))
		}
	})
	t.Run("one recent date counts in every window at once", func(t *testing.T) {
		records := []entity.UserRecord{
			record("alice", []string{referenceNow.AddDate(0, 0, -2).Format(streak.DateLayout)}),
		}
		boards := streak.BuildLeaderboard(records, referenceNow)
		for _, w := range streak.Windows {
			assert.Equal(t, 1, boards[w][0].Count, string(w))
		}
	})
	t.Run("archived tasks still count", func(t *testing.T) {
		rec := record("alice", datesBack(4))
		rec.Tasks[0].Archived = true
		boards := streak.BuildLeaderboard([]entity.UserRecord{rec}, referenceNow)
		assert.Equal(t, 4, boards[streak.AllTime][0].Count)
	})
	t.Run("counts sum across tasks of one user", func(t *testing.T) {
		rec := record("alice", []string{"2024-01-10", "2024-01-11"}, []string{"2024-01-10"})
		boards := streak.BuildLeaderboard([]entity.UserRecord{rec}, referenceNow)
		assert.Equal(t, 3, boards[streak.Monthly][0].Count)
	})
	t.Run("user without tasks sorts last with zero counts", func(t *testing.T) {
		records := []entity.UserRecord{
			record("empty"),
			record("busy", datesBack(2)),
		}
		boards := streak.BuildLeaderboard(records, referenceNow)
		allTime := boards[streak.AllTime]
		assert.Equal(t, "busy", allTime[0].Username)
		assert.Equal(t, "empty", allTime[1].Username)
		assert.Equal(t, 0, allTime[1].Count)
	})
	t.Run("missing username renders as anon", func(t *testing.T) {
		boards := streak.BuildLeaderboard([]entity.UserRecord{record("", datesBack(1))}, referenceNow)
		assert.Equal(t, "anon", boards[streak.AllTime][0].Username)
	})
}

func TestBadge(t *testing.T) {
	assert.Equal(t, "🥇", streak.Badge(1))
	assert.Equal(t, "🥈", streak.Badge(2))
	assert.Equal(t, "🥉", streak.Badge(3))
	assert.Equal(t, "🏅", streak.Badge(4))
	assert.Equal(t, "🏅", streak.Badge(5))
}
