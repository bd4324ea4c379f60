package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/streakhq/streakboard/pkg/entity"
	"github.com/streakhq/streakboard/pkg/streak"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type OnboardRequest struct {
	Username string `validate:"required,alphanum_underscore,min=3,max=30"`
}

type AddTaskRequest struct {
	Name string `validate:"required,min=1,max=100"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new identity row plus an empty
	// user record. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, gives back user's data with ID
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// Sets the display username exactly once. A second attempt fails with
	// ErrUsernameAlreadySet
	Onboard(ctx context.Context, uid uuid.UUID, req *OnboardRequest) error
	// Current record of the user: username plus full task list
	Record(ctx context.Context, uid uuid.UUID) (*entity.UserRecord, error)
}

// CompletionResult is what marking a task complete hands back: the task with
// recomputed streaks and whether this completion arrived after a gap that
// broke the previous streak.
type CompletionResult struct {
	Task         *entity.Task `json:"task"`
	StreakBroken bool         `json:"streak_broken"`
}

// MonthView is the calendar page payload: every date of the current month
// plus the done-dates of each active task within it.
type MonthView struct {
	Days  []string        `json:"days"`
	Tasks []MonthViewTask `json:"tasks"`
}

type MonthViewTask struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Streak        int      `json:"streak"`
	LongestStreak int      `json:"longestStreak"`
	Done          []string `json:"done"`
}

type TaskServiceI interface {
	AddTask(ctx context.Context, uid uuid.UUID, req *AddTaskRequest) (*entity.Task, error)
	RenameTask(ctx context.Context, uid uuid.UUID, taskID int64, name string) (*entity.Task, error)
	// Flips the archived flag; archived tasks keep history and stay on
	// leaderboards
	ToggleArchive(ctx context.Context, uid uuid.UUID, taskID int64) (*entity.Task, error)
	DeleteTask(ctx context.Context, uid uuid.UUID, taskID int64) error
	// Records a completion for date (today when date is empty). Marking an
	// already marked date is a successful no-op
	MarkComplete(ctx context.Context, uid uuid.UUID, taskID int64, date string) (*CompletionResult, error)
	MonthView(ctx context.Context, uid uuid.UUID, now time.Time) (*MonthView, error)
}

type LeaderboardServiceI interface {
	// Top-5 boards for every window, rebuilt from all stored records (cached
	// when a cache is wired)
	Boards(ctx context.Context, now time.Time) (map[streak.Window][]entity.LeaderboardRow, error)
	// Drops the cached boards; called whenever any user's record changes
	Invalidate(ctx context.Context)
}

// BoardsCacheI is the slice of the cache the leaderboard service needs.
type BoardsCacheI interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
