package entity

import (
	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

// Task is a single tracked habit. History holds distinct ISO YYYY-MM-DD
// dates in ascending order; Streak and LongestStreak are derived from it
// and recomputed on every completion.
type Task struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	History       []string `json:"history"`
	Archived      bool     `json:"archived"`
	Streak        int      `json:"streak"`
	LongestStreak int      `json:"longestStreak"`
}

// UserRecord is the per-user document held by the record store.
// Username stays empty until onboarding and is immutable afterwards.
type UserRecord struct {
	UID      uuid.UUID `json:"uid"`
	Username string    `json:"username,omitempty"`
	Tasks    []Task    `json:"tasks"`
}

type LeaderboardRow struct {
	Position int    `json:"position"`
	Username string `json:"username"`
	Count    int    `json:"count"`
}
