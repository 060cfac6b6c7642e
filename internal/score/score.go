package score

import (
	"time"

	"tongueTwisterAPI/internal/twister"
)

// Record is one completed practice attempt. Records are append-only: once
// written they are never edited or deleted, and the score table is the
// source of truth for history and the leaderboard.
type Record struct {
	ID          int64              `json:"id"`
	UserEmail   string             `json:"userId"`
	Score       int                `json:"score"`
	TwisterText string             `json:"text"`
	Difficulty  twister.Difficulty `json:"difficulty"`
	CreatedAt   time.Time          `json:"timestamp"`
}
