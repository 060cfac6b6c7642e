package stats

import "tongueTwisterAPI/internal/score"

// UserStats summarizes a user's practice history for the profile screen.
type UserStats struct {
	AverageScore  int            `json:"average_score"`
	AttemptCount  int            `json:"attempt_count"`
	BestScore     int            `json:"best_score"`
	ByDifficulty  map[string]int `json:"attempts_by_difficulty"`
	RecentHistory []score.Record `json:"recent_history"`
}
