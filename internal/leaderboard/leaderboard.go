package leaderboard

type Entry struct {
	UserID       string `json:"user_id"`
	DisplayName  string `json:"display_name"`
	AverageScore int    `json:"average_score"`
	AttemptCount int    `json:"attempt_count"`
	Rank         int    `json:"rank"`
}

type Leaderboard struct {
	Entries      []*Entry `json:"entries"`
	UserPosition *Entry   `json:"user_position"`
	TotalUsers   int      `json:"total_users"`
}
