package services

import (
	"context"
	"fmt"

	"tongueTwisterAPI/internal/leaderboard"
	"tongueTwisterAPI/internal/twister"

	"github.com/jackc/pgx/v5/pgxpool"
)

const leaderboardSize = 10

type LeaderboardService struct {
	db *pgxpool.Pool
}

func NewLeaderboardService(db *pgxpool.Pool) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// GetLeaderboard reduces the score history into the top entries by integer
// average score, optionally filtered by difficulty. Display names resolve
// through the profile store with a fallback to the raw user id, so score
// rows whose profile has drifted away still rank. Ties keep the order in
// which users first appear in the score history.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, currentUserEmail string, difficulty *twister.Difficulty) (*leaderboard.Leaderboard, error) {
	query := `
	SELECT
		s.user_email,
		COALESCE(u.name, s.user_email) AS display_name,
		ROUND(AVG(s.score))::INT AS average_score,
		COUNT(*) AS attempt_count
	FROM scores s
	LEFT JOIN users u ON u.email = s.user_email
	WHERE ($1::TEXT IS NULL OR s.difficulty = $1)
	GROUP BY s.user_email, u.name
	ORDER BY average_score DESC, MIN(s.id) ASC
	LIMIT $2
	`

	var filter *string
	if difficulty != nil {
		d := string(*difficulty)
		filter = &d
	}

	rows, err := s.db.Query(ctx, query, filter, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []*leaderboard.Entry{}
	var userPosition *leaderboard.Entry

	for rows.Next() {
		entry := &leaderboard.Entry{}
		err := rows.Scan(
			&entry.UserID,
			&entry.DisplayName,
			&entry.AverageScore,
			&entry.AttemptCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		entry.Rank = len(entries) + 1
		entries = append(entries, entry)

		if entry.UserID == currentUserEmail {
			userPosition = entry
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	return &leaderboard.Leaderboard{
		Entries:      entries,
		UserPosition: userPosition,
		TotalUsers:   len(entries),
	}, nil
}
