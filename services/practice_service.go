package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tongueTwisterAPI/internal/achievement"
	"tongueTwisterAPI/internal/celebration"
	"tongueTwisterAPI/internal/progress"
	"tongueTwisterAPI/internal/score"
	"tongueTwisterAPI/internal/twister"
	"tongueTwisterAPI/internal/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dailyChallengeMinScore = 80
	highScoreThreshold     = 90
)

// AttemptResult is everything a client needs to render one scored attempt:
// the analysis itself, the refreshed profile, and the gamification outcome.
type AttemptResult struct {
	Analysis                *AnalysisResult           `json:"analysis"`
	Score                   *score.Record             `json:"score"`
	User                    *user.User                `json:"user"`
	XPGained                int                       `json:"xp_gained"`
	LeveledUp               bool                      `json:"leveled_up"`
	NewAchievements         []achievement.Achievement `json:"new_achievements"`
	DailyChallengeCompleted bool                      `json:"daily_challenge_completed"`
	Celebrations            []celebration.Event       `json:"celebrations"`
}

// PracticeService orchestrates a practice attempt: transcript validation,
// the external scoring call, and the progress-engine update. The update runs
// as one transaction with the user row locked, so concurrent attempts by the
// same user (multiple tabs) serialize instead of clobbering each other, and
// a failed update never leaves an orphaned score row.
type PracticeService struct {
	db     *pgxpool.Pool
	scorer *ScoringService
	now    func() time.Time
}

func NewPracticeService(db *pgxpool.Pool, scorer *ScoringService) *PracticeService {
	return &PracticeService{db: db, scorer: scorer, now: time.Now}
}

// SubmitAttempt runs the full attempt flow for the given user and phrase.
// No state is mutated unless the scoring call succeeds.
func (s *PracticeService) SubmitAttempt(ctx context.Context, email, twisterText, transcript string) (*AttemptResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, ErrNoSpeechDetected
	}

	tw, ok := twister.ByText(twisterText)
	if !ok {
		return nil, ErrUnknownTwister
	}

	analysis, err := s.scorer.Score(ctx, tw.Text, transcript)
	if err != nil {
		return nil, err
	}

	result, err := s.applyAttempt(ctx, email, tw, analysis.Score)
	if err != nil {
		return nil, err
	}

	result.Analysis = analysis
	return result, nil
}

// applyAttempt commits the score record and the profile update as a single
// logical transaction. Steps, in order: lock profile, append score, streak
// transition, XP/leveling, achievement evaluation against the full history,
// daily-challenge completion.
func (s *PracticeService) applyAttempt(ctx context.Context, email string, tw twister.Twister, attemptScore int) (*AttemptResult, error) {
	now := s.now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	u := &user.User{}
	var lastPractice *time.Time
	err = tx.QueryRow(ctx, `
		SELECT id, email, name, join_date, streak, last_practice, xp, level, created_at
		FROM users WHERE email = $1
		FOR UPDATE
	`, email).Scan(&u.ID, &u.Email, &u.Name, &u.JoinDate, &u.Streak, &lastPractice, &u.XP, &u.Level, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to lock user row: %w", err)
	}

	rec := &score.Record{
		UserEmail:   email,
		Score:       attemptScore,
		TwisterText: tw.Text,
		Difficulty:  tw.Difficulty,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO scores (user_email, score, twister_text, difficulty, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rec.UserEmail, rec.Score, rec.TwisterText, rec.Difficulty, now).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append score: %w", err)
	}

	last := time.Time{}
	if lastPractice != nil {
		last = *lastPractice
	}
	streakUpd := progress.NextStreak(u.Streak, last, now)
	u.Streak = streakUpd.Streak
	practiced := streakUpd.Practiced
	u.LastPractice = &practiced

	levelUpd := progress.GrantXP(u.XP, u.Level, u.Streak)
	u.XP = levelUpd.XP
	u.Level = levelUpd.Level

	// History stats include the row appended above.
	var attemptCount, bestScore int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0) FROM scores WHERE user_email = $1`, email,
	).Scan(&attemptCount, &bestScore)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate history: %w", err)
	}

	held, err := heldAchievements(ctx, tx, email)
	if err != nil {
		return nil, err
	}

	newCodes := achievement.Evaluate(achievement.Stats{
		Streak:       u.Streak,
		AttemptCount: attemptCount,
		BestScore:    bestScore,
	}, held)

	for _, code := range newCodes {
		_, err = tx.Exec(ctx, `
			INSERT INTO user_achievements (user_email, code, unlocked_at)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, email, code, now)
		if err != nil {
			return nil, fmt.Errorf("failed to unlock achievement %s: %w", code, err)
		}
	}

	challengeCompleted := false
	if tw.Text == twister.Daily(now).Text && attemptScore > dailyChallengeMinScore {
		// The date key is formatted here, not cast from the timestamp in
		// Postgres: the challenge day must flip at the same midnight as
		// twister.Daily regardless of the database session time zone.
		tag, err := tx.Exec(ctx, `
			INSERT INTO daily_challenges (user_email, challenge_date, score, completed_at)
			VALUES ($1, $2::date, $3, $4)
			ON CONFLICT DO NOTHING
		`, email, challengeDate(now), attemptScore, now)
		if err != nil {
			return nil, fmt.Errorf("failed to mark daily challenge: %w", err)
		}
		challengeCompleted = tag.RowsAffected() > 0
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET streak = $1, last_practice = $2, xp = $3, level = $4, updated_at = NOW()
		WHERE email = $5
	`, u.Streak, u.LastPractice, u.XP, u.Level, email)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	u.Achievements = heldPlusNew(held, newCodes)
	u.Favorites, err = txFavorites(ctx, tx, email)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt = now

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit attempt: %w", err)
	}

	result := &AttemptResult{
		Score:                   rec,
		User:                    u,
		XPGained:                levelUpd.XPGained,
		LeveledUp:               levelUpd.LeveledUp,
		NewAchievements:         []achievement.Achievement{},
		DailyChallengeCompleted: challengeCompleted,
	}

	var q celebration.Queue
	// Only the first newly-unlocked achievement (in evaluation order) is
	// surfaced as a celebration; the full list still travels in the result.
	for i, code := range newCodes {
		def, _ := achievement.ByCode(code)
		result.NewAchievements = append(result.NewAchievements, def)
		if i == 0 {
			d := def
			q.Add(celebration.Event{Kind: celebration.KindAchievement, Achievement: &d})
		}
	}
	if challengeCompleted {
		q.Add(celebration.Event{Kind: celebration.KindChallengeComplete, Score: attemptScore})
	}
	if levelUpd.LeveledUp {
		q.Add(celebration.Event{Kind: celebration.KindLevelUp, Level: u.Level})
	}
	if attemptScore > highScoreThreshold {
		q.Add(celebration.Event{Kind: celebration.KindHighScore, Score: attemptScore})
	}
	result.Celebrations = q.Events()

	return result, nil
}

// DailyChallengeCompleted reports whether the user already completed the
// daily challenge for the calendar day of now.
func (s *PracticeService) DailyChallengeCompleted(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM daily_challenges WHERE user_email = $1 AND challenge_date = $2::date)
	`, email, challengeDate(s.now())).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check daily challenge: %w", err)
	}
	return exists, nil
}

// challengeDate renders the calendar day of now in the clock that also
// drives twister.Daily.
func challengeDate(now time.Time) string {
	return now.Format("2006-01-02")
}

func heldAchievements(ctx context.Context, tx pgx.Tx, email string) (map[achievement.Code]bool, error) {
	rows, err := tx.Query(ctx, `SELECT code FROM user_achievements WHERE user_email = $1 ORDER BY unlocked_at`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	held := map[achievement.Code]bool{}
	for rows.Next() {
		var code achievement.Code
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		held[code] = true
	}
	return held, rows.Err()
}

func txFavorites(ctx context.Context, tx pgx.Tx, email string) ([]string, error) {
	rows, err := tx.Query(ctx, `SELECT twister_text FROM user_favorites WHERE user_email = $1 ORDER BY created_at`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	defer rows.Close()

	favs := []string{}
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favs = append(favs, text)
	}
	return favs, rows.Err()
}

func heldPlusNew(held map[achievement.Code]bool, newCodes []achievement.Code) []achievement.Code {
	codes := []achievement.Code{}
	for _, def := range achievement.Catalog {
		if held[def.Code] {
			codes = append(codes, def.Code)
		}
	}
	for _, c := range newCodes {
		codes = append(codes, c)
	}
	return codes
}
