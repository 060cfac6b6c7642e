package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"tongueTwisterAPI/internal/achievement"
	"tongueTwisterAPI/internal/celebration"
	"tongueTwisterAPI/internal/llm"
	"tongueTwisterAPI/internal/twister"
	"tongueTwisterAPI/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests need a real Postgres with migrations applied. They skip when
// DATABASE_URL is not set so the pure unit tests still run everywhere.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	_ = godotenv.Load("../.env")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping database integration test")
	}

	db, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func testEmail() string {
	return fmt.Sprintf("it-%s@example.com", uuid.NewString())
}

func createTestUser(t *testing.T, svc *UserService) *user.User {
	t.Helper()

	u, err := svc.CreateUser(context.Background(), &user.SignupRequest{
		Email:    testEmail(),
		Name:     "Integration Tester",
		Password: "hunter22",
	})
	require.NoError(t, err)
	return u
}

func TestUserLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	u := createTestUser(t, svc)
	assert.Equal(t, 1, u.Level)
	assert.Equal(t, 0, u.XP)
	assert.Equal(t, 0, u.Streak)
	assert.Empty(t, u.Achievements)

	// Duplicate signup.
	_, err := svc.CreateUser(ctx, &user.SignupRequest{Email: u.Email, Name: "Again", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Login.
	got, err := svc.Authenticate(ctx, u.Email, "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, u.Email, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	u := createTestUser(t, svc)

	token, err := svc.CreatePasswordReset(ctx, u.Email)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "new-password"))

	// Old password gone, new one works.
	_, err = svc.Authenticate(ctx, u.Email, "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, u.Email, "new-password")
	assert.NoError(t, err)

	// Tokens are single use.
	err = svc.ResetPassword(ctx, token, "another-password")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	u := createTestUser(t, svc)
	text := twister.Catalog[0].Text

	favorited, err := svc.ToggleFavorite(ctx, u.Email, text)
	require.NoError(t, err)
	assert.True(t, favorited)

	favorited, err = svc.ToggleFavorite(ctx, u.Email, text)
	require.NoError(t, err)
	assert.False(t, favorited)

	_, err = svc.ToggleFavorite(ctx, u.Email, "not a real twister")
	assert.ErrorIs(t, err, ErrUnknownTwister)
}

// scriptedLLM returns a fixed score without calling any external model.
type scriptedLLM struct {
	score int
}

func (s *scriptedLLM) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	return fmt.Sprintf(`{"score": %d, "feedback": "", "comment": "ok"}`, s.score), nil
}

func newScriptedScoringService(score int) *ScoringService {
	return NewScoringService(&scriptedLLM{score: score}, time.Second)
}

func TestSubmitAttemptProgression(t *testing.T) {
	db := setupTestDB(t)
	userSvc := NewUserService(db)
	ctx := context.Background()

	u := createTestUser(t, userSvc)

	practice := NewPracticeService(db, newScriptedScoringService(95))
	day := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	practice.now = func() time.Time { return day }

	daily := twister.Daily(day)

	result, err := practice.SubmitAttempt(ctx, u.Email, daily.Text, "an attempt")
	require.NoError(t, err)

	assert.Equal(t, 95, result.Analysis.Score)
	assert.Equal(t, 1, result.User.Streak)
	assert.Equal(t, 11, result.XPGained)
	assert.True(t, result.DailyChallengeCompleted)

	// Novice trainer plus crystal clear unlock on a 95-score first attempt.
	var codes []achievement.Code
	for _, a := range result.NewAchievements {
		codes = append(codes, a.Code)
	}
	assert.Equal(t, []achievement.Code{achievement.CodeNoviceTrainer, achievement.CodeCrystalClear90}, codes)

	// Celebrations come back in the fixed presentation order.
	require.NotEmpty(t, result.Celebrations)
	assert.Equal(t, celebration.KindAchievement, result.Celebrations[0].Kind)
	last := result.Celebrations[len(result.Celebrations)-1]
	assert.Equal(t, celebration.KindHighScore, last.Kind)

	// Same-day repeat: streak unchanged, daily challenge not re-granted.
	result2, err := practice.SubmitAttempt(ctx, u.Email, daily.Text, "an attempt")
	require.NoError(t, err)
	assert.Equal(t, 1, result2.User.Streak)
	assert.False(t, result2.DailyChallengeCompleted)

	done, err := practice.DailyChallengeCompleted(ctx, u.Email)
	require.NoError(t, err)
	assert.True(t, done)

	// Next day: streak increments.
	practice.now = func() time.Time { return day.AddDate(0, 0, 1) }
	result3, err := practice.SubmitAttempt(ctx, u.Email, twister.Catalog[0].Text, "an attempt")
	require.NoError(t, err)
	assert.Equal(t, 2, result3.User.Streak)
	assert.Equal(t, 12, result3.XPGained)
}

func TestUserStatsAggregates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	u := createTestUser(t, svc)

	hard := twister.ByDifficulty(twister.DifficultyHard)[0]
	easy := twister.ByDifficulty(twister.DifficultyEasy)[0]
	for _, attempt := range []struct {
		tw    twister.Twister
		score int
	}{
		{hard, 80},
		{hard, 90},
		{easy, 100},
	} {
		_, err := db.Exec(ctx, `
			INSERT INTO scores (user_email, score, twister_text, difficulty)
			VALUES ($1, $2, $3, $4)
		`, u.Email, attempt.score, attempt.tw.Text, attempt.tw.Difficulty)
		require.NoError(t, err)
	}

	got, err := svc.GetUserStats(ctx, u.Email)
	require.NoError(t, err)

	assert.Equal(t, 3, got.AttemptCount)
	assert.Equal(t, 90, got.AverageScore)
	assert.Equal(t, 100, got.BestScore)
	assert.Equal(t, 2, got.ByDifficulty["Hard"])
	assert.Equal(t, 1, got.ByDifficulty["Easy"])
	assert.Len(t, got.RecentHistory, 3)
}

func TestLeaderboardAggregationAndFilter(t *testing.T) {
	db := setupTestDB(t)
	userSvc := NewUserService(db)
	boardSvc := NewLeaderboardService(db)
	ctx := context.Background()

	// The leaderboard reduces the whole scores table, so this test starts
	// from an empty one.
	_, err := db.Exec(ctx, `TRUNCATE scores`)
	require.NoError(t, err)

	strong := createTestUser(t, userSvc)
	weak := createTestUser(t, userSvc)

	easy := twister.ByDifficulty(twister.DifficultyEasy)[0]
	hard := twister.ByDifficulty(twister.DifficultyHard)[0]

	insert := func(email string, tw twister.Twister, score int) {
		_, err := db.Exec(ctx, `
			INSERT INTO scores (user_email, score, twister_text, difficulty)
			VALUES ($1, $2, $3, $4)
		`, email, score, tw.Text, tw.Difficulty)
		require.NoError(t, err)
	}
	insert(strong.Email, easy, 80)
	insert(strong.Email, easy, 90)
	insert(strong.Email, easy, 100)
	insert(weak.Email, hard, 40)

	board, err := boardSvc.GetLeaderboard(ctx, weak.Email, nil)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)

	// Scores 80, 90, 100 average to exactly 90.
	assert.Equal(t, strong.Email, board.Entries[0].UserID)
	assert.Equal(t, 90, board.Entries[0].AverageScore)
	assert.Equal(t, 3, board.Entries[0].AttemptCount)
	assert.Equal(t, "Integration Tester", board.Entries[0].DisplayName)
	assert.Equal(t, 1, board.Entries[0].Rank)

	assert.Equal(t, weak.Email, board.Entries[1].UserID)
	assert.Equal(t, 2, board.Entries[1].Rank)
	require.NotNil(t, board.UserPosition)
	assert.Equal(t, weak.Email, board.UserPosition.UserID)

	// The difficulty filter drops every record of other difficulties.
	hardFilter := twister.DifficultyHard
	board, err = boardSvc.GetLeaderboard(ctx, weak.Email, &hardFilter)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, weak.Email, board.Entries[0].UserID)
	assert.Equal(t, 40, board.Entries[0].AverageScore)

	// No Medium records exist: an empty list, not nil, and no position.
	mediumFilter := twister.DifficultyMedium
	board, err = boardSvc.GetLeaderboard(ctx, weak.Email, &mediumFilter)
	require.NoError(t, err)
	require.NotNil(t, board.Entries)
	assert.Empty(t, board.Entries)
	assert.Nil(t, board.UserPosition)
	assert.Equal(t, 0, board.TotalUsers)
}

func TestDailyChallengeFollowsServerCalendar(t *testing.T) {
	db := setupTestDB(t)
	userSvc := NewUserService(db)
	ctx := context.Background()

	u := createTestUser(t, userSvc)

	practice := NewPracticeService(db, newScriptedScoringService(95))

	// A clock far ahead of UTC: two consecutive local calendar days that
	// share one UTC date. The challenge key must follow the clock that
	// drives the daily twister, not the database session time zone.
	zone := time.FixedZone("UTC+13", 13*60*60)
	day1 := time.Date(2026, 6, 1, 14, 0, 0, 0, zone)
	day2 := time.Date(2026, 6, 2, 12, 0, 0, 0, zone)

	practice.now = func() time.Time { return day1 }
	res, err := practice.SubmitAttempt(ctx, u.Email, twister.Daily(day1).Text, "an attempt")
	require.NoError(t, err)
	assert.True(t, res.DailyChallengeCompleted)

	practice.now = func() time.Time { return day2 }
	res, err = practice.SubmitAttempt(ctx, u.Email, twister.Daily(day2).Text, "an attempt")
	require.NoError(t, err)
	assert.True(t, res.DailyChallengeCompleted)

	done, err := practice.DailyChallengeCompleted(ctx, u.Email)
	require.NoError(t, err)
	assert.True(t, done)
}
