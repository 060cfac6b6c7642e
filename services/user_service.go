package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"tongueTwisterAPI/internal/achievement"
	"tongueTwisterAPI/internal/score"
	"tongueTwisterAPI/internal/stats"
	"tongueTwisterAPI/internal/twister"
	"tongueTwisterAPI/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 15 * time.Minute

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(ctx context.Context, req *user.SignupRequest) (*user.User, error) {
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		Level:        1,
		Achievements: []achievement.Code{},
		Favorites:    []string{},
	}

	query := `
	INSERT INTO users (id, email, name, password_hash, join_date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, NOW(), NOW(), NOW())
	RETURNING join_date, created_at, updated_at
	`

	err = s.db.QueryRow(ctx, query, u.ID, u.Email, u.Name, string(hash)).Scan(
		&u.JoinDate,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// Authenticate verifies the credential for the given email and returns the
// full profile on success.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	var passwordHash string
	err := s.db.QueryRow(ctx, `SELECT password_hash FROM users WHERE email = $1`, email).Scan(&passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.GetUserByEmail(ctx, email)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
	SELECT id, email, name, join_date, streak, last_practice, xp, level, created_at, updated_at
	FROM users
	WHERE email = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.JoinDate,
		&u.Streak,
		&u.LastPractice,
		&u.XP,
		&u.Level,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u.Achievements, err = s.achievementCodes(ctx, email)
	if err != nil {
		return nil, err
	}
	u.Favorites, err = s.favorites(ctx, email)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (s *UserService) achievementCodes(ctx context.Context, email string) ([]achievement.Code, error) {
	rows, err := s.db.Query(ctx, `SELECT code FROM user_achievements WHERE user_email = $1 ORDER BY unlocked_at`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	codes := []achievement.Code{}
	for rows.Next() {
		var code achievement.Code
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (s *UserService) favorites(ctx context.Context, email string) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT twister_text FROM user_favorites WHERE user_email = $1 ORDER BY created_at`, email)
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

// CreatePasswordReset issues a time-bounded reset token for the account. The
// plaintext token is returned to the caller exactly once; only its SHA-256
// digest is stored, and issuing a new token invalidates any previous one.
func (s *UserService) CreatePasswordReset(ctx context.Context, email string) (string, error) {
	token := uuid.New().String()
	digest := hashResetToken(token)
	expiry := time.Now().Add(resetTokenTTL)

	tag, err := s.db.Exec(ctx,
		`UPDATE users SET reset_token_hash = $1, reset_token_expiry = $2, updated_at = NOW() WHERE email = $3`,
		digest, expiry, email,
	)
	if err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", ErrProfileNotFound
	}

	return token, nil
}

// ResetPassword consumes a reset token. Tokens are single-use: the stored
// digest and expiry are cleared in the same statement that sets the new
// password hash.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = NOW()
		WHERE reset_token_hash = $2 AND reset_token_expiry > NOW()
	`, string(hash), hashResetToken(token))
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidResetToken
	}

	return nil
}

// ToggleFavorite flips the favorite state of a catalog phrase for the user
// and reports the new state.
func (s *UserService) ToggleFavorite(ctx context.Context, email, twisterText string) (bool, error) {
	if _, ok := twister.ByText(twisterText); !ok {
		return false, ErrUnknownTwister
	}

	tag, err := s.db.Exec(ctx,
		`DELETE FROM user_favorites WHERE user_email = $1 AND twister_text = $2`,
		email, twisterText,
	)
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO user_favorites (user_email, twister_text) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		email, twisterText,
	)
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return true, nil
}

// GetUserStats summarizes the user's attempt history for the profile screen.
func (s *UserService) GetUserStats(ctx context.Context, email string) (*stats.UserStats, error) {
	out := &stats.UserStats{
		ByDifficulty:  map[string]int{},
		RecentHistory: []score.Record{},
	}

	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(ROUND(AVG(score)), 0)::INT, COALESCE(MAX(score), 0)
		FROM scores WHERE user_email = $1
	`, email).Scan(&out.AttemptCount, &out.AverageScore, &out.BestScore)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT difficulty, COUNT(*) FROM scores WHERE user_email = $1 GROUP BY difficulty`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate difficulty stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var difficulty string
		var count int
		if err := rows.Scan(&difficulty, &count); err != nil {
			return nil, fmt.Errorf("failed to scan difficulty stats: %w", err)
		}
		out.ByDifficulty[difficulty] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read difficulty stats: %w", err)
	}

	histRows, err := s.db.Query(ctx, `
		SELECT id, user_email, score, twister_text, difficulty, created_at
		FROM scores
		WHERE user_email = $1
		ORDER BY created_at DESC
		LIMIT 10
	`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	defer histRows.Close()
	for histRows.Next() {
		var rec score.Record
		if err := histRows.Scan(&rec.ID, &rec.UserEmail, &rec.Score, &rec.TwisterText, &rec.Difficulty, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		out.RecentHistory = append(out.RecentHistory, rec)
	}
	return out, histRows.Err()
}

// GetAchievements returns the full achievement catalog annotated with the
// user's unlock state.
func (s *UserService) GetAchievements(ctx context.Context, email string) ([]*achievement.WithStatus, error) {
	rows, err := s.db.Query(ctx,
		`SELECT code, unlocked_at FROM user_achievements WHERE user_email = $1`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	unlockedAt := map[achievement.Code]time.Time{}
	for rows.Next() {
		var code achievement.Code
		var at time.Time
		if err := rows.Scan(&code, &at); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		unlockedAt[code] = at
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read achievements: %w", err)
	}

	var out []*achievement.WithStatus
	for _, def := range achievement.Catalog {
		ws := &achievement.WithStatus{Achievement: def}
		if at, ok := unlockedAt[def.Code]; ok {
			ws.Unlocked = true
			t := at
			ws.UnlockedAt = &t
		}
		out = append(out, ws)
	}
	return out, nil
}

func hashResetToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
