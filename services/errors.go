package services

import "errors"

// Error taxonomy shared by the service layer. Handlers map these to HTTP
// statuses with errors.Is; everything else is treated as an internal error.
var (
	// ErrNoSpeechDetected means the submitted transcript was empty after
	// trimming. No scoring call is made and nothing is written.
	ErrNoSpeechDetected = errors.New("no speech detected")

	// ErrUnknownTwister means the submitted phrase is not in the catalog.
	ErrUnknownTwister = errors.New("unknown tongue twister")

	// ErrScoringUnavailable means the external scoring call failed or timed
	// out. The attempt is not persisted; the user may simply retry.
	ErrScoringUnavailable = errors.New("scoring service unavailable")

	// ErrMalformedScoringResponse means the scoring call returned something
	// that failed schema or range validation. User-visible behavior matches
	// ErrScoringUnavailable, but it is logged separately.
	ErrMalformedScoringResponse = errors.New("malformed scoring response")

	// ErrProfileNotFound means the profile being read or updated does not
	// exist. During an attempt this rolls back the whole transaction so no
	// orphaned score row is left behind.
	ErrProfileNotFound = errors.New("user not found")

	// ErrDuplicateEmail means signup hit an existing account.
	ErrDuplicateEmail = errors.New("an account with this email already exists")

	// ErrInvalidCredentials means login password comparison failed.
	ErrInvalidCredentials = errors.New("incorrect password")

	// ErrInvalidResetToken means the reset token is unknown, expired or
	// already used.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)
