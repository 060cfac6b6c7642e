// Package progress holds the pure gamification rules applied after every
// scored practice attempt: streak transitions, XP gain and leveling. The
// functions are deterministic over their inputs so the practice service can
// run them inside a database transaction and unit tests can exercise the
// calendar edge cases without a clock or a store.
package progress

import "time"

const (
	// BaseXPPerAttempt is awarded for every completed attempt; the current
	// streak is added on top.
	BaseXPPerAttempt = 10

	// XPPerLevelStep is multiplied by the current level to get the XP
	// threshold consumed by a level-up.
	XPPerLevelStep = 100
)

// StreakUpdate is the outcome of applying one attempt to a streak counter.
type StreakUpdate struct {
	Streak int
	// Practiced is the new last-practice timestamp. It only moves when the
	// attempt is the first one of its calendar day.
	Practiced time.Time
	// Changed reports whether the streak fields moved at all. A repeat
	// attempt on the same calendar day leaves them untouched.
	Changed bool
}

// NextStreak applies the streak rules for an attempt happening at now.
// lastPractice is the zero time for a user who has never practiced.
//
// Same calendar day: unchanged. Previous day exactly yesterday: +1.
// Any larger gap, or a first-ever attempt: reset to 1.
func NextStreak(current int, lastPractice, now time.Time) StreakUpdate {
	if !lastPractice.IsZero() && sameDay(lastPractice, now) {
		return StreakUpdate{Streak: current, Practiced: lastPractice, Changed: false}
	}

	streak := 1
	if !lastPractice.IsZero() && sameDay(lastPractice.AddDate(0, 0, 1), now) {
		streak = current + 1
	}

	return StreakUpdate{Streak: streak, Practiced: now, Changed: true}
}

// LevelUpdate is the outcome of granting XP for one attempt.
type LevelUpdate struct {
	XPGained  int
	XP        int
	Level     int
	LevelsUp  int
	LeveledUp bool
}

// GrantXP awards the attempt XP (base + post-update streak) and normalizes
// the level. Leveling is a loop, not a single check: the threshold is
// level*100 and an arbitrarily large gain must be consumed level by level so
// that xp < level*100 always holds afterwards.
func GrantXP(xp, level, streak int) LevelUpdate {
	gained := BaseXPPerAttempt + streak
	xp += gained

	levelsUp := 0
	for xp >= level*XPPerLevelStep {
		xp -= level * XPPerLevelStep
		level++
		levelsUp++
	}

	return LevelUpdate{
		XPGained:  gained,
		XP:        xp,
		Level:     level,
		LevelsUp:  levelsUp,
		LeveledUp: levelsUp > 0,
	}
}

// sameDay reports whether a and b fall on the same calendar day, evaluated
// in now's (i.e. b's) location.
func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
