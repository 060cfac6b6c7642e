// Package celebration defines the celebratory side effects the progress
// engine can trigger after a scored attempt and the fixed order in which
// clients should present them when several fire at once.
package celebration

import "tongueTwisterAPI/internal/achievement"

type Kind string

const (
	KindAchievement       Kind = "achievement_unlocked"
	KindChallengeComplete Kind = "daily_challenge_complete"
	KindLevelUp           Kind = "level_up"
	KindHighScore         Kind = "high_score"
)

// precedence fixes the presentation order when multiple celebrations fire on
// the same attempt. Lower comes first.
var precedence = map[Kind]int{
	KindAchievement:       0,
	KindChallengeComplete: 1,
	KindLevelUp:           2,
	KindHighScore:         3,
}

type Event struct {
	Kind Kind `json:"kind"`
	// Achievement is set only for KindAchievement events.
	Achievement *achievement.Achievement `json:"achievement,omitempty"`
	// Level is the level reached, set only for KindLevelUp events.
	Level int `json:"level,omitempty"`
	// Score is set for KindHighScore and KindChallengeComplete events.
	Score int `json:"score,omitempty"`
}

// Queue collects celebration events for one attempt. The zero value is ready
// to use.
type Queue struct {
	events []Event
}

func (q *Queue) Add(e Event) {
	q.events = append(q.events, e)
}

// Events returns the queued events sorted by the fixed precedence:
// achievement, challenge complete, level up, high score. Events of the same
// kind keep their insertion order. The sort is an insertion sort over a
// handful of entries, kept stable on purpose.
func (q *Queue) Events() []Event {
	out := make([]Event, len(q.events))
	copy(out, q.events)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && precedence[out[j].Kind] < precedence[out[j-1].Kind]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
