package achievement

import "time"

type Code string

const (
	CodeNoviceTrainer         Code = "NOVICE_TRAINER"
	CodeCrystalClear90        Code = "CRYSTAL_CLEAR_90"
	CodeStreakMaster3         Code = "STREAK_MASTER_3"
	CodeDedicatedPractitioner Code = "DEDICATED_PRACTITIONER"
)

type Achievement struct {
	Code        Code   `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type WithStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Catalog lists every achievement in evaluation order. The order matters:
// when several unlock on the same attempt, the first one in this list is the
// one surfaced in the celebratory notification.
var Catalog = []Achievement{
	{
		Code:        CodeNoviceTrainer,
		Name:        "Novice Trainer",
		Description: "Complete your first practice session.",
		Icon:        "🔰",
	},
	{
		Code:        CodeCrystalClear90,
		Name:        "Crystal Clear",
		Description: "Achieve a clarity score of 90% or higher.",
		Icon:        "🥇",
	},
	{
		Code:        CodeStreakMaster3,
		Name:        "Streak Master",
		Description: "Maintain a practice streak of 3 days.",
		Icon:        "🔥",
	},
	{
		Code:        CodeDedicatedPractitioner,
		Name:        "Dedicated Practitioner",
		Description: "Complete 10 practice sessions.",
		Icon:        "📚",
	},
}

// ByCode looks an achievement definition up by its stable code.
func ByCode(code Code) (Achievement, bool) {
	for _, a := range Catalog {
		if a.Code == code {
			return a, true
		}
	}
	return Achievement{}, false
}

// Stats is the slice of a user's updated profile and score history that the
// unlock rules evaluate against. AttemptCount and BestScore must already
// include the attempt being processed.
type Stats struct {
	Streak       int
	AttemptCount int
	BestScore    int
}

// Evaluate returns the codes newly earned given the post-update stats,
// excluding anything in held. The result preserves Catalog order and never
// re-reports an achievement the user already holds.
func Evaluate(stats Stats, held map[Code]bool) []Code {
	var unlocked []Code
	for _, a := range Catalog {
		if held[a.Code] || !qualifies(a.Code, stats) {
			continue
		}
		unlocked = append(unlocked, a.Code)
	}
	return unlocked
}

func qualifies(code Code, stats Stats) bool {
	switch code {
	case CodeNoviceTrainer:
		return stats.AttemptCount >= 1
	case CodeCrystalClear90:
		return stats.BestScore >= 90
	case CodeStreakMaster3:
		return stats.Streak >= 3
	case CodeDedicatedPractitioner:
		return stats.AttemptCount >= 10
	}
	return false
}
