package twister

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the three known difficulty tags.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Twister struct {
	Text       string     `json:"text"`
	Difficulty Difficulty `json:"difficulty"`
}

// Catalog is the full set of practice phrases, defined at build time.
// Text is the identity key: it must be unique within the catalog.
var Catalog = []Twister{
	// Easy
	{Text: "Red lorry, yellow lorry.", Difficulty: DifficultyEasy},
	{Text: "A proper copper coffee pot.", Difficulty: DifficultyEasy},
	{Text: "She sells seashells by the seashore.", Difficulty: DifficultyEasy},
	{Text: "Fuzzy Wuzzy was a bear, Fuzzy Wuzzy had no hair.", Difficulty: DifficultyEasy},
	{Text: "Unique New York, unique New York.", Difficulty: DifficultyEasy},

	// Medium
	{Text: "Peter Piper picked a peck of pickled peppers.", Difficulty: DifficultyMedium},
	{Text: "I scream, you scream, we all scream for ice cream.", Difficulty: DifficultyMedium},
	{Text: "I saw Susie sitting in a shoeshine shop.", Difficulty: DifficultyMedium},
	{Text: "How can a clam cram in a clean cream can?", Difficulty: DifficultyMedium},
	{Text: "Six sick hicks nick six slick bricks with picks and sticks.", Difficulty: DifficultyMedium},

	// Hard
	{Text: "Betty Botter bought some butter but she said the butter’s bitter.", Difficulty: DifficultyHard},
	{Text: "How much wood would a woodchuck chuck if a woodchuck could chuck wood?", Difficulty: DifficultyHard},
	{Text: "The sixth sick sheik's sixth sheep's sick.", Difficulty: DifficultyHard},
	{Text: "Pad kid poured curd pulled cod.", Difficulty: DifficultyHard},
	{Text: "Any noise annoys an oyster but a noisy noise annoys an oyster more.", Difficulty: DifficultyHard},
}

// ByText looks a twister up by its exact phrase text.
func ByText(text string) (Twister, bool) {
	for _, t := range Catalog {
		if t.Text == text {
			return t, true
		}
	}
	return Twister{}, false
}

// ByDifficulty returns the catalog entries matching the given difficulty,
// in catalog order.
func ByDifficulty(d Difficulty) []Twister {
	var out []Twister
	for _, t := range Catalog {
		if t.Difficulty == d {
			out = append(out, t)
		}
	}
	return out
}

// Daily returns the twister featured on the calendar day of now.
// The selection is the day of year modulo the catalog length, so every user
// sees the same phrase on a given day and the phrase changes at local
// midnight.
func Daily(now time.Time) Twister {
	return Catalog[now.YearDay()%len(Catalog)]
}
