// Package catalog holds the static seed list of games. Game documents are
// materialized into the database from this list on first access.
package catalog

// Entry describes one game in the static catalog
type Entry struct {
	ID           int64
	Grade        string
	Title        string
	Description  string
	ThumbnailURL string
	PlayURL      string
}

var games = []Entry{
	{
		ID:           1,
		Grade:        "K",
		Title:        "Counting Critters",
		Description:  "Count the animals before they scurry away. Numbers 1 to 20.",
		ThumbnailURL: "/images/games/counting-critters.png",
		PlayURL:      "https://games.efggames.com/counting-critters/",
	},
	{
		ID:           2,
		Grade:        "K",
		Title:        "Letter Lagoon",
		Description:  "Fish for letters and match them to sounds.",
		ThumbnailURL: "/images/games/letter-lagoon.png",
		PlayURL:      "https://games.efggames.com/letter-lagoon/",
	},
	{
		ID:           3,
		Grade:        "K",
		Title:        "Shape Safari",
		Description:  "Spot circles, squares and triangles hiding in the jungle.",
		ThumbnailURL: "/images/games/shape-safari.png",
		PlayURL:      "https://games.efggames.com/shape-safari/",
	},
	{
		ID:           1,
		Grade:        "1st",
		Title:        "Addition Adventure",
		Description:  "Climb the mountain by solving addition problems up to 20.",
		ThumbnailURL: "/images/games/addition-adventure.png",
		PlayURL:      "https://games.efggames.com/addition-adventure/",
	},
	{
		ID:           2,
		Grade:        "1st",
		Title:        "Sight Word Sprint",
		Description:  "Race against the clock reading common sight words.",
		ThumbnailURL: "/images/games/sight-word-sprint.png",
		PlayURL:      "https://games.efggames.com/sight-word-sprint/",
	},
	{
		ID:           3,
		Grade:        "1st",
		Title:        "Memory Meadow",
		Description:  "Flip the flowers and find the matching pairs.",
		ThumbnailURL: "/images/games/memory-meadow.png",
		PlayURL:      "https://games.efggames.com/memory-meadow/",
	},
	{
		ID:           1,
		Grade:        "2nd",
		Title:        "Multiplication Mine",
		Description:  "Dig for gems by cracking times tables up to 5.",
		ThumbnailURL: "/images/games/multiplication-mine.png",
		PlayURL:      "https://games.efggames.com/multiplication-mine/",
	},
	{
		ID:           2,
		Grade:        "2nd",
		Title:        "Logic Lighthouse",
		Description:  "Light the way home by solving pattern puzzles.",
		ThumbnailURL: "/images/games/logic-lighthouse.png",
		PlayURL:      "https://games.efggames.com/logic-lighthouse/",
	},
	{
		ID:           3,
		Grade:        "2nd",
		Title:        "Spelling Submarine",
		Description:  "Dive deep and spell the words before the oxygen runs out.",
		ThumbnailURL: "/images/games/spelling-submarine.png",
		PlayURL:      "https://games.efggames.com/spelling-submarine/",
	},
}

// All returns every catalog entry
func All() []Entry {
	out := make([]Entry, len(games))
	copy(out, games)
	return out
}

// ByGrade returns the catalog entries for a grade
func ByGrade(grade string) []Entry {
	var out []Entry
	for _, g := range games {
		if g.Grade == grade {
			out = append(out, g)
		}
	}
	return out
}

// Find looks up a catalog entry by its (grade, id) identity
func Find(grade string, id int64) (Entry, bool) {
	for _, g := range games {
		if g.Grade == grade && g.ID == id {
			return g, true
		}
	}
	return Entry{}, false
}
