package models

import "time"

// WeeklyProgressBuckets is the number of day-of-week buckets in a
// student's weekly progress (Sunday through Saturday).
const WeeklyProgressBuckets = 7

// DefaultSkills are the skill categories every stats payload reports,
// even when a student has no recorded time in them.
var DefaultSkills = []string{"math", "logic", "memory", "problemSolving", "speed", "accuracy"}

// GameStats is the cached, incrementally-updated summary of a student's
// play sessions, stored on the student row for fast dashboard reads.
type GameStats struct {
	GamesPlayed          int64            `json:"gamesPlayed"`
	TotalPlayTime        int64            `json:"totalPlayTime"`
	Achievements         []string         `json:"achievements"`
	SkillsDistribution   map[string]int64 `json:"skillsDistribution"`
	GameTimeDistribution map[string]int64 `json:"gameTimeDistribution"`
	WeeklyProgress       []int64          `json:"weeklyProgress"`
	LastPlayed           *time.Time       `json:"lastPlayed,omitempty"`
}

// NewGameStats returns a zero-valued stats structure with all default
// skill categories present
func NewGameStats() GameStats {
	skills := make(map[string]int64, len(DefaultSkills))
	for _, skill := range DefaultSkills {
		skills[skill] = 0
	}
	return GameStats{
		Achievements:         []string{},
		SkillsDistribution:   skills,
		GameTimeDistribution: map[string]int64{},
		WeeklyProgress:       make([]int64, WeeklyProgressBuckets),
	}
}

// MergeDefaults fills any missing fields so callers never see nils and
// the default skill categories always read as zero
func (g *GameStats) MergeDefaults() {
	if g.Achievements == nil {
		g.Achievements = []string{}
	}
	if g.SkillsDistribution == nil {
		g.SkillsDistribution = make(map[string]int64, len(DefaultSkills))
	}
	for _, skill := range DefaultSkills {
		if _, ok := g.SkillsDistribution[skill]; !ok {
			g.SkillsDistribution[skill] = 0
		}
	}
	if g.GameTimeDistribution == nil {
		g.GameTimeDistribution = map[string]int64{}
	}
	if len(g.WeeklyProgress) < WeeklyProgressBuckets {
		padded := make([]int64, WeeklyProgressBuckets)
		copy(padded, g.WeeklyProgress)
		g.WeeklyProgress = padded
	}
}

// Student is a child profile owned by a parent or institution account
type Student struct {
	ID           int64      `json:"id"`
	ParentID     int64      `json:"-"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Age          int        `json:"age"`
	Grade        string     `json:"grade"`
	GameStats    GameStats  `json:"gameStats"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLogin,omitempty"`
}

// StudentWithStats pairs a student with their default-merged stats for
// dashboard responses
type StudentWithStats struct {
	Student
	Stats GameStats `json:"stats"`
}

// OverallStats is the roll-up across all of a parent's students.
// Play time and achievement counts are sums; skills and weekly progress
// are per-student averages.
type OverallStats struct {
	TotalStudents        int                `json:"totalStudents"`
	TotalPlayTime        int64              `json:"totalPlayTime"`
	Achievements         int                `json:"achievements"`
	SkillsDistribution   map[string]float64 `json:"skillsDistribution"`
	GameTimeDistribution map[string]int64   `json:"gameTimeDistribution"`
	WeeklyProgress       []float64          `json:"weeklyProgress"`
}
