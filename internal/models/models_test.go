package models

import (
	"testing"
	"time"
)

func TestNewGameStats(t *testing.T) {
	stats := NewGameStats()

	if stats.GamesPlayed != 0 || stats.TotalPlayTime != 0 {
		t.Errorf("new stats counters = %d/%d, want 0/0", stats.GamesPlayed, stats.TotalPlayTime)
	}
	if len(stats.WeeklyProgress) != WeeklyProgressBuckets {
		t.Errorf("weeklyProgress buckets = %d, want %d", len(stats.WeeklyProgress), WeeklyProgressBuckets)
	}
	for _, skill := range DefaultSkills {
		if v, ok := stats.SkillsDistribution[skill]; !ok || v != 0 {
			t.Errorf("skill %q = %d, %v; want present and 0", skill, v, ok)
		}
	}
	if stats.Achievements == nil || stats.GameTimeDistribution == nil {
		t.Error("new stats has nil collections")
	}
}

func TestMergeDefaults(t *testing.T) {
	tests := []struct {
		name  string
		stats GameStats
	}{
		{"zero value", GameStats{}},
		{"partial skills", GameStats{SkillsDistribution: map[string]int64{"math": 5}}},
		{"short weekly progress", GameStats{WeeklyProgress: []int64{1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.stats.MergeDefaults()

			if tt.stats.Achievements == nil {
				t.Error("Achievements still nil")
			}
			if tt.stats.GameTimeDistribution == nil {
				t.Error("GameTimeDistribution still nil")
			}
			if len(tt.stats.WeeklyProgress) != WeeklyProgressBuckets {
				t.Errorf("weeklyProgress buckets = %d, want %d", len(tt.stats.WeeklyProgress), WeeklyProgressBuckets)
			}
			for _, skill := range DefaultSkills {
				if _, ok := tt.stats.SkillsDistribution[skill]; !ok {
					t.Errorf("missing default skill %q", skill)
				}
			}
		})
	}
}

func TestMergeDefaultsKeepsValues(t *testing.T) {
	stats := GameStats{
		SkillsDistribution: map[string]int64{"math": 42},
		WeeklyProgress:     []int64{10, 20},
	}
	stats.MergeDefaults()

	if stats.SkillsDistribution["math"] != 42 {
		t.Errorf("math = %d, want 42", stats.SkillsDistribution["math"])
	}
	if stats.WeeklyProgress[0] != 10 || stats.WeeklyProgress[1] != 20 {
		t.Errorf("weeklyProgress = %v, existing values lost", stats.WeeklyProgress)
	}
}

func TestValidAccountType(t *testing.T) {
	tests := []struct {
		accountType string
		valid       bool
	}{
		{AccountTypeParent, true},
		{AccountTypeInstitution, true},
		{AccountTypeStudent, true},
		{"admin", false},
		{"", false},
		{"Parent", false},
	}

	for _, tt := range tests {
		t.Run(tt.accountType, func(t *testing.T) {
			if got := ValidAccountType(tt.accountType); got != tt.valid {
				t.Errorf("ValidAccountType(%q) = %v, want %v", tt.accountType, got, tt.valid)
			}
		})
	}
}

func TestAuthSessionIsExpired(t *testing.T) {
	active := AuthSession{ExpiresAt: time.Now().Add(time.Hour)}
	if active.IsExpired() {
		t.Error("future session reported expired")
	}

	expired := AuthSession{ExpiresAt: time.Now().Add(-time.Hour)}
	if !expired.IsExpired() {
		t.Error("past session reported active")
	}
}
