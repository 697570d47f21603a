package models

import "time"

// GameSession is one recorded instance of a student playing a game.
// Immutable after creation; the student's cached GameStats are folded
// forward from these records.
type GameSession struct {
	ID           int64     `json:"id"`
	StudentID    int64     `json:"studentId"`
	GameID       string    `json:"gameId"`
	GameTitle    string    `json:"gameTitle"`
	GameType     string    `json:"gameType"`
	StartedAt    time.Time `json:"startTime"`
	EndedAt      time.Time `json:"endTime"`
	PlayTime     int64     `json:"playTime"`
	Score        int64     `json:"score"`
	SkillsGained []string  `json:"skillsGained"`
	CreatedAt    time.Time `json:"createdAt"`
}
