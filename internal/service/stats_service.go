package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"efggames/internal/database"
	"efggames/internal/models"
	"efggames/internal/repository"
	"efggames/internal/security"
	"efggames/internal/validation"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrStudentEmailTaken  = errors.New("student email already taken")
	ErrNotStudentGuardian = errors.New("student belongs to another account")
	ErrInvalidGameSession = errors.New("invalid game session")
)

// StatsService manages student profiles, records play sessions and
// serves the parent dashboard. Each student row carries cached
// aggregates folded forward from the immutable session log, so
// dashboard reads never scan sessions.
type StatsService struct {
	db          *database.DB
	studentRepo *repository.StudentRepository
	sessionRepo *repository.SessionRepository
}

// NewStatsService creates a new stats service
func NewStatsService(db *database.DB, studentRepo *repository.StudentRepository, sessionRepo *repository.SessionRepository) *StatsService {
	return &StatsService{
		db:          db,
		studentRepo: studentRepo,
		sessionRepo: sessionRepo,
	}
}

// CreateStudent adds a student profile under a parent or institution
// account
func (s *StatsService) CreateStudent(parentID int64, name, email, password string, age int, grade string) (*models.Student, error) {
	if err := validation.Var("name", name, "required,max=100"); err != nil {
		return nil, err
	}
	if err := validation.Var("email", email, "required,email"); err != nil {
		return nil, err
	}
	if err := validation.Var("password", password, "required,min=6,max=72"); err != nil {
		return nil, err
	}

	existing, err := s.studentRepo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check student email: %w", err)
	}
	if existing != nil {
		return nil, ErrStudentEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.studentRepo.Create(parentID, name, email, passwordHash, age, grade)
}

// ListStudents returns a parent's students with default-merged stats
func (s *StatsService) ListStudents(parentID int64) ([]models.StudentWithStats, error) {
	students, err := s.studentRepo.ListByParent(parentID)
	if err != nil {
		return nil, err
	}
	return withStats(students), nil
}

// ListAllStudents returns every student's profile and stats, for the
// admin view
func (s *StatsService) ListAllStudents() ([]models.StudentWithStats, error) {
	students, err := s.studentRepo.ListAll()
	if err != nil {
		return nil, err
	}
	return withStats(students), nil
}

// SessionRecord is the client-reported outcome of one play session
type SessionRecord struct {
	StudentID    int64
	GameID       string
	GameTitle    string
	GameType     string
	StartedAt    time.Time
	EndedAt      time.Time
	Score        int64
	SkillsGained []string
}

// RecordSession appends a play session and folds it into the student's
// cached aggregates in one transaction. Play time is the session span
// rounded to whole minutes; the weekly progress bucket is chosen by the
// start time's day of week.
func (s *StatsService) RecordSession(parentID int64, rec SessionRecord) (*models.GameSession, *models.GameStats, error) {
	if rec.GameID == "" || rec.GameTitle == "" {
		return nil, nil, ErrInvalidGameSession
	}
	if rec.StartedAt.IsZero() || rec.EndedAt.IsZero() || rec.EndedAt.Before(rec.StartedAt) {
		return nil, nil, ErrInvalidGameSession
	}
	if rec.Score < 0 {
		return nil, nil, ErrInvalidGameSession
	}

	student, err := s.studentRepo.GetByID(rec.StudentID)
	if err != nil {
		return nil, nil, err
	}
	if student == nil {
		return nil, nil, ErrStudentNotFound
	}
	if parentID != 0 && student.ParentID != parentID {
		return nil, nil, ErrNotStudentGuardian
	}

	playTime := int64(math.Round(rec.EndedAt.Sub(rec.StartedAt).Minutes()))

	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin session transaction: %w", err)
	}
	defer tx.Rollback()

	session, err := s.sessionRepo.Insert(tx, &models.GameSession{
		StudentID:    rec.StudentID,
		GameID:       rec.GameID,
		GameTitle:    rec.GameTitle,
		GameType:     rec.GameType,
		StartedAt:    rec.StartedAt,
		EndedAt:      rec.EndedAt,
		PlayTime:     playTime,
		Score:        rec.Score,
		SkillsGained: rec.SkillsGained,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.studentRepo.IncrementPlayCounters(tx, rec.StudentID, playTime, rec.StartedAt); err != nil {
		return nil, nil, err
	}

	stats, err := s.studentRepo.GetStats(tx, rec.StudentID)
	if err != nil {
		return nil, nil, err
	}
	stats.MergeDefaults()

	// Play time folds into the skill category of the game's type and the
	// per-title breakdown. Skills gained are kept on the session record.
	if rec.GameType != "" {
		stats.SkillsDistribution[rec.GameType] += playTime
	}
	stats.GameTimeDistribution[rec.GameTitle] += playTime
	stats.WeeklyProgress[int(rec.StartedAt.Weekday())] += rec.Score

	if err := s.studentRepo.WriteDistributions(tx, rec.StudentID, stats); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit session transaction: %w", err)
	}

	return session, stats, nil
}

// StudentStats returns one student's profile and stats, verifying the
// caller owns the student
func (s *StatsService) StudentStats(parentID, studentID int64) (*models.StudentWithStats, error) {
	student, err := s.studentRepo.GetByID(studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	if student.ParentID != parentID {
		return nil, ErrNotStudentGuardian
	}

	student.GameStats.MergeDefaults()
	return &models.StudentWithStats{Student: *student, Stats: student.GameStats}, nil
}

// DashboardStats is the parent dashboard payload: every student plus
// the overall roll-up
type DashboardStats struct {
	Students []models.StudentWithStats `json:"students"`
	Overall  models.OverallStats       `json:"overallStats"`
}

// Dashboard aggregates all of a parent's students. Play time,
// achievement counts and per-game time are summed; skills and weekly
// progress are averaged per student.
func (s *StatsService) Dashboard(parentID int64) (*DashboardStats, error) {
	students, err := s.studentRepo.ListByParent(parentID)
	if err != nil {
		return nil, err
	}

	enriched := withStats(students)
	overall := models.OverallStats{
		TotalStudents:        len(enriched),
		SkillsDistribution:   map[string]float64{},
		GameTimeDistribution: map[string]int64{},
		WeeklyProgress:       make([]float64, models.WeeklyProgressBuckets),
	}
	for _, skill := range models.DefaultSkills {
		overall.SkillsDistribution[skill] = 0
	}

	for _, student := range enriched {
		stats := student.Stats
		overall.TotalPlayTime += stats.TotalPlayTime
		overall.Achievements += len(stats.Achievements)
		for skill, minutes := range stats.SkillsDistribution {
			overall.SkillsDistribution[skill] += float64(minutes)
		}
		for game, minutes := range stats.GameTimeDistribution {
			overall.GameTimeDistribution[game] += minutes
		}
		for i, score := range stats.WeeklyProgress {
			if i < len(overall.WeeklyProgress) {
				overall.WeeklyProgress[i] += float64(score)
			}
		}
	}

	if n := float64(len(enriched)); n > 0 {
		for skill := range overall.SkillsDistribution {
			overall.SkillsDistribution[skill] /= n
		}
		for i := range overall.WeeklyProgress {
			overall.WeeklyProgress[i] /= n
		}
	}

	return &DashboardStats{Students: enriched, Overall: overall}, nil
}

// RecentSessions returns a student's latest sessions for the detail view
func (s *StatsService) RecentSessions(parentID, studentID int64, limit int) ([]models.GameSession, error) {
	if _, err := s.StudentStats(parentID, studentID); err != nil {
		return nil, err
	}
	return s.sessionRepo.ListByStudent(studentID, limit)
}

func withStats(students []models.Student) []models.StudentWithStats {
	out := make([]models.StudentWithStats, 0, len(students))
	for _, student := range students {
		student.GameStats.MergeDefaults()
		out = append(out, models.StudentWithStats{Student: student, Stats: student.GameStats})
	}
	return out
}
