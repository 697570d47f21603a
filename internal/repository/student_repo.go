package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"efggames/internal/database"
	"efggames/internal/models"
)

// StudentRepository handles database operations for students and their
// cached game stats
type StudentRepository struct {
	db *database.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *database.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, parent_id, name, email, password_hash, age, grade,
		       games_played, total_play_time, achievements, skills_distribution,
		       game_time_distribution, weekly_progress, created_at, last_played_at, last_login_at`

// Create inserts a student with zero-valued aggregates
func (r *StudentRepository) Create(parentID int64, name, email, passwordHash string, age int, grade string) (*models.Student, error) {
	stats := models.NewGameStats()
	achievements, skills, gameTime, weekly, err := marshalStats(stats)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO students (parent_id, name, email, password_hash, age, grade,
		                      games_played, total_play_time, achievements, skills_distribution,
		                      game_time_distribution, weekly_progress, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC()
	id, err := r.db.ExecReturningID(query, parentID, name, email, passwordHash, age, grade,
		achievements, skills, gameTime, weekly, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return &models.Student{
		ID:           id,
		ParentID:     parentID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Age:          age,
		Grade:        grade,
		GameStats:    stats,
		CreatedAt:    now,
	}, nil
}

// GetByID retrieves a student by ID, nil when absent
func (r *StudentRepository) GetByID(id int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = ?`
	return scanStudentRow(r.db.QueryRow(query, id))
}

// GetByEmail retrieves a student by email, nil when absent
func (r *StudentRepository) GetByEmail(email string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE email = ?`
	return scanStudentRow(r.db.QueryRow(query, email))
}

// ListByParent retrieves the students owned by a parent or institution
func (r *StudentRepository) ListByParent(parentID int64) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE parent_id = ? ORDER BY created_at ASC`
	rows, err := r.db.Query(query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()
	return collectStudents(rows)
}

// ListAll retrieves every student
func (r *StudentRepository) ListAll() ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY created_at ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()
	return collectStudents(rows)
}

// GetStats reads a student's cached aggregates. Runs against q so a
// session-recording transaction reads its own writes.
func (r *StudentRepository) GetStats(q database.DBTX, id int64) (*models.GameStats, error) {
	query := `
		SELECT games_played, total_play_time, achievements, skills_distribution,
		       game_time_distribution, weekly_progress, last_played_at
		FROM students
		WHERE id = ?
	`
	var (
		stats        models.GameStats
		achievements string
		skills       string
		gameTime     string
		weekly       string
		lastPlayed   sql.NullTime
	)
	err := q.QueryRow(query, id).Scan(
		&stats.GamesPlayed,
		&stats.TotalPlayTime,
		&achievements,
		&skills,
		&gameTime,
		&weekly,
		&lastPlayed,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	if err := unmarshalStats(&stats, achievements, skills, gameTime, weekly); err != nil {
		return nil, err
	}
	if lastPlayed.Valid {
		stats.LastPlayed = &lastPlayed.Time
	}
	return &stats, nil
}

// IncrementPlayCounters atomically bumps games_played and total_play_time
func (r *StudentRepository) IncrementPlayCounters(q database.DBTX, id int64, playTime int64, playedAt time.Time) error {
	query := `
		UPDATE students
		SET games_played = games_played + 1,
		    total_play_time = total_play_time + ?,
		    last_played_at = ?
		WHERE id = ?
	`
	if _, err := q.Exec(query, playTime, playedAt.UTC(), id); err != nil {
		return fmt.Errorf("failed to increment play counters: %w", err)
	}
	return nil
}

// WriteDistributions persists the JSON-encoded aggregate maps
func (r *StudentRepository) WriteDistributions(q database.DBTX, id int64, stats *models.GameStats) error {
	achievements, skills, gameTime, weekly, err := marshalStats(*stats)
	if err != nil {
		return err
	}

	query := `
		UPDATE students
		SET achievements = ?, skills_distribution = ?,
		    game_time_distribution = ?, weekly_progress = ?
		WHERE id = ?
	`
	if _, err := q.Exec(query, achievements, skills, gameTime, weekly, id); err != nil {
		return fmt.Errorf("failed to write distributions: %w", err)
	}
	return nil
}

func marshalStats(stats models.GameStats) (achievements, skills, gameTime, weekly string, err error) {
	a, err := json.Marshal(stats.Achievements)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to marshal achievements: %w", err)
	}
	s, err := json.Marshal(stats.SkillsDistribution)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to marshal skills distribution: %w", err)
	}
	g, err := json.Marshal(stats.GameTimeDistribution)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to marshal game time distribution: %w", err)
	}
	w, err := json.Marshal(stats.WeeklyProgress)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to marshal weekly progress: %w", err)
	}
	return string(a), string(s), string(g), string(w), nil
}

func unmarshalStats(stats *models.GameStats, achievements, skills, gameTime, weekly string) error {
	if err := json.Unmarshal([]byte(achievements), &stats.Achievements); err != nil {
		return fmt.Errorf("failed to unmarshal achievements: %w", err)
	}
	if err := json.Unmarshal([]byte(skills), &stats.SkillsDistribution); err != nil {
		return fmt.Errorf("failed to unmarshal skills distribution: %w", err)
	}
	if err := json.Unmarshal([]byte(gameTime), &stats.GameTimeDistribution); err != nil {
		return fmt.Errorf("failed to unmarshal game time distribution: %w", err)
	}
	if err := json.Unmarshal([]byte(weekly), &stats.WeeklyProgress); err != nil {
		return fmt.Errorf("failed to unmarshal weekly progress: %w", err)
	}
	return nil
}

func scanStudentRow(row *sql.Row) (*models.Student, error) {
	var (
		student      models.Student
		achievements string
		skills       string
		gameTime     string
		weekly       string
		lastPlayed   sql.NullTime
		lastLogin    sql.NullTime
	)
	err := row.Scan(
		&student.ID,
		&student.ParentID,
		&student.Name,
		&student.Email,
		&student.PasswordHash,
		&student.Age,
		&student.Grade,
		&student.GameStats.GamesPlayed,
		&student.GameStats.TotalPlayTime,
		&achievements,
		&skills,
		&gameTime,
		&weekly,
		&student.CreatedAt,
		&lastPlayed,
		&lastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}
	if err := unmarshalStats(&student.GameStats, achievements, skills, gameTime, weekly); err != nil {
		return nil, err
	}
	if lastPlayed.Valid {
		student.GameStats.LastPlayed = &lastPlayed.Time
	}
	if lastLogin.Valid {
		student.LastLoginAt = &lastLogin.Time
	}
	return &student, nil
}

func collectStudents(rows *sql.Rows) ([]models.Student, error) {
	var students []models.Student
	for rows.Next() {
		var (
			student      models.Student
			achievements string
			skills       string
			gameTime     string
			weekly       string
			lastPlayed   sql.NullTime
			lastLogin    sql.NullTime
		)
		err := rows.Scan(
			&student.ID,
			&student.ParentID,
			&student.Name,
			&student.Email,
			&student.PasswordHash,
			&student.Age,
			&student.Grade,
			&student.GameStats.GamesPlayed,
			&student.GameStats.TotalPlayTime,
			&achievements,
			&skills,
			&gameTime,
			&weekly,
			&student.CreatedAt,
			&lastPlayed,
			&lastLogin,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		if err := unmarshalStats(&student.GameStats, achievements, skills, gameTime, weekly); err != nil {
			return nil, err
		}
		if lastPlayed.Valid {
			student.GameStats.LastPlayed = &lastPlayed.Time
		}
		if lastLogin.Valid {
			student.LastLoginAt = &lastLogin.Time
		}
		students = append(students, student)
	}
	return students, rows.Err()
}
