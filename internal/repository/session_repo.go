package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"efggames/internal/database"
	"efggames/internal/models"
)

// SessionRepository handles database operations for recorded play sessions
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Insert appends a play session record. Sessions are immutable after
// creation. Runs against q so the append and the aggregate fold share a
// transaction.
func (r *SessionRepository) Insert(q database.DBTX, session *models.GameSession) (*models.GameSession, error) {
	skills, err := json.Marshal(session.SkillsGained)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skills gained: %w", err)
	}

	query := `
		INSERT INTO game_sessions (student_id, game_id, game_title, game_type,
		                           started_at, ended_at, play_time, score, skills_gained, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC()
	id, err := q.ExecReturningID(query,
		session.StudentID, session.GameID, session.GameTitle, session.GameType,
		session.StartedAt.UTC(), session.EndedAt.UTC(), session.PlayTime,
		session.Score, string(skills), now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	session.ID = id
	session.CreatedAt = now
	return session, nil
}

// ListByStudent retrieves a student's play sessions, newest first
func (r *SessionRepository) ListByStudent(studentID int64, limit int) ([]models.GameSession, error) {
	query := `
		SELECT id, student_id, game_id, game_title, game_type,
		       started_at, ended_at, play_time, score, skills_gained, created_at
		FROM game_sessions
		WHERE student_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.GameSession
	for rows.Next() {
		var session models.GameSession
		var skills string
		err := rows.Scan(
			&session.ID,
			&session.StudentID,
			&session.GameID,
			&session.GameTitle,
			&session.GameType,
			&session.StartedAt,
			&session.EndedAt,
			&session.PlayTime,
			&session.Score,
			&skills,
			&session.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if err := json.Unmarshal([]byte(skills), &session.SkillsGained); err != nil {
			return nil, fmt.Errorf("failed to unmarshal skills gained: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// CountByStudent counts a student's recorded sessions
func (r *SessionRepository) CountByStudent(studentID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM game_sessions WHERE student_id = ?", studentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}
