package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"efggames/internal/database"
)

// BackupData is the complete portable snapshot of the database. The
// format is dialect-neutral so a snapshot taken from SQLite restores
// into Postgres or MySQL.
type BackupData struct {
	Version    string          `json:"version"`
	SnapshotID string          `json:"snapshot_id"`
	ExportedAt time.Time       `json:"exported_at"`
	Users      []UserBackup    `json:"users"`
	Students   []StudentBackup `json:"students"`
	Games      []GameBackup    `json:"games"`
	Ratings    []RatingBackup  `json:"ratings"`
	Comments   []CommentBackup `json:"comments"`
	Sessions   []SessionBackup `json:"sessions"`
}

// UserBackup is one account row
type UserBackup struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"password_hash"`
	Name          string     `json:"name"`
	AccountType   string     `json:"account_type"`
	OAuthProvider string     `json:"oauth_provider"`
	OAuthSubject  string     `json:"oauth_subject"`
	IsAdmin       bool       `json:"is_admin"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLoginAt   *time.Time `json:"last_login_at"`
}

// StudentBackup is one student row including the cached aggregates,
// which are stored as their raw JSON column values
type StudentBackup struct {
	ID                   int64      `json:"id"`
	ParentID             int64      `json:"parent_id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"password_hash"`
	Age                  int        `json:"age"`
	Grade                string     `json:"grade"`
	GamesPlayed          int64      `json:"games_played"`
	TotalPlayTime        int64      `json:"total_play_time"`
	Achievements         string     `json:"achievements"`
	SkillsDistribution   string     `json:"skills_distribution"`
	GameTimeDistribution string     `json:"game_time_distribution"`
	WeeklyProgress       string     `json:"weekly_progress"`
	LastPlayedAt         *time.Time `json:"last_played_at"`
	CreatedAt            time.Time  `json:"created_at"`
}

// GameBackup is one materialized game document
type GameBackup struct {
	ID           int64     `json:"id"`
	Grade        string    `json:"grade"`
	GameID       int64     `json:"game_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	PlayURL      string    `json:"play_url"`
	Likes        int64     `json:"likes"`
	Dislikes     int64     `json:"dislikes"`
	TotalPlays   int64     `json:"total_plays"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RatingBackup is one ledger entry
type RatingBackup struct {
	GameID    int64     `json:"game_id"`
	UserID    int64     `json:"user_id"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentBackup is one game comment
type CommentBackup struct {
	ID        int64     `json:"id"`
	GameID    int64     `json:"game_id"`
	Grade     string    `json:"grade"`
	UserID    int64     `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionBackup is one recorded play session
type SessionBackup struct {
	ID           int64     `json:"id"`
	StudentID    int64     `json:"student_id"`
	GameID       string    `json:"game_id"`
	GameTitle    string    `json:"game_title"`
	GameType     string    `json:"game_type"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	PlayTime     int64     `json:"play_time"`
	Score        int64     `json:"score"`
	SkillsGained string    `json:"skills_gained"`
	CreatedAt    time.Time `json:"created_at"`
}

// BackupService handles database export and restore
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete snapshot of the database to a file
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}
	log.Printf("Database exported to %s", outputPath)
	return nil
}

// ExportToWriter writes a complete snapshot of the database to w
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:    "1.0",
		SnapshotID: uuid.NewString(),
		ExportedAt: time.Now().UTC(),
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportStudents(backup); err != nil {
		return fmt.Errorf("failed to export students: %w", err)
	}
	if err := s.exportGames(backup); err != nil {
		return fmt.Errorf("failed to export games: %w", err)
	}
	if err := s.exportRatings(backup); err != nil {
		return fmt.Errorf("failed to export ratings: %w", err)
	}
	if err := s.exportComments(backup); err != nil {
		return fmt.Errorf("failed to export comments: %w", err)
	}
	if err := s.exportSessions(backup); err != nil {
		return fmt.Errorf("failed to export sessions: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported snapshot %s: %d users, %d students, %d games, %d ratings, %d comments, %d sessions",
		backup.SnapshotID, len(backup.Users), len(backup.Students), len(backup.Games),
		len(backup.Ratings), len(backup.Comments), len(backup.Sessions))
	return nil
}

// Import restores a database from a backup file. Existing rows with the
// same keys cause the restore to fail; import into an empty database.
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup stream
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Importing snapshot %s exported at %s", backup.SnapshotID, backup.ExportedAt.Format(time.RFC3339))

	if err := s.importUsers(backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importStudents(backup.Students); err != nil {
		return fmt.Errorf("failed to import students: %w", err)
	}
	if err := s.importGames(backup.Games); err != nil {
		return fmt.Errorf("failed to import games: %w", err)
	}
	if err := s.importRatings(backup.Ratings); err != nil {
		return fmt.Errorf("failed to import ratings: %w", err)
	}
	if err := s.importComments(backup.Comments); err != nil {
		return fmt.Errorf("failed to import comments: %w", err)
	}
	if err := s.importSessions(backup.Sessions); err != nil {
		return fmt.Errorf("failed to import sessions: %w", err)
	}

	log.Printf("Import complete: %d users, %d students, %d games, %d ratings, %d comments, %d sessions",
		len(backup.Users), len(backup.Students), len(backup.Games),
		len(backup.Ratings), len(backup.Comments), len(backup.Sessions))
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	rows, err := s.db.Query(`
		SELECT id, email, COALESCE(password_hash, ''), name, account_type,
		       COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''),
		       is_admin, created_at, updated_at, last_login_at
		FROM users ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.AccountType,
			&u.OAuthProvider, &u.OAuthSubject, &u.IsAdmin,
			&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportStudents(backup *BackupData) error {
	rows, err := s.db.Query(`
		SELECT id, parent_id, name, email, password_hash, age, grade,
		       games_played, total_play_time, achievements, skills_distribution,
		       game_time_distribution, weekly_progress, last_played_at, created_at
		FROM students ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var st StudentBackup
		if err := rows.Scan(&st.ID, &st.ParentID, &st.Name, &st.Email, &st.PasswordHash,
			&st.Age, &st.Grade, &st.GamesPlayed, &st.TotalPlayTime,
			&st.Achievements, &st.SkillsDistribution, &st.GameTimeDistribution,
			&st.WeeklyProgress, &st.LastPlayedAt, &st.CreatedAt); err != nil {
			return err
		}
		backup.Students = append(backup.Students, st)
	}
	return rows.Err()
}

func (s *BackupService) exportGames(backup *BackupData) error {
	rows, err := s.db.Query(`
		SELECT id, grade, game_id, title, description, thumbnail_url, play_url,
		       likes, dislikes, total_plays, created_at, updated_at
		FROM games ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g GameBackup
		if err := rows.Scan(&g.ID, &g.Grade, &g.GameID, &g.Title, &g.Description,
			&g.ThumbnailURL, &g.PlayURL, &g.Likes, &g.Dislikes, &g.TotalPlays,
			&g.CreatedAt, &g.UpdatedAt); err != nil {
			return err
		}
		backup.Games = append(backup.Games, g)
	}
	return rows.Err()
}

func (s *BackupService) exportRatings(backup *BackupData) error {
	rows, err := s.db.Query(`
		SELECT game_id, user_id, value, created_at, updated_at
		FROM game_ratings ORDER BY game_id, user_id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r RatingBackup
		if err := rows.Scan(&r.GameID, &r.UserID, &r.Value, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return err
		}
		backup.Ratings = append(backup.Ratings, r)
	}
	return rows.Err()
}

func (s *BackupService) exportComments(backup *BackupData) error {
	rows, err := s.db.Query(`
		SELECT id, game_id, grade, user_id, body, created_at
		FROM comments ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c CommentBackup
		if err := rows.Scan(&c.ID, &c.GameID, &c.Grade, &c.UserID, &c.Body, &c.CreatedAt); err != nil {
			return err
		}
		backup.Comments = append(backup.Comments, c)
	}
	return rows.Err()
}

func (s *BackupService) exportSessions(backup *BackupData) error {
	rows, err := s.db.Query(`
		SELECT id, student_id, game_id, game_title, game_type, started_at,
		       ended_at, play_time, score, skills_gained, created_at
		FROM game_sessions ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var gs SessionBackup
		if err := rows.Scan(&gs.ID, &gs.StudentID, &gs.GameID, &gs.GameTitle, &gs.GameType,
			&gs.StartedAt, &gs.EndedAt, &gs.PlayTime, &gs.Score,
			&gs.SkillsGained, &gs.CreatedAt); err != nil {
			return err
		}
		backup.Sessions = append(backup.Sessions, gs)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(users []UserBackup) error {
	for _, u := range users {
		_, err := s.db.Exec(`
			INSERT INTO users (id, email, password_hash, name, account_type,
			                   oauth_provider, oauth_subject, is_admin,
			                   created_at, updated_at, last_login_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, u.ID, u.Email, nullIfEmpty(u.PasswordHash), u.Name, u.AccountType,
			nullIfEmpty(u.OAuthProvider), nullIfEmpty(u.OAuthSubject), u.IsAdmin,
			u.CreatedAt, u.UpdatedAt, u.LastLoginAt)
		if err != nil {
			return fmt.Errorf("user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importStudents(students []StudentBackup) error {
	for _, st := range students {
		_, err := s.db.Exec(`
			INSERT INTO students (id, parent_id, name, email, password_hash, age, grade,
			                      games_played, total_play_time, achievements,
			                      skills_distribution, game_time_distribution,
			                      weekly_progress, last_played_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, st.ID, st.ParentID, st.Name, st.Email, st.PasswordHash, st.Age, st.Grade,
			st.GamesPlayed, st.TotalPlayTime, st.Achievements, st.SkillsDistribution,
			st.GameTimeDistribution, st.WeeklyProgress, st.LastPlayedAt, st.CreatedAt)
		if err != nil {
			return fmt.Errorf("student %d: %w", st.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importGames(games []GameBackup) error {
	for _, g := range games {
		_, err := s.db.Exec(`
			INSERT INTO games (id, grade, game_id, title, description, thumbnail_url,
			                   play_url, likes, dislikes, total_plays, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, g.ID, g.Grade, g.GameID, g.Title, g.Description, g.ThumbnailURL,
			g.PlayURL, g.Likes, g.Dislikes, g.TotalPlays, g.CreatedAt, g.UpdatedAt)
		if err != nil {
			return fmt.Errorf("game %d: %w", g.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importRatings(ratings []RatingBackup) error {
	for _, r := range ratings {
		_, err := s.db.Exec(`
			INSERT INTO game_ratings (game_id, user_id, value, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, r.GameID, r.UserID, r.Value, r.CreatedAt, r.UpdatedAt)
		if err != nil {
			return fmt.Errorf("rating game=%d user=%d: %w", r.GameID, r.UserID, err)
		}
	}
	return nil
}

func (s *BackupService) importComments(comments []CommentBackup) error {
	for _, c := range comments {
		_, err := s.db.Exec(`
			INSERT INTO comments (id, game_id, grade, user_id, body, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.ID, c.GameID, c.Grade, c.UserID, c.Body, c.CreatedAt)
		if err != nil {
			return fmt.Errorf("comment %d: %w", c.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importSessions(sessions []SessionBackup) error {
	for _, gs := range sessions {
		_, err := s.db.Exec(`
			INSERT INTO game_sessions (id, student_id, game_id, game_title, game_type,
			                           started_at, ended_at, play_time, score,
			                           skills_gained, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, gs.ID, gs.StudentID, gs.GameID, gs.GameTitle, gs.GameType,
			gs.StartedAt, gs.EndedAt, gs.PlayTime, gs.Score, gs.SkillsGained, gs.CreatedAt)
		if err != nil {
			return fmt.Errorf("session %d: %w", gs.ID, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
