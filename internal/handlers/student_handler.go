package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"efggames/internal/models"
	"efggames/internal/service"
)

// StudentHandler handles student profiles, play tracking and the
// parent dashboard
type StudentHandler struct {
	statsService *service.StatsService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(statsService *service.StatsService) *StudentHandler {
	return &StudentHandler{statsService: statsService}
}

type createStudentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
	Grade    string `json:"grade"`
}

type trackGameRequest struct {
	StudentID    int64     `json:"studentId"`
	GameID       string    `json:"gameId"`
	GameTitle    string    `json:"gameTitle"`
	GameType     string    `json:"gameType"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Score        int64     `json:"score"`
	SkillsGained []string  `json:"skillsGained"`
}

// Create adds a student profile under the signed-in account
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req createStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	student, err := h.statsService.CreateStudent(user.ID, req.Name, req.Email, req.Password, req.Age, req.Grade)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, student)
}

// List returns the signed-in account's students. Admins see every
// student.
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var (
		students []models.StudentWithStats
		err      error
	)
	if user.IsAdmin {
		students, err = h.statsService.ListAllStudents()
	} else {
		students, err = h.statsService.ListStudents(user.ID)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, students)
}

// Stats serves the dashboard. With ?studentId= it returns one student;
// without it, every student plus the overall roll-up.
func (h *StudentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if raw := r.URL.Query().Get("studentId"); raw != "" {
		studentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid student id")
			return
		}
		student, err := h.statsService.StudentStats(user.ID, studentID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, student)
		return
	}

	dashboard, err := h.statsService.Dashboard(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// TrackGame records a finished play session and returns the student's
// updated stats
func (h *StudentHandler) TrackGame(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req trackGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	session, stats, err := h.statsService.RecordSession(user.ID, service.SessionRecord{
		StudentID:    req.StudentID,
		GameID:       req.GameID,
		GameTitle:    req.GameTitle,
		GameType:     req.GameType,
		StartedAt:    req.StartTime,
		EndedAt:      req.EndTime,
		Score:        req.Score,
		SkillsGained: req.SkillsGained,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"session": session,
		"stats":   stats,
	})
}

// Sessions returns a student's most recent play sessions
func (h *StudentHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	studentID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	sessions, err := h.statsService.RecentSessions(user.ID, studentID, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sessions)
}
