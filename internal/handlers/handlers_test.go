package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"efggames/internal/database"
	"efggames/internal/repository"
	"efggames/internal/security"
	"efggames/internal/service"
)

// testServer wires the full handler stack against a temp SQLite database
type testServer struct {
	mux         *http.ServeMux
	authService *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping handler test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	limitRepo := repository.NewRateLimitRepository(db)

	tokens := security.NewTokenIssuer("test-secret", time.Hour)
	authService := service.NewAuthService(userRepo, tokens, time.Hour)
	gameService := service.NewGameService(db, gameRepo, ratingRepo, commentRepo, limitRepo, 100, time.Minute)
	ratingService := service.NewRatingService(db, gameRepo, ratingRepo)
	statsService := service.NewStatsService(db, studentRepo, sessionRepo)

	middleware := NewMiddleware(authService, security.NewRateLimiter(1000, time.Minute))
	authHandler := NewAuthHandler(authService, "", "", "")
	gameHandler := NewGameHandler(gameService, ratingService)
	studentHandler := NewStudentHandler(statsService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /games/{grade}", gameHandler.ListGrade)
	mux.HandleFunc("GET /games/{grade}/{id}", middleware.OptionalAuth(gameHandler.GetGame))
	mux.HandleFunc("POST /games/{grade}/{id}/incrementPlay", middleware.OptionalAuth(gameHandler.IncrementPlay))
	mux.HandleFunc("POST /games/{grade}/{id}/like", middleware.RequireAuth(gameHandler.Rate))
	mux.HandleFunc("GET /games/{grade}/{id}/comment", gameHandler.ListComments)
	mux.HandleFunc("POST /games/{grade}/{id}/comment", middleware.RequireAuth(gameHandler.AddComment))
	mux.HandleFunc("POST /students/create", middleware.RequireAuth(studentHandler.Create))
	mux.HandleFunc("GET /students", middleware.RequireAuth(studentHandler.List))
	mux.HandleFunc("GET /students/stats", middleware.RequireAuth(studentHandler.Stats))
	mux.HandleFunc("POST /students/track-game", middleware.RequireAuth(studentHandler.TrackGame))
	mux.HandleFunc("POST /auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /auth/signin", authHandler.Signin)

	return &testServer{mux: mux, authService: authService}
}

// signup registers an account and returns its bearer token
func (ts *testServer) signup(t *testing.T, email string) string {
	t.Helper()
	result, err := ts.authService.Register(email, "password123", "Test Parent", "parent")
	if err != nil {
		t.Fatalf("Failed to register test account: %v", err)
	}
	return result.Token
}

// request performs a JSON request against the test mux
func (ts *testServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}
