package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestStudentRoutes(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "parent@example.com")

	// Create a student
	rec := ts.request(t, "POST", "/students/create", token, map[string]interface{}{
		"name":     "Maya",
		"email":    "maya@example.com",
		"password": "secret123",
		"age":      6,
		"grade":    "1st",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create student status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var student struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &student)

	// Track a 30 minute Monday session
	started := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	rec = ts.request(t, "POST", "/students/track-game", token, map[string]interface{}{
		"studentId":    student.ID,
		"gameId":       "addition-adventure",
		"gameTitle":    "Addition Adventure",
		"gameType":     "math",
		"startTime":    started,
		"endTime":      started.Add(30 * time.Minute),
		"score":        90,
		"skillsGained": []string{"math"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("track-game status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var tracked struct {
		Stats struct {
			GamesPlayed   int64 `json:"gamesPlayed"`
			TotalPlayTime int64 `json:"totalPlayTime"`
		} `json:"stats"`
	}
	decodeBody(t, rec, &tracked)
	if tracked.Stats.GamesPlayed != 1 || tracked.Stats.TotalPlayTime != 30 {
		t.Errorf("stats = %+v", tracked.Stats)
	}

	// Dashboard rolls the student up
	rec = ts.request(t, "GET", "/students/stats", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var dashboard struct {
		Students []struct {
			ID int64 `json:"id"`
		} `json:"students"`
		Overall struct {
			TotalStudents int   `json:"totalStudents"`
			TotalPlayTime int64 `json:"totalPlayTime"`
		} `json:"overallStats"`
	}
	decodeBody(t, rec, &dashboard)
	if dashboard.Overall.TotalStudents != 1 || dashboard.Overall.TotalPlayTime != 30 {
		t.Errorf("overall = %+v", dashboard.Overall)
	}

	// Single-student view
	rec = ts.request(t, "GET", "/students/stats?studentId=1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("single student stats status = %d", rec.Code)
	}

	// Another account cannot see this student
	otherToken := ts.signup(t, "other@example.com")
	rec = ts.request(t, "GET", "/students/stats?studentId=1", otherToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign student stats status = %d, want 403", rec.Code)
	}
}

func TestStudentListScope(t *testing.T) {
	ts := newTestServer(t)

	// The first account is the admin; the others are ordinary parents
	adminToken := ts.signup(t, "admin@example.com")
	firstToken := ts.signup(t, "first@example.com")
	secondToken := ts.signup(t, "second@example.com")

	for i, token := range []string{firstToken, secondToken} {
		rec := ts.request(t, "POST", "/students/create", token, map[string]interface{}{
			"name":     "Student",
			"email":    fmt.Sprintf("kid%d@example.com", i),
			"password": "secret123",
			"age":      6,
			"grade":    "1st",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create student status = %d, body = %s", rec.Code, rec.Body.String())
		}
	}

	listLen := func(token string) int {
		t.Helper()
		rec := ts.request(t, "GET", "/students", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("list status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var students []struct {
			ID int64 `json:"id"`
		}
		decodeBody(t, rec, &students)
		return len(students)
	}

	// Parents see only their own students; the admin sees everyone
	if n := listLen(firstToken); n != 1 {
		t.Errorf("first parent list length = %d, want 1", n)
	}
	if n := listLen(adminToken); n != 2 {
		t.Errorf("admin list length = %d, want 2", n)
	}
}

func TestStudentRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, "GET", "/students/stats", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous stats status = %d, want 401", rec.Code)
	}

	rec = ts.request(t, "POST", "/students/create", "", map[string]string{"name": "X"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create status = %d, want 401", rec.Code)
	}
}
