package handlers

import (
	"net/http"
	"testing"
)

func TestListGradeRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, "GET", "/games/K", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /games/K status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var games []map[string]interface{}
	decodeBody(t, rec, &games)
	if len(games) != 3 {
		t.Errorf("grade K has %d games, want 3", len(games))
	}

	rec = ts.request(t, "GET", "/games/12th", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /games/12th status = %d, want 404", rec.Code)
	}
}

func TestGetGameRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, "GET", "/games/K/1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /games/K/1 status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var detail struct {
		Game struct {
			ID    int64  `json:"id"`
			Grade string `json:"grade"`
			Likes int64  `json:"likes"`
		} `json:"game"`
		TotalPlays int64  `json:"totalPlays"`
		UserRating string `json:"userRating"`
	}
	decodeBody(t, rec, &detail)
	if detail.Game.ID != 1 || detail.Game.Grade != "K" {
		t.Errorf("game = %+v", detail.Game)
	}
	if detail.TotalPlays != 0 {
		t.Errorf("totalPlays = %d, want 0", detail.TotalPlays)
	}

	rec = ts.request(t, "GET", "/games/K/999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /games/K/999 status = %d, want 404", rec.Code)
	}

	rec = ts.request(t, "GET", "/games/K/abc", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("GET /games/K/abc status = %d, want 400", rec.Code)
	}
}

func TestIncrementPlayRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, "POST", "/games/1st/1/incrementPlay", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("incrementPlay status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Game struct {
			TotalPlays int64 `json:"totalPlays"`
		} `json:"game"`
		TotalPlays int64 `json:"totalPlays"`
		Counted    bool  `json:"counted"`
	}
	decodeBody(t, rec, &result)
	if result.TotalPlays != 1 || !result.Counted {
		t.Errorf("result = %+v, want totalPlays 1 counted", result)
	}
	if result.Game.TotalPlays != 1 {
		t.Errorf("game.totalPlays = %d, want 1", result.Game.TotalPlays)
	}
}

func TestRateRoute(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "rater@example.com")

	// Anonymous votes are rejected
	rec := ts.request(t, "POST", "/games/K/1/like", "", map[string]string{"action": "like"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous rate status = %d, want 401", rec.Code)
	}

	rec = ts.request(t, "POST", "/games/K/1/like", token, map[string]string{"action": "like"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rate status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Likes      int64  `json:"likes"`
		Dislikes   int64  `json:"dislikes"`
		UserRating string `json:"userRating"`
	}
	decodeBody(t, rec, &result)
	if result.Likes != 1 || result.UserRating != "like" {
		t.Errorf("result = %+v", result)
	}

	// Invalid action
	rec = ts.request(t, "POST", "/games/K/1/like", token, map[string]string{"action": "adore"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid action status = %d, want 400", rec.Code)
	}
}

func TestCommentRoutes(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "commenter@example.com")

	rec := ts.request(t, "POST", "/games/2nd/1/comment", token, map[string]string{"comment": "Great game"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add comment status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = ts.request(t, "GET", "/games/2nd/1/comment", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list comments status = %d", rec.Code)
	}

	var comments []struct {
		Comment string `json:"comment"`
	}
	decodeBody(t, rec, &comments)
	if len(comments) != 1 || comments[0].Comment != "Great game" {
		t.Errorf("comments = %+v", comments)
	}

	// Empty comment is rejected
	rec = ts.request(t, "POST", "/games/2nd/1/comment", token, map[string]string{"comment": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty comment status = %d, want 400", rec.Code)
	}
}
