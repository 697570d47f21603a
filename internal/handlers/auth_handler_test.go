package handlers

import (
	"net/http"
	"testing"
)

func TestSignupRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, "POST", "/auth/signup", "", map[string]string{
		"email":       "new@example.com",
		"password":    "password123",
		"name":        "New Parent",
		"accountType": "parent",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result struct {
		User struct {
			Email       string `json:"email"`
			AccountType string `json:"accountType"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decodeBody(t, rec, &result)
	if result.User.Email != "new@example.com" || result.Token == "" {
		t.Errorf("result = %+v", result)
	}

	// Duplicate email conflicts
	rec = ts.request(t, "POST", "/auth/signup", "", map[string]string{
		"email":       "new@example.com",
		"password":    "password123",
		"name":        "New Parent",
		"accountType": "parent",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409", rec.Code)
	}
}

func TestSigninRoute(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "parent@example.com")

	rec := ts.request(t, "POST", "/auth/signin", "", map[string]string{
		"email":    "parent@example.com",
		"password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("signin status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = ts.request(t, "POST", "/auth/signin", "", map[string]string{
		"email":    "parent@example.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", rec.Code)
	}
}
