package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aperture/internal/models"
)

func TestSignupAndSignin(t *testing.T) {
	t.Parallel()
	_, app := newTestServer(t)

	signup := map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"username":  "ada_l",
		"email":     "ada@example.com",
		"password":  "SecurePass12!",
	}
	body, _ := json.Marshal(signup)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", resp.StatusCode)
	}

	var created struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	if created.Token == "" {
		t.Errorf("signup returned no token")
	}
	if created.User.Role != models.RoleUser {
		t.Errorf("self-service signup must create USER, got %q", created.User.Role)
	}

	signin := map[string]string{"username": "ada_l", "password": "SecurePass12!"}
	body, _ = json.Marshal(signin)
	req = httptest.NewRequest(http.MethodPost, "/auth/signin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signin: expected 200, got %d", resp.StatusCode)
	}
}

func TestSignupDuplicate(t *testing.T) {
	t.Parallel()
	s, app := newTestServer(t)

	seedUser(t, s, "taken", models.RoleUser)

	payload := map[string]string{
		"username": "taken",
		"email":    "fresh@example.com",
		"password": "SecurePass12!",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %d", resp.StatusCode)
	}
}

func TestSignupWeakPassword(t *testing.T) {
	t.Parallel()
	_, app := newTestServer(t)

	payload := map[string]string{
		"username": "weakling",
		"email":    "weak@example.com",
		"password": "short",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSigninBadPassword(t *testing.T) {
	t.Parallel()
	s, app := newTestServer(t)

	seedUser(t, s, "victim", models.RoleUser)

	payload := map[string]string{"username": "victim", "password": "WrongPass12!"}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}
