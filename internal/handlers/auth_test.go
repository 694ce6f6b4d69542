package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"contacts_api/internal/models"
	"contacts_api/internal/service"
)

func TestAuthHandlers_SignUp(t *testing.T) {
	auth := &mockAuth{
		signUpUser: &models.User{ID: 42, Username: "alice", Email: "alice@example.com"},
	}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	body := bytes.NewBufferString(`{"username":"alice","email":"alice@example.com","password":"s3cr3t"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("signup status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if int(m["id"].(float64)) != 42 {
		t.Fatalf("expected id=42, got %v", m["id"])
	}
	if _, leaked := m["password_hash"]; leaked {
		t.Fatal("password hash must not appear in the response")
	}

	// duplicate email → 409
	auth.signUpUser = nil
	auth.signUpErr = service.ErrEmailTaken
	body = bytes.NewBufferString(`{"username":"alice","email":"alice@example.com","password":"s3cr3t"}`)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", w.Code)
	}

	// malformed body → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestAuthHandlers_Login(t *testing.T) {
	auth := &mockAuth{token: "tok123"}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	form := url.Values{"username": {"alice@example.com"}, "password": {"s3cr3t"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["access_token"] != "tok123" {
		t.Fatalf("expected access_token tok123, got %v", m["access_token"])
	}
	if m["token_type"] != "bearer" {
		t.Fatalf("expected token_type bearer, got %v", m["token_type"])
	}
	if auth.lastLoginEmail != "alice@example.com" {
		t.Fatalf("username form field must carry the email, got %q", auth.lastLoginEmail)
	}

	// unknown email and wrong password both collapse into a single 401
	for _, svcErr := range []error{service.ErrUserNotFound, service.ErrInvalidPassword} {
		auth.token = ""
		auth.tokenErr = svcErr

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %v, got %d", svcErr, w.Code)
		}
	}
}

func TestUsersMe(t *testing.T) {
	auth := &mockAuth{
		parseID:     7,
		currentUser: &models.User{ID: 7, Username: "alice", Email: "alice@example.com"},
	}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header = authHeader("tok123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("me status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["email"] != "alice@example.com" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if auth.lastCurrentID != 7 {
		t.Fatalf("expected CurrentUser(7), got %d", auth.lastCurrentID)
	}

	// no token → 401
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
