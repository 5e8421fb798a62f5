package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	a := New("test-password", "timer-key")

	if a == nil {
		t.Fatal("expected auth to be created")
	}
	if a.password != "test-password" {
		t.Error("expected password to be set")
	}
	if a.apiKey != "timer-key" {
		t.Error("expected api key to be set")
	}
	if a.adminSessions == nil || a.teamSessions == nil {
		t.Error("expected session maps to be initialized")
	}
}

func TestGeneratePassword_Format(t *testing.T) {
	pw := GeneratePassword()

	parts := strings.Split(pw, "-")
	if len(parts) != 3 {
		t.Errorf("expected 3 words separated by dashes, got %d parts: %s", len(parts), pw)
	}

	for _, part := range parts {
		found := false
		for _, word := range arenaWords {
			if part == word {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("word %q not in arenaWords list", part)
		}
	}
}

func TestLogin(t *testing.T) {
	a := New("correct-password", "")

	token, ok := a.Login("correct-password")
	if !ok {
		t.Error("expected login to succeed with correct password")
	}
	if len(token) != 64 { // 32 bytes = 64 hex chars
		t.Errorf("expected 64-char token, got %d chars", len(token))
	}
	if !a.ValidateSession(token) {
		t.Error("expected session to be valid after login")
	}

	if _, ok := a.Login("wrong-password"); ok {
		t.Error("expected login to fail with wrong password")
	}
}

func TestLogout_InvalidatesSession(t *testing.T) {
	a := New("password", "")
	token, _ := a.Login("password")

	a.Logout(token)

	if a.ValidateSession(token) {
		t.Error("expected session to be invalid after logout")
	}
}

func TestValidateSession_ExpiredSession(t *testing.T) {
	a := New("password", "")
	token, _ := a.Login("password")

	a.mu.Lock()
	a.adminSessions[token] = time.Now().Add(-1 * time.Hour)
	a.mu.Unlock()

	if a.ValidateSession(token) {
		t.Error("expected expired session to be invalid")
	}

	a.mu.RLock()
	_, exists := a.adminSessions[token]
	a.mu.RUnlock()
	if exists {
		t.Error("expected expired session to be removed")
	}
}

func TestTeamSessions(t *testing.T) {
	a := New("password", "")

	token := a.LoginTeam("team-1")
	if token == "" {
		t.Fatal("expected a team session token")
	}

	teamID, ok := a.TeamFromToken(token)
	if !ok || teamID != "team-1" {
		t.Errorf("expected team-1 session, got %q ok=%v", teamID, ok)
	}

	a.LogoutTeam(token)
	if _, ok := a.TeamFromToken(token); ok {
		t.Error("expected team session to be invalid after logout")
	}
}

func TestTeamSession_Expired(t *testing.T) {
	a := New("password", "")
	token := a.LoginTeam("team-1")

	a.mu.Lock()
	a.teamSessions[token] = teamSession{teamID: "team-1", expiry: time.Now().Add(-1 * time.Hour)}
	a.mu.Unlock()

	if _, ok := a.TeamFromToken(token); ok {
		t.Error("expected expired team session to be invalid")
	}
}

func TestTeamFromRequest(t *testing.T) {
	a := New("password", "")
	token := a.LoginTeam("team-1")

	req := httptest.NewRequest("GET", "/api/teams/me", nil)
	req.AddCookie(&http.Cookie{Name: TeamCookieName, Value: token})

	teamID, ok := a.TeamFromRequest(req)
	if !ok || teamID != "team-1" {
		t.Errorf("expected team-1 from request, got %q ok=%v", teamID, ok)
	}

	if _, ok := a.TeamFromRequest(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("expected false when no team cookie present")
	}
}

func TestGetSessionFromRequest(t *testing.T) {
	a := New("password", "")
	token, _ := a.Login("password")

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: token})
	if !a.GetSessionFromRequest(req) {
		t.Error("expected valid session from request")
	}

	if a.GetSessionFromRequest(httptest.NewRequest("GET", "/admin", nil)) {
		t.Error("expected false when no cookie present")
	}

	bad := httptest.NewRequest("GET", "/admin", nil)
	bad.AddCookie(&http.Cookie{Name: AdminCookieName, Value: "invalid-token"})
	if a.GetSessionFromRequest(bad) {
		t.Error("expected false for invalid token")
	}
}

func TestRequireAuthAPI(t *testing.T) {
	a := New("password", "")
	token, _ := a.Login("password")

	handler := a.RequireAuthAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/admin/settings", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/admin/settings", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "UNAUTHORIZED") {
		t.Errorf("expected UNAUTHORIZED code in body, got: %s", rr.Body.String())
	}
}

func TestRequireAPIKey(t *testing.T) {
	a := New("password", "timer-key")

	handler := a.RequireAPIKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/api/hardware/timer/start", nil)
	req.Header.Set(APIKeyHeader, "timer-key")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 with valid key, got %d", rr.Code)
	}

	req = httptest.NewRequest("POST", "/api/hardware/timer/start", nil)
	req.Header.Set(APIKeyHeader, "wrong-key")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/hardware/timer/start", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", rr.Code)
	}
}

func TestRequireAPIKey_EmptyConfiguredKeyRejectsAll(t *testing.T) {
	a := New("password", "")

	handler := a.RequireAPIKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/api/hardware/timer/start", nil)
	req.Header.Set(APIKeyHeader, "")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 when no key is configured, got %d", rr.Code)
	}
}

func TestSessionCookies(t *testing.T) {
	rr := httptest.NewRecorder()
	SetSessionCookie(rr, "test-token")

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != AdminCookieName || cookie.Value != "test-token" {
		t.Errorf("unexpected cookie %s=%s", cookie.Name, cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly to be true")
	}

	rr = httptest.NewRecorder()
	ClearSessionCookie(rr)
	if c := rr.Result().Cookies()[0]; c.MaxAge != -1 {
		t.Errorf("expected MaxAge -1 (delete), got %d", c.MaxAge)
	}

	rr = httptest.NewRecorder()
	SetTeamCookie(rr, "team-token")
	if c := rr.Result().Cookies()[0]; c.Name != TeamCookieName || c.Value != "team-token" {
		t.Errorf("unexpected team cookie %s=%s", c.Name, c.Value)
	}
}

func TestConcurrentSessionAccess(t *testing.T) {
	a := New("password", "")

	done := make(chan bool, 20)
	for i := 0; i < 10; i++ {
		go func() {
			token, _ := a.Login("password")
			a.ValidateSession(token)
			a.Logout(token)
			done <- true
		}()
		go func() {
			token := a.LoginTeam("team-1")
			a.TeamFromToken(token)
			a.LogoutTeam(token)
			done <- true
		}()
	}

	for i := 0; i < 20; i++ {
		<-done
	}
}
