package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	AdminCookieName = "scoreboard_session"
	TeamCookieName  = "scoreboard_team"
	SessionExpiry   = 24 * time.Hour

	// APIKeyHeader carries the shared secret of the arena timer hardware
	APIKeyHeader = "X-Api-Key"
)

// Robotics-themed words for password generation
var arenaWords = []string{
	"crystal", "sulfur", "droid", "rover", "servo",
	"sensor", "circuit", "gripper", "chassis", "beacon",
	"arena", "pilot", "relay", "magnet", "torque",
	"gear", "lidar", "sonar", "module",
}

// teamSession binds a session token to the team that logged in with its PIN
type teamSession struct {
	teamID string
	expiry time.Time
}

// Auth handles admin and team authentication plus the hardware API key
type Auth struct {
	password      string
	apiKey        string
	adminSessions map[string]time.Time
	teamSessions  map[string]teamSession
	mu            sync.RWMutex
}

// New creates a new Auth instance with the given admin password and
// hardware API key
func New(password, apiKey string) *Auth {
	return &Auth{
		password:      password,
		apiKey:        apiKey,
		adminSessions: make(map[string]time.Time),
		teamSessions:  make(map[string]teamSession),
	}
}

// GeneratePassword creates a random 3-word password
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		idx := randomInt(len(arenaWords))
		words[i] = arenaWords[idx]
	}
	return strings.Join(words, "-")
}

// Login validates the admin password and returns a session token if valid
func (a *Auth) Login(password string) (string, bool) {
	if password != a.password {
		return "", false
	}

	token := generateToken()
	a.mu.Lock()
	a.adminSessions[token] = time.Now().Add(SessionExpiry)
	a.mu.Unlock()

	return token, true
}

// Logout invalidates an admin session token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.adminSessions, token)
	a.mu.Unlock()
}

// ValidateSession checks if an admin session token is valid
func (a *Auth) ValidateSession(token string) bool {
	a.mu.RLock()
	expiry, exists := a.adminSessions[token]
	a.mu.RUnlock()

	if !exists {
		return false
	}

	if time.Now().After(expiry) {
		a.mu.Lock()
		delete(a.adminSessions, token)
		a.mu.Unlock()
		return false
	}

	return true
}

// LoginTeam creates a session for a team that presented a valid PIN. PIN
// checking is the team service's job; this only mints the token.
func (a *Auth) LoginTeam(teamID string) string {
	token := generateToken()
	a.mu.Lock()
	a.teamSessions[token] = teamSession{teamID: teamID, expiry: time.Now().Add(SessionExpiry)}
	a.mu.Unlock()
	return token
}

// LogoutTeam invalidates a team session token
func (a *Auth) LogoutTeam(token string) {
	a.mu.Lock()
	delete(a.teamSessions, token)
	a.mu.Unlock()
}

// TeamFromToken resolves the team behind a session token
func (a *Auth) TeamFromToken(token string) (string, bool) {
	a.mu.RLock()
	s, exists := a.teamSessions[token]
	a.mu.RUnlock()

	if !exists {
		return "", false
	}
	if time.Now().After(s.expiry) {
		a.mu.Lock()
		delete(a.teamSessions, token)
		a.mu.Unlock()
		return "", false
	}
	return s.teamID, true
}

// GetSessionFromRequest extracts and validates the admin session from a request
func (a *Auth) GetSessionFromRequest(r *http.Request) bool {
	cookie, err := r.Cookie(AdminCookieName)
	if err != nil {
		return false
	}
	return a.ValidateSession(cookie.Value)
}

// TeamFromRequest extracts and validates the team session from a request
func (a *Auth) TeamFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(TeamCookieName)
	if err != nil {
		return "", false
	}
	return a.TeamFromToken(cookie.Value)
}

// RequireAuthAPI middleware for admin API endpoints (returns 401)
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.GetSessionFromRequest(r) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - please log in"}`))
	})
}

// RequireAPIKey middleware for the timer hardware endpoints. Responds 401
// unless the request carries the configured key.
func (a *Auth) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(APIKeyHeader)
		if a.apiKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(a.apiKey)) == 1 {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"UNAUTHORIZED","error":"invalid api key"}`))
	})
}

// SetSessionCookie sets the admin session cookie on the response
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie removes the admin session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// SetTeamCookie sets the team session cookie on the response
func SetTeamCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TeamCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearTeamCookie removes the team session cookie
func ClearTeamCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TeamCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// generateToken creates a random session token
func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// randomInt returns a random int in [0, max)
func randomInt(max int) int {
	bytes := make([]byte, 1)
	rand.Read(bytes)
	return int(bytes[0]) % max
}
