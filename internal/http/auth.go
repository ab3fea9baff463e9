package http

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"sync"
	"time"
)

const (
	sessionCookie = "kasrt_session"
	sessionTTL    = 12 * time.Hour
)

// sessionStore keeps admin sessions in memory. Sessions are request
// scoped via cookie; no global "unlocked" flag exists, so one admin
// logging in never unlocks the dashboard for other visitors.
type sessionStore struct {
	mu       sync.Mutex
	password string
	tokens   map[string]time.Time
}

func newSessionStore(password string) *sessionStore {
	return &sessionStore{
		password: password,
		tokens:   make(map[string]time.Time),
	}
}

func (ss *sessionStore) enabled() bool {
	return ss.password != ""
}

// login checks the password in constant time and mints a session token.
func (ss *sessionStore) login(password string) (string, bool) {
	if !ss.enabled() {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(ss.password)) != 1 {
		return "", false
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", false
	}
	token := hex.EncodeToString(buf)

	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.tokens[token] = time.Now().Add(sessionTTL)
	return token, true
}

func (ss *sessionStore) logout(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.tokens, token)
}

func (ss *sessionStore) valid(token string) bool {
	if token == "" {
		return false
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	exp, ok := ss.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(ss.tokens, token)
		return false
	}
	return true
}

// isAdmin checks the session cookie on every request.
func (s *Server) isAdmin(r *http.Request) bool {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return false
	}
	return s.sessions.valid(c.Value)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	token, ok := s.sessions.login(r.Form.Get("password"))
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`<div class="error">Password salah</div>`))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.logout(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
