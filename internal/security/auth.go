package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")
var ErrLocked = errors.New("too many attempts")

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type account struct {
	User
	hash []byte
}

type session struct {
	user      User
	expiresAt time.Time
}

// AuthService authenticates the fixed demo accounts and tracks sessions in
// process memory. Session entries expire on access.
type AuthService struct {
	mu       sync.Mutex
	accounts map[string]account
	sessions map[string]session
	Throttle *Throttle
}

func NewAuthService(throttle *Throttle) *AuthService {
	s := &AuthService{
		accounts: make(map[string]account),
		sessions: make(map[string]session),
		Throttle: throttle,
	}
	seed := []struct{ email, name, role, password string }{
		{"admin@ministore.com", "Store Admin", "Administrator", "admin123"},
		{"manager@ministore.com", "Store Manager", "Manager", "manager123"},
		{"staff@ministore.com", "Staff Member", "Staff", "staff123"},
	}
	for _, u := range seed {
		h, _ := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		s.accounts[u.email] = account{
			User: User{ID: newToken(8), Email: u.email, Name: u.name, Role: u.role},
			hash: h,
		}
	}
	return s
}

// Login verifies credentials under the failed-login throttle. A successful
// login resets the caller's failure count and returns a session token good
// for 24 hours, or 30 days with remember.
func (s *AuthService) Login(clientIP, email, password string, remember bool) (*User, string, error) {
	if s.Throttle != nil && !s.Throttle.Allow(clientIP) {
		return nil, "", ErrLocked
	}

	email = strings.ToLower(strings.TrimSpace(email))
	acct, ok := s.accounts[email]
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		if s.Throttle != nil {
			s.Throttle.Fail(clientIP)
		}
		return nil, "", ErrBadCreds
	}
	if s.Throttle != nil {
		s.Throttle.Reset(clientIP)
	}

	ttl := 24 * time.Hour
	if remember {
		ttl = 30 * 24 * time.Hour
	}
	token := newToken(32)
	s.mu.Lock()
	s.sessions[token] = session{user: acct.User, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	u := acct.User
	return &u, token, nil
}

func (s *AuthService) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// CurrentUser resolves a session token, expiring it in place if stale.
func (s *AuthService) CurrentUser(token string) (*User, bool) {
	if token == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return nil, false
	}
	u := sess.user
	return &u, true
}

func newToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
