package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/kantin/internal/clock"
	"github.com/smallbiznis/kantin/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid_credentials")

// Session is an authenticated operator session held in memory.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Params struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	Clock clock.Clock
}

// Service authenticates the canteen operator against the configured
// credentials and tracks issued session tokens.
type Service struct {
	log   *zap.Logger
	clock clock.Clock

	username     string
	passwordHash []byte
	ttl          time.Duration

	mu       sync.Mutex
	sessions map[string]Session
}

func New(p Params) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Service{
		log:          p.Log.Named("auth.service"),
		clock:        p.Clock,
		username:     p.Cfg.AdminUsername,
		passwordHash: hash,
		ttl:          time.Duration(p.Cfg.SessionTTLMinutes) * time.Minute,
		sessions:     make(map[string]Session),
	}, nil
}

// Login verifies the operator credentials and issues a new session token.
func (s *Service) Login(username, password string) (Session, error) {
	if username != s.username {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	sess := Session{
		Token:     uuid.NewString(),
		Username:  username,
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	s.log.Info("operator logged in", zap.String("username", username))
	return sess, nil
}

// Validate resolves a session token. Expired sessions are evicted.
func (s *Service) Validate(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if !s.clock.Now().Before(sess.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

// Logout revokes a session token. Revoking an unknown token is a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
