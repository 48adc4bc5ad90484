package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultSessionTTL bounds how long a token stays valid after login.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore issues, validates, and destroys session tokens. A username may
// hold any number of concurrent sessions; a destroyed token is never reused.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{db: db, ttl: ttl, now: time.Now}
}

// Start allocates a fresh token bound to the username. Callers invoke it only
// after a successful Authenticate.
func (s *SessionStore) Start(username string) (string, error) {
	session := Session{
		Token:     uuid.NewString(),
		Username:  username,
		CreatedAt: s.now(),
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return session.Token, nil
}

// Validate returns the bound username for an active token. Unknown, destroyed,
// and expired tokens all fail with ErrUnauthorized; expired rows are purged on
// the way out.
func (s *SessionStore) Validate(token string) (string, error) {
	var session Session
	err := s.db.First(&session, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("find session: %w", err)
	}

	if session.ExpiresAt.Before(s.now()) {
		// Lazy purge; failure here doesn't change the outcome.
		s.db.Delete(&Session{}, "token = ?", token)
		return "", ErrUnauthorized
	}

	return session.Username, nil
}

// Destroy removes the token. Destroying an unknown or already-destroyed token
// is a no-op.
func (s *SessionStore) Destroy(token string) error {
	if err := s.db.Delete(&Session{}, "token = ?", token).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
