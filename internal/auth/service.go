package auth

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Service registers credentials and verifies login attempts. It never stores
// or logs a plaintext password.
type Service struct {
	store CredentialStore
	log   zerolog.Logger
}

func NewService(store CredentialStore, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Register hashes the password and persists a new user. A taken username
// fails with ErrDuplicateUsername and leaves the existing user untouched.
func (s *Service) Register(username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}

	_, err := s.store.Find(username)
	if err == nil {
		return ErrDuplicateUsername
	}
	if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.Create(User{Username: username, HashedPassword: string(hashed)}); err != nil {
		return err
	}

	s.log.Info().Str("username", username).Msg("user registered")
	return nil
}

// Authenticate verifies a username/password pair and returns the username on
// success. Unknown user and wrong password produce the same error.
func (s *Service) Authenticate(username, password string) (string, error) {
	user, err := s.store.Find(username)
	if errors.Is(err, ErrUserNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return user.Username, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(username, currentPassword, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidCredentials
	}

	if _, err := s.Authenticate(username, currentPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.UpdatePassword(username, string(hashed)); err != nil {
		return err
	}

	s.log.Info().Str("username", username).Msg("password updated")
	return nil
}
