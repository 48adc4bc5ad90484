package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// CredentialStore persists username -> password-hash mappings. The interface
// exists so the service can be tested without a database.
type CredentialStore interface {
	Find(username string) (User, error)
	Create(user User) error
	UpdatePassword(username, hashedPassword string) error
}

// GormCredentialStore backs CredentialStore with the users table.
type GormCredentialStore struct {
	db *gorm.DB
}

func NewGormCredentialStore(db *gorm.DB) *GormCredentialStore {
	return &GormCredentialStore{db: db}
}

func (s *GormCredentialStore) Find(username string) (User, error) {
	var user User
	err := s.db.First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *GormCredentialStore) Create(user User) error {
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormCredentialStore) UpdatePassword(username, hashedPassword string) error {
	res := s.db.Model(&User{}).Where("username = ?", username).Update("password_hash", hashedPassword)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
