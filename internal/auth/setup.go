package auth

import "gorm.io/gorm"

// Init creates or updates the users and sessions tables.
func Init(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Session{})
}
