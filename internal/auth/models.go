package auth

import "time"

type User struct {
	Username       string `gorm:"primaryKey" json:"username"`
	Password       string `gorm:"-" json:"password"`
	HashedPassword string `gorm:"column:password_hash;not null" json:"-"`
}

type Session struct {
	Token     string    `gorm:"primaryKey" json:"-"`
	Username  string    `gorm:"not null;index" json:"-"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (User) TableName() string    { return "users" }
func (Session) TableName() string { return "sessions" }
