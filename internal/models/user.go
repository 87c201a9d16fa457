package models

import "github.com/google/uuid"

// User.Password always holds a bcrypt hash.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:255" json:"name"`
	Email    string    `gorm:"uniqueIndex" json:"email"`
	Password string    `json:"-"`
}

func (User) TableName() string { return "users" }
