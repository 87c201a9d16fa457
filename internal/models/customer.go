package models

import "github.com/google/uuid"

type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:255" json:"name"`
	Email    string    `gorm:"size:255" json:"email"`
	ImageURL string    `gorm:"size:255;column:image_url" json:"image_url"`
}

func (Customer) TableName() string { return "customers" }
