package repository

import (
	"context"

	"invoice-dashboard-backend/internal/models"

	"gorm.io/gorm"
)

const usersColumns = `
	id UUID DEFAULT uuid_generate_v4() PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
`

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateTable(ctx context.Context) error {
	return createTable(ctx, r.db, "users", usersColumns)
}

// InsertMissing skips users whose id or email already exists.
func (r *UserRepository) InsertMissing(ctx context.Context, users []models.User) (int64, error) {
	return insertMissing(ctx, r.db, users)
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, &models.User{})
}
