package repository

import (
	"context"

	"invoice-dashboard-backend/internal/models"

	"gorm.io/gorm"
)

const revenueColumns = `
	month VARCHAR(4) NOT NULL UNIQUE,
	revenue INT NOT NULL
`

type RevenueRepository struct {
	db *gorm.DB
}

func NewRevenueRepository(db *gorm.DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

func (r *RevenueRepository) CreateTable(ctx context.Context) error {
	return createTable(ctx, r.db, "revenue", revenueColumns)
}

// InsertMissing skips months that already have a row.
func (r *RevenueRepository) InsertMissing(ctx context.Context, rows []models.Revenue) (int64, error) {
	return insertMissing(ctx, r.db, rows)
}

func (r *RevenueRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, &models.Revenue{})
}
