package repository

import (
	"context"

	"invoice-dashboard-backend/internal/models"

	"gorm.io/gorm"
)

const customersColumns = `
	id UUID DEFAULT uuid_generate_v4() PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	image_url VARCHAR(255) NOT NULL
`

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) CreateTable(ctx context.Context) error {
	return createTable(ctx, r.db, "customers", customersColumns)
}

func (r *CustomerRepository) InsertMissing(ctx context.Context, customers []models.Customer) (int64, error) {
	return insertMissing(ctx, r.db, customers)
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, &models.Customer{})
}
