package repository

import (
	"context"

	"invoice-dashboard-backend/internal/models"

	"gorm.io/gorm"
)

// customer_id is a plain column; no foreign key is declared.
const invoicesColumns = `
	id UUID DEFAULT uuid_generate_v4() PRIMARY KEY,
	customer_id UUID NOT NULL,
	amount INT NOT NULL,
	status VARCHAR(255) NOT NULL,
	date DATE NOT NULL
`

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) CreateTable(ctx context.Context) error {
	return createTable(ctx, r.db, "invoices", invoicesColumns)
}

func (r *InvoiceRepository) InsertMissing(ctx context.Context, invoices []models.Invoice) (int64, error) {
	return insertMissing(ctx, r.db, invoices)
}

func (r *InvoiceRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, &models.Invoice{})
}
