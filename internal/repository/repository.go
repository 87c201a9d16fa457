package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLSTATE 42P01: relation does not exist.
const undefinedTable = "42P01"

// EnsureUUIDExtension installs uuid-ossp, which backs the uuid_generate_v4()
// column defaults.
func EnsureUUIDExtension(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error
}

func createTable(ctx context.Context, db *gorm.DB, name, columns string) error {
	return db.WithContext(ctx).Exec("CREATE TABLE IF NOT EXISTS " + name + " (" + columns + ")").Error
}

// insertMissing writes rows in one statement, skipping any row that collides
// with an existing primary or unique key. It returns the number of rows
// actually written.
func insertMissing[T any](ctx context.Context, db *gorm.DB, rows []T) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	return result.RowsAffected, result.Error
}

// countRows reports 0 for a table that has not been created yet.
func countRows(ctx context.Context, db *gorm.DB, model any) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(model).Count(&n).Error
	if IsUndefinedTable(err) {
		return 0, nil
	}
	return n, err
}

func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTable
}

// Repositories groups the per-table repositories over one handle, which may
// be a transaction.
type Repositories struct {
	Users     *UserRepository
	Customers *CustomerRepository
	Invoices  *InvoiceRepository
	Revenue   *RevenueRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db),
		Customers: NewCustomerRepository(db),
		Invoices:  NewInvoiceRepository(db),
		Revenue:   NewRevenueRepository(db),
	}
}
