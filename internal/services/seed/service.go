package seed

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"invoice-dashboard-backend/internal/fixtures"
	"invoice-dashboard-backend/internal/metrics"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const SuccessMessage = "Database seeded successfully"

// Connector hands out the database handle. It must fail without touching
// the database when no connection string is configured.
type Connector interface {
	DB(ctx context.Context) (*gorm.DB, error)
}

type TableResult struct {
	Table    string `json:"table"`
	Fixtures int    `json:"fixtures"`
	Inserted int64  `json:"inserted"`
}

// Result describes one successful run. Inserted excludes rows skipped
// because their key already existed.
type Result struct {
	Users     TableResult `json:"users"`
	Customers TableResult `json:"customers"`
	Invoices  TableResult `json:"invoices"`
	Revenue   TableResult `json:"revenue"`
}

func (r *Result) inserted() map[string]int64 {
	if r == nil {
		return nil
	}
	return map[string]int64{
		r.Users.Table:     r.Users.Inserted,
		r.Customers.Table: r.Customers.Inserted,
		r.Invoices.Table:  r.Invoices.Inserted,
		r.Revenue.Table:   r.Revenue.Inserted,
	}
}

type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

type Status struct {
	Tables []TableCount `json:"tables"`
}

type Service struct {
	conn       Connector
	set        *fixtures.Set
	bcryptCost int
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// New returns a seed service. m may be nil.
func New(conn Connector, set *fixtures.Set, bcryptCost int, log *slog.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{conn: conn, set: set, bcryptCost: bcryptCost, log: log, metrics: m}
}

// Run creates the four tables if absent and inserts the fixture rows that are
// not present yet, all inside one transaction. The uuid-ossp extension is
// created first, outside the transaction.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result, err := s.run(ctx)
	s.metrics.ObserveSeed(err, time.Since(start), result.inserted())
	return result, err
}

func (s *Service) run(ctx context.Context) (*Result, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}

	if err := repository.EnsureUUIDExtension(ctx, db); err != nil {
		return nil, fmt.Errorf("create uuid extension: %w", err)
	}

	result := &Result{
		Users:     TableResult{Table: "users", Fixtures: len(rows.users)},
		Customers: TableResult{Table: "customers", Fixtures: len(rows.customers)},
		Invoices:  TableResult{Table: "invoices", Fixtures: len(rows.invoices)},
		Revenue:   TableResult{Table: "revenue", Fixtures: len(rows.revenue)},
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		repos := repository.New(tx)
		var err error
		if result.Users.Inserted, err = seedTable[models.User](ctx, "users", repos.Users, rows.users); err != nil {
			return err
		}
		if result.Customers.Inserted, err = seedTable[models.Customer](ctx, "customers", repos.Customers, rows.customers); err != nil {
			return err
		}
		if result.Invoices.Inserted, err = seedTable[models.Invoice](ctx, "invoices", repos.Invoices, rows.invoices); err != nil {
			return err
		}
		if result.Revenue.Inserted, err = seedTable[models.Revenue](ctx, "revenue", repos.Revenue, rows.revenue); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("database seeded",
		"users", result.Users.Inserted,
		"customers", result.Customers.Inserted,
		"invoices", result.Invoices.Inserted,
		"revenue", result.Revenue.Inserted,
	)
	return result, nil
}

// Status reports the current row count of each seeded table.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	repos := repository.New(db)

	counters := []struct {
		table string
		count func(context.Context) (int64, error)
	}{
		{"users", repos.Users.Count},
		{"customers", repos.Customers.Count},
		{"invoices", repos.Invoices.Count},
		{"revenue", repos.Revenue.Count},
	}

	status := &Status{Tables: make([]TableCount, 0, len(counters))}
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
		status.Tables = append(status.Tables, TableCount{Table: c.table, Rows: n})
	}
	return status, nil
}

type table[T any] interface {
	CreateTable(ctx context.Context) error
	InsertMissing(ctx context.Context, rows []T) (int64, error)
}

func seedTable[T any](ctx context.Context, name string, t table[T], rows []T) (int64, error) {
	if err := t.CreateTable(ctx); err != nil {
		return 0, fmt.Errorf("create table %s: %w", name, err)
	}
	n, err := t.InsertMissing(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", name, err)
	}
	return n, nil
}

type preparedRows struct {
	users     []models.User
	customers []models.Customer
	invoices  []models.Invoice
	revenue   []models.Revenue
}

// prepare turns fixtures into models. Passwords are hashed here so the
// transaction only holds database work.
func (s *Service) prepare(ctx context.Context) (*preparedRows, error) {
	users, err := s.hashUsers(ctx)
	if err != nil {
		return nil, err
	}

	rows := &preparedRows{users: users}
	for _, c := range s.set.Customers {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			return nil, fmt.Errorf("customer %s: %w", c.ID, err)
		}
		rows.customers = append(rows.customers, models.Customer{
			ID:       id,
			Name:     c.Name,
			Email:    c.Email,
			ImageURL: c.ImageURL,
		})
	}
	for _, inv := range s.set.Invoices {
		id, err := inv.ResolveID()
		if err != nil {
			return nil, err
		}
		customerID, err := uuid.Parse(inv.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invoice customer %s: %w", inv.CustomerID, err)
		}
		date, err := time.Parse(time.DateOnly, inv.Date)
		if err != nil {
			return nil, fmt.Errorf("invoice date %s: %w", inv.Date, err)
		}
		rows.invoices = append(rows.invoices, models.Invoice{
			ID:         id,
			CustomerID: customerID,
			Amount:     inv.Amount,
			Status:     inv.Status,
			Date:       datatypes.Date(date),
		})
	}
	for _, r := range s.set.Revenue {
		rows.revenue = append(rows.revenue, models.Revenue{Month: r.Month, Revenue: r.Revenue})
	}
	return rows, nil
}

func (s *Service) hashUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, len(s.set.Users))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, u := range s.set.Users {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			id, err := uuid.Parse(u.ID)
			if err != nil {
				return fmt.Errorf("user %s: %w", u.ID, err)
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.bcryptCost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", u.Email, err)
			}
			users[i] = models.User{ID: id, Name: u.Name, Email: u.Email, Password: string(hash)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return users, nil
}
