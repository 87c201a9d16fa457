package seed

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"invoice-dashboard-backend/internal/database"
	"invoice-dashboard-backend/internal/fixtures"
	"invoice-dashboard-backend/internal/metrics"
	"invoice-dashboard-backend/internal/testhelpers"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptOf matches a stored password that is a bcrypt hash of plain.
type bcryptOf string

func (p bcryptOf) Match(v driver.Value) bool {
	stored, ok := v.(string)
	if !ok || stored == string(p) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(p)) == nil
}

type SeedServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	mock    sqlmock.Sqlmock
	set     *fixtures.Set
	service *Service
	ctx     context.Context
}

func (suite *SeedServiceTestSuite) SetupTest() {
	suite.db, suite.mock = testhelpers.NewMockDB(suite.T())

	set, err := fixtures.Default()
	suite.Require().NoError(err)
	suite.set = set

	conn := database.NewConnector("postgres://test/db", func(string) (*gorm.DB, error) {
		return suite.db, nil
	})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.service = New(conn, set, bcrypt.MinCost, log, metrics.New(prometheus.NewRegistry()))
	suite.ctx = context.Background()
}

func (suite *SeedServiceTestSuite) expectExtension() {
	suite.mock.ExpectExec(regexp.QuoteMeta(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func (suite *SeedServiceTestSuite) expectTable(name string, affected int64) {
	suite.mock.ExpectExec(`CREATE TABLE IF NOT EXISTS ` + name + ` \(`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	suite.mock.ExpectExec(`INSERT INTO "` + name + `" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, affected))
}

func (suite *SeedServiceTestSuite) TestRun_EmptyDatabase() {
	user := suite.set.Users[0]

	suite.expectExtension()
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users \(`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	suite.mock.ExpectExec(`INSERT INTO "users" .* ON CONFLICT DO NOTHING`).
		WithArgs(uuid.MustParse(user.ID), user.Name, user.Email, bcryptOf(user.Password)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.expectTable("customers", 6)
	suite.expectTable("invoices", 13)
	suite.expectTable("revenue", 12)
	suite.mock.ExpectCommit()

	result, err := suite.service.Run(suite.ctx)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), TableResult{Table: "users", Fixtures: 1, Inserted: 1}, result.Users)
	assert.Equal(suite.T(), TableResult{Table: "customers", Fixtures: 6, Inserted: 6}, result.Customers)
	assert.Equal(suite.T(), TableResult{Table: "invoices", Fixtures: 13, Inserted: 13}, result.Invoices)
	assert.Equal(suite.T(), TableResult{Table: "revenue", Fixtures: 12, Inserted: 12}, result.Revenue)
}

func (suite *SeedServiceTestSuite) TestRun_AlreadySeeded() {
	suite.expectExtension()
	suite.mock.ExpectBegin()
	suite.expectTable("users", 0)
	suite.expectTable("customers", 0)
	suite.expectTable("invoices", 0)
	suite.expectTable("revenue", 0)
	suite.mock.ExpectCommit()

	result, err := suite.service.Run(suite.ctx)

	suite.Require().NoError(err)
	assert.Zero(suite.T(), result.Users.Inserted)
	assert.Zero(suite.T(), result.Customers.Inserted)
	assert.Zero(suite.T(), result.Invoices.Inserted)
	assert.Zero(suite.T(), result.Revenue.Inserted)
	assert.Equal(suite.T(), 13, result.Invoices.Fixtures)
}

func (suite *SeedServiceTestSuite) TestRun_RestoresDeletedUserOnly() {
	suite.expectExtension()
	suite.mock.ExpectBegin()
	suite.expectTable("users", 1)
	suite.expectTable("customers", 0)
	suite.expectTable("invoices", 0)
	suite.expectTable("revenue", 0)
	suite.mock.ExpectCommit()

	result, err := suite.service.Run(suite.ctx)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), result.Users.Inserted)
	assert.Zero(suite.T(), result.Customers.Inserted+result.Invoices.Inserted+result.Revenue.Inserted)
}

func (suite *SeedServiceTestSuite) TestRun_InsertFailureRollsBack() {
	suite.expectExtension()
	suite.mock.ExpectBegin()
	suite.expectTable("users", 1)
	suite.expectTable("customers", 6)
	suite.mock.ExpectExec(`CREATE TABLE IF NOT EXISTS invoices \(`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	suite.mock.ExpectExec(`INSERT INTO "invoices"`).
		WillReturnError(&pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})
	suite.mock.ExpectRollback()

	result, err := suite.service.Run(suite.ctx)

	suite.Require().Error(err)
	assert.Nil(suite.T(), result)
	assert.Contains(suite.T(), err.Error(), "seed invoices")

	var pgErr *pgconn.PgError
	suite.Require().True(errors.As(err, &pgErr))
	assert.Equal(suite.T(), "22P02", pgErr.Code)
}

func (suite *SeedServiceTestSuite) TestRun_CreateTableFailureRollsBack() {
	suite.expectExtension()
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users \(`).
		WillReturnError(errors.New("permission denied for schema public"))
	suite.mock.ExpectRollback()

	_, err := suite.service.Run(suite.ctx)

	suite.Require().Error(err)
	assert.Contains(suite.T(), err.Error(), "create table users")
}

func (suite *SeedServiceTestSuite) TestRun_ExtensionFailureSkipsTransaction() {
	suite.mock.ExpectExec(regexp.QuoteMeta(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`)).
		WillReturnError(errors.New("extension \"uuid-ossp\" is not available"))

	_, err := suite.service.Run(suite.ctx)

	suite.Require().Error(err)
	assert.Contains(suite.T(), err.Error(), "create uuid extension")
}

func (suite *SeedServiceTestSuite) TestStatus() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "customers"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "invoices"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "revenue"`)).
		WillReturnError(&pgconn.PgError{Code: "42P01"})

	status, err := suite.service.Status(suite.ctx)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), []TableCount{
		{Table: "users", Rows: 1},
		{Table: "customers", Rows: 6},
		{Table: "invoices", Rows: 13},
		{Table: "revenue", Rows: 0},
	}, status.Tables)
}

func TestSeedServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SeedServiceTestSuite))
}

func TestRun_MissingDatabaseURL(t *testing.T) {
	set, err := fixtures.Default()
	require.NoError(t, err)

	conn := database.NewConnector("", func(string) (*gorm.DB, error) {
		t.Fatal("database must not be opened")
		return nil, nil
	})
	svc := New(conn, set, bcrypt.MinCost, nil, nil)

	result, err := svc.Run(context.Background())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, database.ErrMissingDatabaseURL)

	_, err = svc.Status(context.Background())
	assert.ErrorIs(t, err, database.ErrMissingDatabaseURL)
}

func TestPrepare_HashesPasswords(t *testing.T) {
	set := &fixtures.Set{
		Users: []fixtures.User{
			{ID: uuid.NewString(), Name: "A", Email: "a@example.com", Password: "secret-a"},
			{ID: uuid.NewString(), Name: "B", Email: "b@example.com", Password: "secret-b"},
			{ID: uuid.NewString(), Name: "C", Email: "c@example.com", Password: "secret-c"},
		},
		Invoices: []fixtures.Invoice{
			{CustomerID: uuid.NewString(), Amount: 500, Status: "paid", Date: "2023-08-19"},
		},
	}
	svc := New(nil, set, bcrypt.MinCost, nil, nil)

	rows, err := svc.prepare(context.Background())
	require.NoError(t, err)
	require.Len(t, rows.users, 3)

	for i, u := range rows.users {
		assert.Equal(t, set.Users[i].Email, u.Email)
		assert.NotEqual(t, set.Users[i].Password, u.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(set.Users[i].Password)))
	}

	wantID, err := set.Invoices[0].ResolveID()
	require.NoError(t, err)
	require.Len(t, rows.invoices, 1)
	assert.Equal(t, wantID, rows.invoices[0].ID)
	assert.Empty(t, rows.customers)
}
