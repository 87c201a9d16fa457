package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"invoice-dashboard-backend/internal/services/seed"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

// Seeder is the part of the seed service the handlers use.
type Seeder interface {
	Run(ctx context.Context) (*seed.Result, error)
	Status(ctx context.Context) (*seed.Status, error)
}

type SeedHandler struct {
	service Seeder
	log     *slog.Logger
}

func NewSeedHandler(s Seeder, log *slog.Logger) *SeedHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SeedHandler{service: s, log: log}
}

// Seed populates the database with the demo dataset. Safe to call repeatedly.
func (h *SeedHandler) Seed(c *gin.Context) {
	result, err := h.service.Run(c.Request.Context())
	if err != nil {
		h.log.Error("error seeding database", "error", err)
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": seed.SuccessMessage, "result": result})
}

// Status reports row counts of the seeded tables.
func (h *SeedHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context())
	if err != nil {
		h.log.Error("error reading seed status", "error", err)
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// fail answers 500 with the error message and, for PostgreSQL errors, the
// SQLSTATE code.
func (h *SeedHandler) fail(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code != "" {
		body["code"] = pgErr.Code
	}
	c.JSON(http.StatusInternalServerError, body)
}
