package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// Invoice amounts are stored in minor currency units (cents).
type Invoice struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID      `gorm:"type:uuid;column:customer_id" json:"customer_id"`
	Amount     int            `json:"amount"`
	Status     string         `gorm:"size:255" json:"status"`
	Date       datatypes.Date `gorm:"type:date" json:"date"`
}

func (Invoice) TableName() string { return "invoices" }
