// Package fixtures holds the demo dataset written by the seed operation.
// The default set is embedded into the binary; a YAML file of the same shape
// can replace it.
package fixtures

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var embedded []byte

// invoiceNamespace scopes the name-based UUIDs derived for invoices.
var invoiceNamespace = uuid.MustParse("6f1f7c2e-4a7b-5b0e-9c59-1d5f0a2b8e31")

var validate = validator.New(validator.WithRequiredStructEnabled())

type User struct {
	ID       string `yaml:"id" validate:"required,uuid"`
	Name     string `yaml:"name" validate:"required,max=255"`
	Email    string `yaml:"email" validate:"required,email"`
	Password string `yaml:"password" validate:"required"`
}

type Customer struct {
	ID       string `yaml:"id" validate:"required,uuid"`
	Name     string `yaml:"name" validate:"required,max=255"`
	Email    string `yaml:"email" validate:"required,email,max=255"`
	ImageURL string `yaml:"image_url" validate:"required,max=255"`
}

// Invoice.ID is optional; see ResolveID.
type Invoice struct {
	ID         string `yaml:"id,omitempty" validate:"omitempty,uuid"`
	CustomerID string `yaml:"customer_id" validate:"required,uuid"`
	Amount     int    `yaml:"amount" validate:"gte=0"`
	Status     string `yaml:"status" validate:"required,oneof=pending paid"`
	Date       string `yaml:"date" validate:"required,datetime=2006-01-02"`
}

type Revenue struct {
	Month   string `yaml:"month" validate:"required,max=4"`
	Revenue int    `yaml:"revenue" validate:"gte=0"`
}

// Set is one complete fixture dataset.
type Set struct {
	Users     []User     `yaml:"users" validate:"dive"`
	Customers []Customer `yaml:"customers" validate:"dive"`
	Invoices  []Invoice  `yaml:"invoices" validate:"dive"`
	Revenue   []Revenue  `yaml:"revenue" validate:"dive"`
}

// Default returns the embedded dataset.
func Default() (*Set, error) {
	return Parse(bytes.NewReader(embedded))
}

// Load reads the dataset at path, or the embedded one when path is empty.
func Load(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a YAML dataset. Unknown keys are rejected.
func Parse(r io.Reader) (*Set, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var set Set
	if err := dec.Decode(&set); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decode fixtures: empty document")
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// Validate checks every row and the uniqueness of keys the tables enforce.
func (s *Set) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid fixtures: %w", err)
	}

	userIDs := map[uuid.UUID]bool{}
	emails := map[string]bool{}
	for i, u := range s.Users {
		id := uuid.MustParse(u.ID)
		if userIDs[id] {
			return fmt.Errorf("invalid fixtures: users[%d]: duplicate id %s", i, id)
		}
		userIDs[id] = true
		if emails[u.Email] {
			return fmt.Errorf("invalid fixtures: users[%d]: duplicate email %s", i, u.Email)
		}
		emails[u.Email] = true
	}

	customerIDs := map[uuid.UUID]bool{}
	for i, c := range s.Customers {
		id := uuid.MustParse(c.ID)
		if customerIDs[id] {
			return fmt.Errorf("invalid fixtures: customers[%d]: duplicate id %s", i, id)
		}
		customerIDs[id] = true
	}

	invoiceIDs := map[uuid.UUID]bool{}
	for i, inv := range s.Invoices {
		id, err := inv.ResolveID()
		if err != nil {
			return fmt.Errorf("invalid fixtures: invoices[%d]: %w", i, err)
		}
		if invoiceIDs[id] {
			return fmt.Errorf("invalid fixtures: invoices[%d]: duplicate invoice %s", i, id)
		}
		invoiceIDs[id] = true
	}

	months := map[string]bool{}
	for i, r := range s.Revenue {
		if months[r.Month] {
			return fmt.Errorf("invalid fixtures: revenue[%d]: duplicate month %s", i, r.Month)
		}
		months[r.Month] = true
	}
	return nil
}

// ResolveID returns the explicit id when set, otherwise a name-based UUID of
// the invoice contents. The same invoice always maps to the same id.
func (inv Invoice) ResolveID() (uuid.UUID, error) {
	if inv.ID != "" {
		return uuid.Parse(inv.ID)
	}
	customerID, err := uuid.Parse(inv.CustomerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("customer id: %w", err)
	}
	key := strings.Join([]string{
		customerID.String(),
		strconv.Itoa(inv.Amount),
		inv.Status,
		inv.Date,
	}, "|")
	return uuid.NewSHA1(invoiceNamespace, []byte(key)), nil
}
