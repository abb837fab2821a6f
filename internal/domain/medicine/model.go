// Package medicine holds the clinic's medicine catalog: the names and unit
// prices used to cost prescriptions when invoicing.
package medicine

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no catalog entry matches a lookup.
var ErrNotFound = errors.New("medicine not found")

// Medicine maps to the medicine table.
type Medicine struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Unit      *string   `db:"unit" json:"unit,omitempty"`
	Price     float64   `db:"price" json:"price"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
