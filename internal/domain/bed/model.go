package bed

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the sanitation-aware occupancy state of a bed.
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusOccupied  Status = "occupied"
	StatusCleaning  Status = "cleaning"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusOccupied, StatusCleaning:
		return true
	}
	return false
}

// RoomCategory drives the per-day rate tier.
type RoomCategory string

const (
	CategoryGeneral     RoomCategory = "general"
	CategorySemiPrivate RoomCategory = "semi-private"
	CategoryPrivate     RoomCategory = "private"
	CategoryICU         RoomCategory = "icu"
)

func (c RoomCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategorySemiPrivate, CategoryPrivate, CategoryICU:
		return true
	}
	return false
}

// Bed maps to the beds table.
type Bed struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	Room       string          `db:"room" json:"room"`
	Category   RoomCategory    `db:"category" json:"category"`
	CostPerDay decimal.Decimal `db:"cost_per_day" json:"cost_per_day"`
	Status     Status          `db:"status" json:"status"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// legalFrom lists the states a bed may transition FROM for each target
// state. A bed in cleaning cannot be reserved until sanitation is
// acknowledged.
var legalFrom = map[Status][]Status{
	StatusReserved:  {StatusAvailable},
	StatusOccupied:  {StatusReserved},
	StatusCleaning:  {StatusOccupied},
	StatusAvailable: {StatusReserved, StatusCleaning},
}
