package admission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the admission lifecycle state. discharged and cancelled
// are terminal; reserved and active count as live.
type Status string

const (
	StatusReserved   Status = "reserved"
	StatusActive     Status = "active"
	StatusDischarged Status = "discharged"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusReserved, StatusActive, StatusDischarged, StatusCancelled:
		return true
	}
	return false
}

// Live reports whether the admission still holds its bed.
func (s Status) Live() bool {
	return s == StatusReserved || s == StatusActive
}

// Admission maps to the admissions table. Each admission links the
// patient, the bed it holds and the deposit invoice opened for it.
type Admission struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	PatientID        uuid.UUID       `db:"patient_id" json:"patient_id"`
	BedID            uuid.UUID       `db:"bed_id" json:"bed_id"`
	PhysicianID      uuid.UUID       `db:"physician_id" json:"physician_id"`
	EntryDate        time.Time       `db:"entry_date" json:"entry_date"`
	PlannedDischarge *time.Time      `db:"planned_discharge" json:"planned_discharge,omitempty"`
	DischargedAt     *time.Time      `db:"discharged_at" json:"discharged_at,omitempty"`
	Status           Status          `db:"status" json:"status"`
	ProjectedCost    decimal.Decimal `db:"projected_cost" json:"projected_cost"`
	DepositInvoiceID uuid.UUID       `db:"deposit_invoice_id" json:"deposit_invoice_id"`
	Notes            string          `db:"notes" json:"notes,omitempty"`
	DischargeNotes   string          `db:"discharge_notes" json:"discharge_notes,omitempty"`
	DischargeOutcome string          `db:"discharge_outcome" json:"discharge_outcome,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}
