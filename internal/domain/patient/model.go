package patient

import (
	"time"

	"github.com/google/uuid"
)

// CareType classifies how a patient is currently receiving care.
type CareType string

const (
	CareTypeInpatient  CareType = "inpatient"
	CareTypeOutpatient CareType = "outpatient"
)

func (t CareType) Valid() bool {
	return t == CareTypeInpatient || t == CareTypeOutpatient
}

// Patient maps to the patients table. Admissions only need enough of
// the record to label invoices and flip the care type; full demographic
// management lives elsewhere.
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	CareType  CareType  `db:"care_type" json:"care_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Patient) DisplayName() string {
	return p.FirstName + " " + p.LastName
}
