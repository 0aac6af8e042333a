package admission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wardops/wardops/internal/domain/bed"
	"github.com/wardops/wardops/internal/domain/ledger"
	"github.com/wardops/wardops/internal/domain/patient"
	"github.com/wardops/wardops/internal/platform/db"
)

// Service coordinates the admission lifecycle across the bed registry,
// the billing ledger and the patient directory. Every state-changing
// operation runs in one transaction; a failure anywhere leaves the
// bed, the admission and the invoices untouched.
type Service struct {
	admissions Repository
	beds       *bed.Service
	ledger     *ledger.Service
	patients   patient.Directory
	tx         db.Transactor
}

func NewService(admissions Repository, beds *bed.Service, lg *ledger.Service, patients patient.Directory, tx db.Transactor) *Service {
	return &Service{admissions: admissions, beds: beds, ledger: lg, patients: patients, tx: tx}
}

// CreateReservationInput carries everything needed to reserve a bed.
type CreateReservationInput struct {
	PatientID        uuid.UUID       `json:"patient_id"`
	BedID            uuid.UUID       `json:"bed_id"`
	PhysicianID      uuid.UUID       `json:"physician_id"`
	EntryDate        time.Time       `json:"entry_date"`
	PlannedDischarge *time.Time      `json:"planned_discharge,omitempty"`
	Deposit          decimal.Decimal `json:"deposit"`
	ProjectedCost    decimal.Decimal `json:"projected_cost"`
	Notes            string          `json:"notes,omitempty"`
}

func (in *CreateReservationInput) validate() error {
	if in.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if in.BedID == uuid.Nil {
		return fmt.Errorf("bed_id is required")
	}
	if in.PhysicianID == uuid.Nil {
		return fmt.Errorf("physician_id is required")
	}
	if in.EntryDate.IsZero() {
		return fmt.Errorf("entry_date is required")
	}
	if !in.Deposit.IsPositive() {
		return fmt.Errorf("deposit must be positive")
	}
	if in.ProjectedCost.IsNegative() {
		return fmt.Errorf("projected_cost must not be negative")
	}
	return nil
}

// CreateReservation reserves a bed for a patient, opens the deposit
// invoice and records the admission. The bed move is a compare-and-set
// from available, so two racing reservations for the same bed cannot
// both succeed.
func (s *Service) CreateReservation(ctx context.Context, in *CreateReservationInput) (*Admission, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var result *Admission
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		name, err := s.patients.DisplayName(ctx, in.PatientID)
		if err != nil {
			if errors.Is(err, patient.ErrNotFound) {
				return ErrPatientNotFound
			}
			return err
		}

		live, err := s.admissions.CountLive(ctx, in.PatientID, in.BedID)
		if err != nil {
			return err
		}
		if live > 0 {
			return ErrDuplicateLive
		}

		if err := s.beds.MarkReserved(ctx, in.BedID); err != nil {
			var ite *bed.InvalidTransitionError
			if errors.As(err, &ite) {
				return &BedUnavailableError{Status: ite.From}
			}
			if errors.Is(err, bed.ErrStatusConflict) {
				b, gerr := s.beds.GetBed(ctx, in.BedID)
				if gerr != nil {
					return gerr
				}
				return &BedUnavailableError{Status: b.Status}
			}
			return err
		}

		deposit, err := s.ledger.CreateInvoice(ctx, in.PatientID, []*ledger.LineItem{{
			Description: "Admission Deposit for " + name,
			Amount:      in.Deposit,
		}})
		if err != nil {
			return err
		}

		a := &Admission{
			PatientID:        in.PatientID,
			BedID:            in.BedID,
			PhysicianID:      in.PhysicianID,
			EntryDate:        in.EntryDate,
			PlannedDischarge: in.PlannedDischarge,
			Status:           StatusReserved,
			ProjectedCost:    in.ProjectedCost,
			DepositInvoiceID: deposit.ID,
			Notes:            in.Notes,
		}
		if err := s.admissions.Create(ctx, a); err != nil {
			return err
		}
		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Confirm turns a reservation into an active admission. The deposit
// invoice must be fully paid first.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*Admission, error) {
	var result *Admission
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		a, err := s.admissions.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a.Status != StatusReserved {
			return fmt.Errorf("admission is %s: %w", a.Status, ErrInvalidState)
		}

		deposit, err := s.ledger.GetInvoice(ctx, a.DepositInvoiceID)
		if err != nil {
			return err
		}
		if deposit.Status != ledger.StatusPaid {
			return &DepositUnpaidError{Remaining: deposit.Due()}
		}

		if err := s.beds.MarkOccupied(ctx, a.BedID); err != nil {
			return err
		}
		if err := s.patients.SetCareType(ctx, a.PatientID, patient.CareTypeInpatient); err != nil {
			return err
		}

		a.Status = StatusActive
		if err := s.admissions.Update(ctx, a); err != nil {
			return err
		}
		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel unwinds a reservation. The bed returns to the pool and the
// deposit invoice is voided while still pending; money already paid is
// unwound through the refund path, never silently dropped.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Admission, error) {
	var result *Admission
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		a, err := s.admissions.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a.Status != StatusReserved {
			return fmt.Errorf("admission is %s: %w", a.Status, ErrInvalidState)
		}

		if err := s.beds.MarkAvailable(ctx, a.BedID); err != nil {
			return err
		}

		deposit, err := s.ledger.GetInvoice(ctx, a.DepositInvoiceID)
		if err != nil {
			return err
		}
		if deposit.Status == ledger.StatusPending {
			if err := s.ledger.CancelInvoice(ctx, deposit.ID); err != nil {
				return err
			}
		}

		a.Status = StatusCancelled
		if err := s.admissions.Update(ctx, a); err != nil {
			return err
		}
		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Discharge closes an active admission. The balance gate is evaluated
// inside the transaction so a payment reversal cannot slip in between
// the check and the write.
func (s *Service) Discharge(ctx context.Context, id uuid.UUID, notes, outcome string) (*Admission, error) {
	var result *Admission
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		a, err := s.admissions.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a.Status != StatusActive {
			return fmt.Errorf("admission is %s: %w", a.Status, ErrInvalidState)
		}

		ok, balance, err := s.ledger.CanDischarge(ctx, a.PatientID)
		if err != nil {
			return err
		}
		if !ok {
			return &OutstandingBalanceError{Amount: balance}
		}

		if err := s.beds.MarkCleaning(ctx, a.BedID); err != nil {
			return err
		}
		if err := s.patients.SetCareType(ctx, a.PatientID, patient.CareTypeOutpatient); err != nil {
			return err
		}

		now := time.Now()
		a.Status = StatusDischarged
		a.DischargedAt = &now
		a.DischargeNotes = notes
		a.DischargeOutcome = outcome
		if err := s.admissions.Update(ctx, a); err != nil {
			return err
		}
		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return s.admissions.GetByID(ctx, id)
}

func (s *Service) ListAdmissions(ctx context.Context, limit, offset int) ([]*Admission, int, error) {
	return s.admissions.List(ctx, limit, offset)
}

func (s *Service) ListAdmissionsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error) {
	return s.admissions.ListByPatient(ctx, patientID, limit, offset)
}
