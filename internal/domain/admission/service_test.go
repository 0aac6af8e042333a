package admission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wardops/wardops/internal/domain/bed"
	"github.com/wardops/wardops/internal/domain/ledger"
	"github.com/wardops/wardops/internal/domain/patient"
	"github.com/wardops/wardops/internal/platform/db"
)

// -- Mock admission repository --

type mockRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*Admission
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Admission)}
}

func (m *mockRepo) Create(_ context.Context, a *Admission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Admission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return m.GetByID(ctx, id)
}

func (m *mockRepo) Update(_ context.Context, a *Admission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[a.ID]; !ok {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now()
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Admission, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Admission
	for _, a := range m.items {
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Admission
	for _, a := range m.items {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ActiveByBed(_ context.Context, bedID uuid.UUID) (*Admission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.BedID == bedID && a.Status.Live() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) CountLive(_ context.Context, patientID, bedID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, a := range m.items {
		if a.PatientID == patientID && a.BedID == bedID && a.Status.Live() {
			count++
		}
	}
	return count, nil
}

// -- Mock bed repository --

type mockBedRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*bed.Bed
}

func newMockBedRepo() *mockBedRepo {
	return &mockBedRepo{items: make(map[uuid.UUID]*bed.Bed)}
}

func (m *mockBedRepo) Create(_ context.Context, b *bed.Bed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = uuid.New()
	if b.Status == "" {
		b.Status = bed.StatusAvailable
	}
	m.items[b.ID] = b
	return nil
}

func (m *mockBedRepo) GetByID(_ context.Context, id uuid.UUID) (*bed.Bed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return nil, bed.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBedRepo) List(_ context.Context, limit, offset int) ([]*bed.Bed, int, error) {
	return nil, 0, nil
}

func (m *mockBedRepo) ListByStatus(_ context.Context, status bed.Status, limit, offset int) ([]*bed.Bed, int, error) {
	return nil, 0, nil
}

func (m *mockBedRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to bed.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return bed.ErrNotFound
	}
	if b.Status != from {
		return bed.ErrStatusConflict
	}
	b.Status = to
	return nil
}

// -- Mock ledger repository --

type mockLedgerRepo struct {
	mu      sync.Mutex
	items   map[uuid.UUID]*ledger.Invoice
	lines   map[uuid.UUID][]*ledger.LineItem
	counter int64
}

func newMockLedgerRepo() *mockLedgerRepo {
	return &mockLedgerRepo{
		items: make(map[uuid.UUID]*ledger.Invoice),
		lines: make(map[uuid.UUID][]*ledger.LineItem),
	}
}

func (m *mockLedgerRepo) Create(_ context.Context, inv *ledger.Invoice, items []*ledger.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.ID = uuid.New()
	inv.Number = fmt.Sprintf("INV-%06d", atomic.AddInt64(&m.counter, 1))
	inv.IssuedAt = time.Now()
	m.items[inv.ID] = inv
	for i, item := range items {
		item.ID = uuid.New()
		item.InvoiceID = inv.ID
		item.Sequence = i + 1
	}
	m.lines[inv.ID] = items
	return nil
}

func (m *mockLedgerRepo) GetByID(_ context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.items[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *mockLedgerRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	return m.GetByID(ctx, id)
}

func (m *mockLedgerRepo) GetByNumber(_ context.Context, number string) (*ledger.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.items {
		if inv.Number == number {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (m *mockLedgerRepo) GetItems(_ context.Context, invoiceID uuid.UUID) ([]*ledger.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lines[invoiceID], nil
}

func (m *mockLedgerRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*ledger.Invoice, int, error) {
	return nil, 0, nil
}

func (m *mockLedgerRepo) ListOpenByPatient(_ context.Context, patientID uuid.UUID) ([]*ledger.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*ledger.Invoice
	for _, inv := range m.items {
		if inv.PatientID == patientID && (inv.Status == ledger.StatusPending || inv.Status == ledger.StatusPartial) {
			cp := *inv
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *mockLedgerRepo) UpdatePayment(_ context.Context, id uuid.UUID, paid decimal.Decimal, status ledger.InvoiceStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.items[id]
	if !ok {
		return ledger.ErrNotFound
	}
	inv.Paid = paid
	inv.Status = status
	return nil
}

func (m *mockLedgerRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to ledger.InvoiceStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.items[id]
	if !ok {
		return ledger.ErrNotFound
	}
	if inv.Status != from {
		return ledger.ErrStatusConflict
	}
	inv.Status = to
	return nil
}

func (m *mockLedgerRepo) OutstandingBalance(_ context.Context, patientID uuid.UUID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance := decimal.Zero
	for _, inv := range m.items {
		if inv.PatientID == patientID && inv.Status != ledger.StatusCancelled && inv.Status != ledger.StatusRefunded {
			balance = balance.Add(inv.Total.Sub(inv.Paid))
		}
	}
	return balance, nil
}

// -- Mock patient directory --

type mockDirectory struct {
	mu        sync.Mutex
	names     map[uuid.UUID]string
	careTypes map[uuid.UUID]patient.CareType
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		names:     make(map[uuid.UUID]string),
		careTypes: make(map[uuid.UUID]patient.CareType),
	}
}

func (m *mockDirectory) DisplayName(_ context.Context, id uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.names[id]
	if !ok {
		return "", patient.ErrNotFound
	}
	return name, nil
}

func (m *mockDirectory) SetCareType(_ context.Context, id uuid.UUID, careType patient.CareType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.names[id]; !ok {
		return patient.ErrNotFound
	}
	m.careTypes[id] = careType
	return nil
}

// -- Fixture --

type fixture struct {
	svc        *Service
	admissions *mockRepo
	beds       *mockBedRepo
	invoices   *mockLedgerRepo
	patients   *mockDirectory
	ledgerSvc  *ledger.Service
}

func newFixture() *fixture {
	admissions := newMockRepo()
	beds := newMockBedRepo()
	invoices := newMockLedgerRepo()
	patients := newMockDirectory()
	bedSvc := bed.NewService(beds)
	ledgerSvc := ledger.NewService(invoices, db.NoopTransactor{})
	svc := NewService(admissions, bedSvc, ledgerSvc, patients, db.NoopTransactor{})
	return &fixture{
		svc:        svc,
		admissions: admissions,
		beds:       beds,
		invoices:   invoices,
		patients:   patients,
		ledgerSvc:  ledgerSvc,
	}
}

func (f *fixture) seedPatient(t *testing.T, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.patients.mu.Lock()
	f.patients.names[id] = name
	f.patients.mu.Unlock()
	return id
}

func (f *fixture) seedBed(t *testing.T, status bed.Status) *bed.Bed {
	t.Helper()
	b := &bed.Bed{Room: "12-B", Category: bed.CategoryGeneral, CostPerDay: decimal.NewFromInt(2000), Status: status}
	if err := f.beds.Create(context.Background(), b); err != nil {
		t.Fatalf("seed bed: %v", err)
	}
	return b
}

func (f *fixture) reserve(t *testing.T, patientID, bedID uuid.UUID) *Admission {
	t.Helper()
	a, err := f.svc.CreateReservation(context.Background(), &CreateReservationInput{
		PatientID:   patientID,
		BedID:       bedID,
		PhysicianID: uuid.New(),
		EntryDate:   time.Now(),
		Deposit:     decimal.NewFromInt(5000),
	})
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return a
}

func (f *fixture) payDeposit(t *testing.T, a *Admission) {
	t.Helper()
	inv, err := f.ledgerSvc.GetInvoice(context.Background(), a.DepositInvoiceID)
	if err != nil {
		t.Fatalf("get deposit: %v", err)
	}
	if _, err := f.ledgerSvc.RecordPayment(context.Background(), inv.ID, inv.Due()); err != nil {
		t.Fatalf("pay deposit: %v", err)
	}
}

// -- Tests --

func TestCreateReservation(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")
	b := f.seedBed(t, bed.StatusAvailable)

	a := f.reserve(t, patientID, b.ID)

	if a.Status != StatusReserved {
		t.Errorf("expected reserved, got %s", a.Status)
	}
	got, _ := f.beds.GetByID(context.Background(), b.ID)
	if got.Status != bed.StatusReserved {
		t.Errorf("expected bed reserved, got %s", got.Status)
	}

	deposit, err := f.ledgerSvc.GetInvoice(context.Background(), a.DepositInvoiceID)
	if err != nil {
		t.Fatalf("deposit invoice missing: %v", err)
	}
	if !deposit.Total.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("expected deposit total 5000, got %s", deposit.Total)
	}
	items, _ := f.ledgerSvc.GetLineItems(context.Background(), deposit.ID)
	if len(items) != 1 || items[0].Description != "Admission Deposit for Asha Verma" {
		t.Errorf("unexpected deposit line items: %+v", items)
	}
}

func TestCreateReservation_PatientNotFound(t *testing.T) {
	f := newFixture()
	b := f.seedBed(t, bed.StatusAvailable)

	_, err := f.svc.CreateReservation(context.Background(), &CreateReservationInput{
		PatientID:   uuid.New(),
		BedID:       b.ID,
		PhysicianID: uuid.New(),
		EntryDate:   time.Now(),
		Deposit:     decimal.NewFromInt(100),
	})
	if !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
	got, _ := f.beds.GetByID(context.Background(), b.ID)
	if got.Status != bed.StatusAvailable {
		t.Errorf("failed reservation must not touch the bed, got %s", got.Status)
	}
}

func TestCreateReservation_BedUnavailable(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")

	for _, status := range []bed.Status{bed.StatusReserved, bed.StatusOccupied, bed.StatusCleaning} {
		b := f.seedBed(t, status)
		_, err := f.svc.CreateReservation(context.Background(), &CreateReservationInput{
			PatientID:   patientID,
			BedID:       b.ID,
			PhysicianID: uuid.New(),
			EntryDate:   time.Now(),
			Deposit:     decimal.NewFromInt(100),
		})
		var bue *BedUnavailableError
		if !errors.As(err, &bue) {
			t.Fatalf("bed %s: expected BedUnavailableError, got %v", status, err)
		}
		if bue.Status != status {
			t.Errorf("expected status %s in error, got %s", status, bue.Status)
		}
	}
}

func TestCreateReservation_DuplicateLive(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")
	b := f.seedBed(t, bed.StatusAvailable)
	f.reserve(t, patientID, b.ID)

	_, err := f.svc.CreateReservation(context.Background(), &CreateReservationInput{
		PatientID:   patientID,
		BedID:       b.ID,
		PhysicianID: uuid.New(),
		EntryDate:   time.Now(),
		Deposit:     decimal.NewFromInt(100),
	})
	if !errors.Is(err, ErrDuplicateLive) {
		t.Errorf("expected ErrDuplicateLive, got %v", err)
	}
}

func TestCreateReservation_Concurrent(t *testing.T) {
	f := newFixture()
	b := f.seedBed(t, bed.StatusAvailable)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		patientID := f.seedPatient(t, fmt.Sprintf("Patient %d", i))
		wg.Add(1)
		go func(i int, pid uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateReservation(context.Background(), &CreateReservationInput{
				PatientID:   pid,
				BedID:       b.ID,
				PhysicianID: uuid.New(),
				EntryDate:   time.Now(),
				Deposit:     decimal.NewFromInt(100),
			})
		}(i, patientID)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var bue *BedUnavailableError
		if !errors.As(err, &bue) {
			t.Errorf("unexpected error flavor: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly one reservation to win, got %d", wins)
	}
}

func TestConfirm(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")
	b := f.seedBed(t, bed.StatusAvailable)
	a := f.reserve(t, patientID, b.ID)
	f.payDeposit(t, a)

	got, err := f.svc.Confirm(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.Status != StatusActive {
		t.Errorf("expected active, got %s", got.Status)
	}
	bd, _ := f.beds.GetByID(context.Background(), b.ID)
	if bd.Status != bed.StatusOccupied {
		t.Errorf("expected bed occupied, got %s", bd.Status)
	}
	if f.patients.careTypes[patientID] != patient.CareTypeInpatient {
		t.Errorf("expected inpatient care type, got %s", f.patients.careTypes[patientID])
	}
}

func TestConfirm_DepositUnpaid(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")
	b := f.seedBed(t, bed.StatusAvailable)
	a := f.reserve(t, patientID, b.ID)

	_, err := f.svc.Confirm(context.Background(), a.ID)
	var due *DepositUnpaidError
	if !errors.As(err, &due) {
		t.Fatalf("expected DepositUnpaidError, got %v", err)
	}
	if !due.Remaining.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("expected remaining 5000, got %s", due.Remaining)
	}

	// A partial payment is still a hard block.
	if _, err := f.ledgerSvc.RecordPayment(context.Background(), a.DepositInvoiceID, decimal.NewFromInt(4999)); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if _, err := f.svc.Confirm(context.Background(), a.ID); !errors.As(err, &due) {
		t.Fatalf("expected DepositUnpaidError for partial deposit, got %v", err)
	}

	got, _ := f.admissions.GetByID(context.Background(), a.ID)
	if got.Status != StatusReserved {
		t.Errorf("blocked confirm must not change state, got %s", got.Status)
	}
}

func TestConfirm_WrongState(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")
	b := f.seedBed(t, bed.StatusAvailable)
	a := f.reserve(t, patientID, b.ID)
	f.payDeposit(t, a)

	if _, err := f.svc.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	// Confirming twice fails: the admission is already active.
	if _, err := f.svc.Confirm(context.Background(), a.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestCancel_PendingDeposit(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")
	b := f.seedBed(t, bed.StatusAvailable)
	a := f.reserve(t, patientID, b.ID)

	got, err := f.svc.Cancel(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", got.Status)
	}
	bd, _ := f.beds.GetByID(context.Background(), b.ID)
	if bd.Status != bed.StatusAvailable {
		t.Errorf("expected bed back in the pool, got %s", bd.Status)
	}
	deposit, _ := f.ledgerSvc.GetInvoice(context.Background(), a.DepositInvoiceID)
	if deposit.Status != ledger.StatusCancelled {
		t.Errorf("expected pending deposit voided, got %s", deposit.Status)
	}
}

func TestCancel_PaidDepositSurvives(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")
	b := f.seedBed(t, bed.StatusAvailable)
	a := f.reserve(t, patientID, b.ID)
	f.payDeposit(t, a)

	if _, err := f.svc.Cancel(context.Background(), a.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// Paid money is never silently voided; the invoice stays paid until
	// someone refunds it.
	deposit, _ := f.ledgerSvc.GetInvoice(context.Background(), a.DepositInvoiceID)
	if deposit.Status != ledger.StatusPaid {
		t.Errorf("expected paid deposit untouched, got %s", deposit.Status)
	}
	if _, err := f.ledgerSvc.RefundInvoice(context.Background(), deposit.ID); err != nil {
		t.Fatalf("refund after cancel: %v", err)
	}
}

func TestCancel_WrongState(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")
	b := f.seedBed(t, bed.StatusAvailable)
	a := f.reserve(t, patientID, b.ID)
	f.payDeposit(t, a)
	if _, err := f.svc.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := f.svc.Cancel(context.Background(), a.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState cancelling an active admission, got %v", err)
	}
}

func TestDischarge(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")
	b := f.seedBed(t, bed.StatusAvailable)
	a := f.reserve(t, patientID, b.ID)
	f.payDeposit(t, a)
	if _, err := f.svc.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	got, err := f.svc.Discharge(context.Background(), a.ID, "recovered well", "recovered")
	if err != nil {
		t.Fatalf("discharge: %v", err)
	}
	if got.Status != StatusDischarged {
		t.Errorf("expected discharged, got %s", got.Status)
	}
	if got.DischargedAt == nil {
		t.Error("expected discharged_at to be set")
	}
	if got.DischargeOutcome != "recovered" {
		t.Errorf("expected outcome recorded, got %q", got.DischargeOutcome)
	}
	bd, _ := f.beds.GetByID(context.Background(), b.ID)
	if bd.Status != bed.StatusCleaning {
		t.Errorf("expected bed in cleaning, got %s", bd.Status)
	}
	if f.patients.careTypes[patientID] != patient.CareTypeOutpatient {
		t.Errorf("expected outpatient care type, got %s", f.patients.careTypes[patientID])
	}
}

func TestDischarge_BlockedByBalance(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")
	b := f.seedBed(t, bed.StatusAvailable)
	a := f.reserve(t, patientID, b.ID)
	f.payDeposit(t, a)
	if _, err := f.svc.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// An unpaid treatment invoice blocks the gate.
	inv, err := f.ledgerSvc.CreateInvoice(context.Background(), patientID, []*ledger.LineItem{{
		Description: "Surgery",
		Amount:      decimal.NewFromFloat(12500.75),
	}})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	_, err = f.svc.Discharge(context.Background(), a.ID, "", "")
	var obe *OutstandingBalanceError
	if !errors.As(err, &obe) {
		t.Fatalf("expected OutstandingBalanceError, got %v", err)
	}
	if !obe.Amount.Equal(decimal.NewFromFloat(12500.75)) {
		t.Errorf("expected blocking amount 12500.75, got %s", obe.Amount)
	}

	got, _ := f.admissions.GetByID(context.Background(), a.ID)
	if got.Status != StatusActive {
		t.Errorf("blocked discharge must not change state, got %s", got.Status)
	}
	bd, _ := f.beds.GetByID(context.Background(), b.ID)
	if bd.Status != bed.StatusOccupied {
		t.Errorf("blocked discharge must not touch the bed, got %s", bd.Status)
	}

	// Settling the invoice opens the gate.
	if _, err := f.ledgerSvc.RecordPayment(context.Background(), inv.ID, inv.Total); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if _, err := f.svc.Discharge(context.Background(), a.ID, "", "recovered"); err != nil {
		t.Fatalf("discharge after settlement: %v", err)
	}
}

func TestDischarge_WrongState(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")
	b := f.seedBed(t, bed.StatusAvailable)
	a := f.reserve(t, patientID, b.ID)

	if _, err := f.svc.Discharge(context.Background(), a.ID, "", ""); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState discharging a reservation, got %v", err)
	}
}

func TestLifecycle_BedReusableAfterCleaning(t *testing.T) {
	f := newFixture()
	patientID := f.seedPatient(t, "Asha Verma")
	b := f.seedBed(t, bed.StatusAvailable)
	a := f.reserve(t, patientID, b.ID)
	f.payDeposit(t, a)
	if _, err := f.svc.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := f.svc.Discharge(context.Background(), a.ID, "", "recovered"); err != nil {
		t.Fatalf("discharge: %v", err)
	}

	// Until sanitation is acknowledged the bed cannot be reserved.
	other := f.seedPatient(t, "Rohan Mehta")
	_, err := f.svc.CreateReservation(context.Background(), &CreateReservationInput{
		PatientID:   other,
		BedID:       b.ID,
		PhysicianID: uuid.New(),
		EntryDate:   time.Now(),
		Deposit:     decimal.NewFromInt(100),
	})
	var bue *BedUnavailableError
	if !errors.As(err, &bue) {
		t.Fatalf("expected BedUnavailableError for cleaning bed, got %v", err)
	}

	bedSvc := bed.NewService(f.beds)
	if err := bedSvc.MarkAvailable(context.Background(), b.ID); err != nil {
		t.Fatalf("acknowledge cleaning: %v", err)
	}
	if _, err := f.svc.CreateReservation(context.Background(), &CreateReservationInput{
		PatientID:   other,
		BedID:       b.ID,
		PhysicianID: uuid.New(),
		EntryDate:   time.Now(),
		Deposit:     decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("reservation after cleaning: %v", err)
	}
}
