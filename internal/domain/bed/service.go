package bed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	beds Repository
}

func NewService(beds Repository) *Service {
	return &Service{beds: beds}
}

// RegisterBed adds a bed to the registry. New beds start available.
func (s *Service) RegisterBed(ctx context.Context, b *Bed) error {
	if b.Room == "" {
		return fmt.Errorf("room is required")
	}
	if b.Category == "" {
		b.Category = CategoryGeneral
	}
	if !b.Category.Valid() {
		return fmt.Errorf("invalid room category: %s", b.Category)
	}
	if b.CostPerDay.IsNegative() {
		return fmt.Errorf("cost_per_day must not be negative")
	}
	b.Status = StatusAvailable
	return s.beds.Create(ctx, b)
}

func (s *Service) GetBed(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return s.beds.GetByID(ctx, id)
}

func (s *Service) ListBeds(ctx context.Context, limit, offset int) ([]*Bed, int, error) {
	return s.beds.List(ctx, limit, offset)
}

func (s *Service) ListBedsByStatus(ctx context.Context, status Status, limit, offset int) ([]*Bed, int, error) {
	if !status.Valid() {
		return nil, 0, fmt.Errorf("invalid bed status: %s", status)
	}
	return s.beds.ListByStatus(ctx, status, limit, offset)
}

func (s *Service) MarkReserved(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, StatusReserved)
}

func (s *Service) MarkOccupied(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, StatusOccupied)
}

func (s *Service) MarkCleaning(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, StatusCleaning)
}

func (s *Service) MarkAvailable(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, StatusAvailable)
}

// transition moves a bed to the target state when its current state is
// a legal predecessor. The CAS in UpdateStatus keeps a concurrent
// writer from slipping between the read and the write.
func (s *Service) transition(ctx context.Context, id uuid.UUID, to Status) error {
	b, err := s.beds.GetByID(ctx, id)
	if err != nil {
		return err
	}
	legal := false
	for _, from := range legalFrom[to] {
		if b.Status == from {
			legal = true
			break
		}
	}
	if !legal {
		return &InvalidTransitionError{Bed: id, From: b.Status, To: to}
	}
	return s.beds.UpdateStatus(ctx, id, b.Status, to)
}
