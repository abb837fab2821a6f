package medicine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	medicines Repository
}

func NewService(medicines Repository) *Service {
	return &Service{medicines: medicines}
}

func (s *Service) Create(ctx context.Context, m *Medicine) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return s.medicines.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return s.medicines.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, m *Medicine) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return s.medicines.Update(ctx, m)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.medicines.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	return s.medicines.List(ctx, limit, offset)
}

// FindByName returns every catalog entry matching the given name.
func (s *Service) FindByName(ctx context.Context, name string) ([]*Medicine, error) {
	return s.medicines.FindByName(ctx, name)
}

// PriceFor resolves the unit price for a medicine name. When the catalog
// holds several entries with the same name the oldest wins.
func (s *Service) PriceFor(ctx context.Context, name string) (float64, error) {
	matches, err := s.medicines.FindByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return matches[0].Price, nil
}
