package medicine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	items map[uuid.UUID]*Medicine
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Medicine)}
}

func (m *mockRepo) Create(_ context.Context, med *Medicine) error {
	med.ID = uuid.New()
	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()
	m.items[med.ID] = med
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Medicine, error) {
	med, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return med, nil
}

func (m *mockRepo) Update(_ context.Context, med *Medicine) error {
	m.items[med.ID] = med
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Medicine, int, error) {
	var result []*Medicine
	for _, med := range m.items {
		result = append(result, med)
	}
	return result, len(result), nil
}

func (m *mockRepo) FindByName(_ context.Context, name string) ([]*Medicine, error) {
	var result []*Medicine
	for _, med := range m.items {
		if med.Name == name {
			result = append(result, med)
		}
	}
	// oldest first
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].CreatedAt.Before(result[i].CreatedAt) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

// -- Tests --

func TestCreateMedicine(t *testing.T) {
	svc := NewService(newMockRepo())

	m := &Medicine{Name: "Paracetamol", Price: 2.5}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestCreateMedicine_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Create(context.Background(), &Medicine{Price: 1}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.Create(context.Background(), &Medicine{Name: "X", Price: -1}); err == nil {
		t.Error("expected error for negative price")
	}
}

func TestGetMedicine_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindByName(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	_ = svc.Create(context.Background(), &Medicine{Name: "Amoxicillin", Price: 5})
	_ = svc.Create(context.Background(), &Medicine{Name: "Ibuprofen", Price: 3})

	matches, err := svc.FindByName(context.Background(), "Amoxicillin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Price != 5 {
		t.Errorf("expected price 5, got %f", matches[0].Price)
	}
}

func TestPriceFor_FirstMatchWins(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	older := &Medicine{ID: uuid.New(), Name: "Paracetamol", Price: 2, CreatedAt: time.Now().Add(-time.Hour)}
	newer := &Medicine{ID: uuid.New(), Name: "Paracetamol", Price: 9, CreatedAt: time.Now()}
	repo.items[older.ID] = older
	repo.items[newer.ID] = newer

	price, err := svc.PriceFor(context.Background(), "Paracetamol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 2 {
		t.Errorf("expected oldest entry price 2, got %f", price)
	}
}

func TestPriceFor_NotInCatalog(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.PriceFor(context.Background(), "Unknown")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
