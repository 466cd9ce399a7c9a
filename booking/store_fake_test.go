package booking

import (
	"context"
	"sync"

	"docportal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store used by the package tests. Its Insert
// enforces the same unique (treatment, date, patient) constraint the
// Mongo index does, and missNextFind lets a test open the
// check-then-insert race window on purpose.
type memStore struct {
	mu           sync.Mutex
	services     []models.Service
	bookings     []*models.Booking
	payments     []models.Payment
	missNextFind bool
}

func newMemStore(services ...models.Service) *memStore {
	return &memStore{services: services}
}

func (s *memStore) FindByKey(ctx context.Context, treatment, date, patient string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missNextFind {
		s.missNextFind = false
		return nil, ErrNotFound
	}
	for _, b := range s.bookings {
		if b.Treatment == treatment && b.Date == date && b.Patient == patient {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID.Hex() == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) FindByPatient(ctx context.Context, patient string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Booking{}
	for _, b := range s.bookings {
		if b.Patient == patient {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) Insert(ctx context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bookings {
		if existing.Treatment == b.Treatment && existing.Date == b.Date && existing.Patient == b.Patient {
			return ErrDuplicate
		}
	}
	b.ID = primitive.NewObjectID()
	cp := *b
	s.bookings = append(s.bookings, &cp)
	return nil
}

func (s *memStore) FindService(ctx context.Context, name string) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, svc := range s.services {
		if svc.Name == name {
			cp := svc
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) Services(ctx context.Context) ([]models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Service{}, s.services...), nil
}

func (s *memStore) BookingsOn(ctx context.Context, date string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Booking{}
	for _, b := range s.bookings {
		if b.Date == date {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) Confirm(ctx context.Context, id string, p models.Payment) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID.Hex() == id {
			p.BookingID = b.ID
			s.payments = append(s.payments, p)
			b.Paid = true
			b.TransactionID = p.TransactionID
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) seed(b models.Booking) *models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	s.bookings = append(s.bookings, &b)
	return &b
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}
