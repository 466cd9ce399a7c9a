package booking

import (
	"context"
	"errors"
	"slices"
	"time"

	"docportal/models"
)

var (
	ErrNotFound       = errors.New("booking not found")
	ErrDuplicate      = errors.New("duplicate booking key")
	ErrUnknownService = errors.New("unknown treatment")
	ErrUnknownSlot    = errors.New("slot not in service schedule")
)

// Store is the persistence surface of the ledger. The Mongo
// implementation lives in store_mongo.go; tests use an in-memory fake.
type Store interface {
	FindByKey(ctx context.Context, treatment, date, patient string) (*models.Booking, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindByPatient(ctx context.Context, patient string) ([]models.Booking, error)
	// Insert stores a new booking, filling in its ID. It returns
	// ErrDuplicate when the unique (treatment, date, patient) index
	// rejects the write.
	Insert(ctx context.Context, b *models.Booking) error
	FindService(ctx context.Context, name string) (*models.Service, error)
	Services(ctx context.Context) ([]models.Service, error)
	BookingsOn(ctx context.Context, date string) ([]models.Booking, error)
	// Confirm writes the payment record and marks the booking paid as
	// one atomic unit.
	Confirm(ctx context.Context, id string, p models.Payment) (*models.Booking, error)
}

type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

type CreateResult struct {
	Accepted bool
	Booking  *models.Booking
}

// Create records a booking idempotently. A duplicate of an existing
// (treatment, date, patient) triple is a defined outcome, not an error:
// the stored booking comes back with Accepted=false. The pre-check is
// only the fast path; losing the check-then-insert race surfaces as
// ErrDuplicate from the store and is folded into the same outcome.
func (l *Ledger) Create(ctx context.Context, req models.Booking) (*CreateResult, error) {
	svc, err := l.store.FindService(ctx, req.Treatment)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnknownService
	}
	if err != nil {
		return nil, err
	}
	if !slices.Contains(svc.Slots, req.Slot) {
		return nil, ErrUnknownSlot
	}

	existing, err := l.store.FindByKey(ctx, req.Treatment, req.Date, req.Patient)
	if err == nil {
		return &CreateResult{Accepted: false, Booking: existing}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	req.Paid = false
	req.TransactionID = ""
	req.CreatedAt = time.Now().Unix()

	if err := l.store.Insert(ctx, &req); err != nil {
		if errors.Is(err, ErrDuplicate) {
			winner, ferr := l.store.FindByKey(ctx, req.Treatment, req.Date, req.Patient)
			if ferr != nil {
				return nil, ferr
			}
			return &CreateResult{Accepted: false, Booking: winner}, nil
		}
		return nil, err
	}
	return &CreateResult{Accepted: true, Booking: &req}, nil
}

// Available annotates every catalog service with the slots still free
// on the given date. Services with no bookings keep their full
// schedule.
func (l *Ledger) Available(ctx context.Context, date string) ([]models.Service, error) {
	services, err := l.store.Services(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := l.store.BookingsOn(ctx, date)
	if err != nil {
		return nil, err
	}

	out := make([]models.Service, 0, len(services))
	for _, svc := range services {
		svc.Slots = FreeSlots(svc, bookings)
		out = append(out, svc)
	}
	return out, nil
}

func (l *Ledger) Get(ctx context.Context, id string) (*models.Booking, error) {
	return l.store.FindByID(ctx, id)
}

func (l *Ledger) ByPatient(ctx context.Context, patient string) ([]models.Booking, error) {
	return l.store.FindByPatient(ctx, patient)
}

func (l *Ledger) Confirm(ctx context.Context, id string, p models.Payment) (*models.Booking, error) {
	return l.store.Confirm(ctx, id, p)
}
