package booking

import (
	"context"
	"errors"
	"testing"

	"docportal/models"
)

func TestCreateIdempotent(t *testing.T) {
	store := newMemStore(cleaningService())
	ledger := NewLedger(store)
	ctx := context.Background()

	req := models.Booking{Treatment: "Cleaning", Date: "2024-01-01", Patient: "a@x.com", Slot: "9am"}

	first, err := ledger.Create(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Accepted {
		t.Fatal("first create should be accepted")
	}

	second, err := ledger.Create(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if second.Accepted {
		t.Fatal("second create should be rejected as duplicate")
	}
	if second.Booking.ID != first.Booking.ID {
		t.Fatalf("duplicate must return the original booking, got %s want %s",
			second.Booking.ID.Hex(), first.Booking.ID.Hex())
	}
	if store.count() != 1 {
		t.Fatalf("expected exactly one stored booking, got %d", store.count())
	}
}

func TestCreateLostRaceFoldsIntoDuplicate(t *testing.T) {
	store := newMemStore(cleaningService())
	ledger := NewLedger(store)
	ctx := context.Background()

	winner := store.seed(models.Booking{
		Treatment: "Cleaning", Date: "2024-01-01", Patient: "a@x.com", Slot: "9am",
	})

	// The pre-check misses once, as it would for a concurrent insert
	// landing between check and act; the unique constraint must catch it.
	store.missNextFind = true

	res, err := ledger.Create(ctx, models.Booking{
		Treatment: "Cleaning", Date: "2024-01-01", Patient: "a@x.com", Slot: "9am",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Accepted {
		t.Fatal("racing create must not be accepted")
	}
	if res.Booking.ID != winner.ID {
		t.Fatal("racing create must return the winner's booking")
	}
	if store.count() != 1 {
		t.Fatalf("race produced %d bookings, want 1", store.count())
	}
}

func TestCreateRejectsUnknownService(t *testing.T) {
	ledger := NewLedger(newMemStore(cleaningService()))

	_, err := ledger.Create(context.Background(), models.Booking{
		Treatment: "Botox", Date: "2024-01-01", Patient: "a@x.com", Slot: "9am",
	})
	if !errors.Is(err, ErrUnknownService) {
		t.Fatalf("expected ErrUnknownService, got %v", err)
	}
}

func TestCreateRejectsSlotOutsideSchedule(t *testing.T) {
	ledger := NewLedger(newMemStore(cleaningService()))

	_, err := ledger.Create(context.Background(), models.Booking{
		Treatment: "Cleaning", Date: "2024-01-01", Patient: "a@x.com", Slot: "3pm",
	})
	if !errors.Is(err, ErrUnknownSlot) {
		t.Fatalf("expected ErrUnknownSlot, got %v", err)
	}
}

func TestCreateResetsPaymentFields(t *testing.T) {
	store := newMemStore(cleaningService())
	ledger := NewLedger(store)

	res, err := ledger.Create(context.Background(), models.Booking{
		Treatment: "Cleaning", Date: "2024-01-01", Patient: "a@x.com", Slot: "9am",
		Paid: true, TransactionID: "forged",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Booking.Paid || res.Booking.TransactionID != "" {
		t.Fatalf("client-supplied payment state must be ignored: %+v", res.Booking)
	}
}

func TestConfirmMarksPaidAndRecordsOnePayment(t *testing.T) {
	store := newMemStore(cleaningService())
	ledger := NewLedger(store)
	ctx := context.Background()

	created, err := ledger.Create(ctx, models.Booking{
		Treatment: "Cleaning", Date: "2024-01-01", Patient: "a@x.com", Slot: "9am",
	})
	if err != nil {
		t.Fatal(err)
	}

	id := created.Booking.ID.Hex()
	confirmed, err := ledger.Confirm(ctx, id, models.Payment{TransactionID: "tx-42"})
	if err != nil {
		t.Fatal(err)
	}
	if !confirmed.Paid || confirmed.TransactionID != "tx-42" {
		t.Fatalf("confirm did not mark booking paid: %+v", confirmed)
	}

	got, err := ledger.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Paid || got.TransactionID != "tx-42" {
		t.Fatalf("stored booking not updated: %+v", got)
	}

	matching := 0
	for _, p := range store.payments {
		if p.TransactionID == "tx-42" {
			matching++
			if p.BookingID != created.Booking.ID {
				t.Fatal("payment not linked to the booking")
			}
		}
	}
	if matching != 1 {
		t.Fatalf("expected exactly one payment record, got %d", matching)
	}
}

func TestConfirmUnknownBooking(t *testing.T) {
	ledger := NewLedger(newMemStore())

	_, err := ledger.Confirm(context.Background(), "ffffffffffffffffffffffff", models.Payment{TransactionID: "tx"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
