package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"docportal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Channel carries booking lifecycle events for downstream consumers
// (reminder mails, dashboards). Delivery is best-effort; the booking
// write itself never depends on it.
const Channel = "booking-events"

const (
	BookingCreated   = "booking-created"
	PaymentConfirmed = "payment-confirmed"
)

type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	BookingID string `json:"bookingId"`
	Treatment string `json:"treatment"`
	Date      string `json:"date"`
	Slot      string `json:"slot"`
	Patient   string `json:"patient"`
	At        int64  `json:"at"`
}

type Emitter struct {
	rdx *redis.Client
}

// NewEmitter accepts a nil client; emits become no-ops then.
func NewEmitter(rdx *redis.Client) *Emitter {
	return &Emitter{rdx: rdx}
}

func (e *Emitter) Emit(ctx context.Context, eventType string, b *models.Booking) {
	if e == nil || e.rdx == nil || b == nil {
		return
	}

	evt := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		BookingID: b.ID.Hex(),
		Treatment: b.Treatment,
		Date:      b.Date,
		Slot:      b.Slot,
		Patient:   b.Patient,
		At:        time.Now().Unix(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("mq: marshal %s event: %v", eventType, err)
		return
	}
	if err := e.rdx.Publish(ctx, Channel, data).Err(); err != nil {
		log.Printf("mq: publish %s event: %v", eventType, err)
	}
}

// StartNotificationWorker consumes booking events and logs them. It is
// the hook point for reminder/notification delivery.
func StartNotificationWorker(rdx *redis.Client) {
	sub := rdx.Subscribe(context.Background(), Channel)
	for msg := range sub.Channel() {
		var evt Event
		if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
			log.Printf("mq: bad event payload: %v", err)
			continue
		}
		log.Printf("mq: %s booking=%s treatment=%q date=%s slot=%s patient=%s",
			evt.Type, evt.BookingID, evt.Treatment, evt.Date, evt.Slot, evt.Patient)
	}
}
