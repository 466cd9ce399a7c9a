package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service is one entry of the treatment catalog. Slots is the full daily
// schedule; availability queries return a copy with the booked labels
// removed.
type Service struct {
	ID    primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name  string             `json:"name" bson:"name"`
	Price int64              `json:"price,omitempty" bson:"price,omitempty"`
	Slots []string           `json:"slots" bson:"slots"`
}

// Booking is unique per (treatment, date, patient); the bookings
// collection carries a unique compound index on that triple.
type Booking struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Treatment     string             `json:"treatment" bson:"treatment"`
	Date          string             `json:"date" bson:"date"`
	Slot          string             `json:"slot" bson:"slot"`
	Patient       string             `json:"patient" bson:"patient"`
	PatientName   string             `json:"patientName,omitempty" bson:"patientName,omitempty"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Price         int64              `json:"price,omitempty" bson:"price,omitempty"`
	Paid          bool               `json:"paid" bson:"paid"`
	TransactionID string             `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	CreatedAt     int64              `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

type User struct {
	ID    primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Email string             `json:"email" bson:"email"`
	Name  string             `json:"name,omitempty" bson:"name,omitempty"`
	Phone string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Role  string             `json:"role,omitempty" bson:"role,omitempty"`
}

type Doctor struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Name      string             `json:"name" bson:"name"`
	Specialty string             `json:"specialty,omitempty" bson:"specialty,omitempty"`
	Education string             `json:"education,omitempty" bson:"education,omitempty"`
	Image     string             `json:"img,omitempty" bson:"img,omitempty"`
}

// Payment is the append-only record written alongside the booking update
// in the same transaction.
type Payment struct {
	ID            string             `json:"id" bson:"id"`
	BookingID     primitive.ObjectID `json:"bookingId" bson:"bookingId"`
	Patient       string             `json:"patient,omitempty" bson:"patient,omitempty"`
	Treatment     string             `json:"treatment,omitempty" bson:"treatment,omitempty"`
	Amount        int64              `json:"amount,omitempty" bson:"amount,omitempty"`
	TransactionID string             `json:"transactionId" bson:"transactionId"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}
