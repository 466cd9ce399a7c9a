package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const database = "doctors_portal"

// Mongo bundles the process-wide client and the collection handles.
// It is created once in main and handed to each handler explicitly.
type Mongo struct {
	Client   *mongo.Client
	Services *mongo.Collection
	Bookings *mongo.Collection
	Users    *mongo.Collection
	Doctors  *mongo.Collection
	Payments *mongo.Collection
}

func Connect(ctx context.Context, uri string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	d := client.Database(database)
	return &Mongo{
		Client:   client,
		Services: d.Collection("services"),
		Bookings: d.Collection("bookings"),
		Users:    d.Collection("users"),
		Doctors:  d.Collection("doctors"),
		Payments: d.Collection("payments"),
	}, nil
}

// EnsureIndexes creates the constraints the application relies on. The
// unique booking index is the authoritative duplicate guard; the
// application-level pre-check is only a fast rejection path.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.Bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "treatment", Value: 1},
			{Key: "date", Value: 1},
			{Key: "patient", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("unique_booking_key"),
	})
	if err != nil {
		return err
	}

	_, err = m.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_user_email"),
	})
	if err != nil {
		return err
	}

	_, err = m.Doctors.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_doctor_email"),
	})
	if err != nil {
		return err
	}

	_, err = m.Payments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "transactionId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_transaction_id"),
	})
	return err
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
