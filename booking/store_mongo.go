package booking

import (
	"context"
	"time"

	"docportal/db"
	"docportal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoStore struct {
	db *db.Mongo
}

func NewMongoStore(m *db.Mongo) *MongoStore {
	return &MongoStore{db: m}
}

func (s *MongoStore) FindByKey(ctx context.Context, treatment, date, patient string) (*models.Booking, error) {
	var b models.Booking
	err := s.db.Bookings.FindOne(ctx, bson.M{
		"treatment": treatment,
		"date":      date,
		"patient":   patient,
	}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var b models.Booking
	err = s.db.Bookings.FindOne(ctx, bson.M{"_id": oid}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *MongoStore) FindByPatient(ctx context.Context, patient string) ([]models.Booking, error) {
	cur, err := s.db.Bookings.Find(ctx, bson.M{"patient": patient})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	bookings := []models.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *MongoStore) Insert(ctx context.Context, b *models.Booking) error {
	res, err := s.db.Bookings.InsertOne(ctx, b)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid
	}
	return nil
}

func (s *MongoStore) FindService(ctx context.Context, name string) (*models.Service, error) {
	var svc models.Service
	err := s.db.Services.FindOne(ctx, bson.M{"name": name}).Decode(&svc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *MongoStore) Services(ctx context.Context) ([]models.Service, error) {
	cur, err := s.db.Services.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	services := []models.Service{}
	if err := cur.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (s *MongoStore) BookingsOn(ctx context.Context, date string) ([]models.Booking, error) {
	cur, err := s.db.Bookings.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	bookings := []models.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Confirm inserts the payment record and flips the booking to paid in a
// multi-document transaction, so a failed update can never leave an
// orphan payment behind.
func (s *MongoStore) Confirm(ctx context.Context, id string, p models.Payment) (*models.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	p.BookingID = oid
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	session, err := s.db.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.db.Payments.InsertOne(sc, p); err != nil {
			return nil, err
		}

		update := bson.M{"$set": bson.M{
			"paid":          true,
			"transactionId": p.TransactionID,
		}}
		res, err := s.db.Bookings.UpdateOne(sc, bson.M{"_id": oid}, update)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}

		var b models.Booking
		if err := s.db.Bookings.FindOne(sc, bson.M{"_id": oid}).Decode(&b); err != nil {
			return nil, err
		}
		return &b, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Booking), nil
}
