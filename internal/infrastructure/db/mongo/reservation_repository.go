package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

const reservationsCollection = "reservations"

type ReservationRepository struct {
	coll *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{coll: db.Collection(reservationsCollection)}
}

type reservationDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	TenantName      string             `bson:"tenant_name"`
	AccountID       string             `bson:"account_id"`
	VehicleID       string             `bson:"vehicle_id"`
	DriverID        string             `bson:"driver_id"`
	ReservationDate time.Time          `bson:"reservation_date"`
	StartDate       *time.Time         `bson:"start_date,omitempty"`
	EndDate         *time.Time         `bson:"end_date,omitempty"`
	Notes           string             `bson:"notes,omitempty"`
	Status          string             `bson:"status"`
	DecidedBy       string             `bson:"decided_by,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (d *reservationDoc) toDomain() *domain.Reservation {
	return &domain.Reservation{
		ID:              d.ID.Hex(),
		TenantName:      d.TenantName,
		AccountID:       d.AccountID,
		VehicleID:       d.VehicleID,
		DriverID:        d.DriverID,
		ReservationDate: d.ReservationDate,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		Notes:           d.Notes,
		Status:          domain.ReservationStatus(d.Status),
		DecidedBy:       d.DecidedBy,
		CreatedAt:       d.CreatedAt,
	}
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := reservationDoc{
		ID:              primitive.NewObjectID(),
		TenantName:      reservation.TenantName,
		AccountID:       reservation.AccountID,
		VehicleID:       reservation.VehicleID,
		DriverID:        reservation.DriverID,
		ReservationDate: reservation.ReservationDate,
		StartDate:       reservation.StartDate,
		EndDate:         reservation.EndDate,
		Notes:           reservation.Notes,
		Status:          string(reservation.Status),
		DecidedBy:       reservation.DecidedBy,
		CreatedAt:       reservation.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrReservationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc reservationDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReservationRepository) List(ctx context.Context, tenantName string) ([]*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if tenantName != "" {
		filter["tenant_name"] = tenantName
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Reservation
	for cursor.Next(ctx) {
		var doc reservationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode reservation: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

func (r *ReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	oid, err := primitive.ObjectIDFromHex(reservation.ID)
	if err != nil {
		return domain.ErrReservationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"vehicle_id":       reservation.VehicleID,
		"driver_id":        reservation.DriverID,
		"reservation_date": reservation.ReservationDate,
		"start_date":       reservation.StartDate,
		"end_date":         reservation.EndDate,
		"notes":            reservation.Notes,
		"status":           string(reservation.Status),
		"decided_by":       reservation.DecidedBy,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrReservationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_name", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
