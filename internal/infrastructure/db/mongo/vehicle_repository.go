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

const vehiclesCollection = "vehicles"

type VehicleRepository struct {
	coll *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) *VehicleRepository {
	return &VehicleRepository{coll: db.Collection(vehiclesCollection)}
}

type vehicleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	PlateNumber string             `bson:"plate_number"`
	Brand       string             `bson:"brand"`
	Model       string             `bson:"model"`
	TenantName  string             `bson:"tenant_name"`
	DriverID    string             `bson:"driver_id,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d *vehicleDoc) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		ID:          d.ID.Hex(),
		PlateNumber: d.PlateNumber,
		Brand:       d.Brand,
		Model:       d.Model,
		TenantName:  d.TenantName,
		DriverID:    d.DriverID,
		CreatedAt:   d.CreatedAt,
	}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := vehicleDoc{
		ID:          primitive.NewObjectID(),
		PlateNumber: vehicle.PlateNumber,
		Brand:       vehicle.Brand,
		Model:       vehicle.Model,
		TenantName:  vehicle.TenantName,
		DriverID:    vehicle.DriverID,
		CreatedAt:   vehicle.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a vehicle. When tenantName is non-empty the lookup is
// additionally filtered to that tenant.
func (r *VehicleRepository) FindByID(ctx context.Context, id, tenantName string) (*domain.Vehicle, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrVehicleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	if tenantName != "" {
		filter["tenant_name"] = tenantName
	}

	var doc vehicleDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *VehicleRepository) List(ctx context.Context, tenantName string) ([]*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if tenantName != "" {
		filter["tenant_name"] = tenantName
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Vehicle
	for cursor.Next(ctx) {
		var doc vehicleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode vehicle: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

func (r *VehicleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_name", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
