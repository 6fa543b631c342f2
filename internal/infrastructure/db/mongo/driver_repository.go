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

const driversCollection = "drivers"

type DriverRepository struct {
	coll *mongo.Collection
}

func NewDriverRepository(db *mongo.Database) *DriverRepository {
	return &DriverRepository{coll: db.Collection(driversCollection)}
}

type driverDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	FullName      string             `bson:"full_name"`
	PhoneNumber   string             `bson:"phone_number,omitempty"`
	LicenseNumber string             `bson:"license_number"`
	NationalID    string             `bson:"national_id,omitempty"`
	TenantName    string             `bson:"tenant_name"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (d *driverDoc) toDomain() *domain.Driver {
	return &domain.Driver{
		ID:            d.ID.Hex(),
		FullName:      d.FullName,
		PhoneNumber:   d.PhoneNumber,
		LicenseNumber: d.LicenseNumber,
		NationalID:    d.NationalID,
		TenantName:    d.TenantName,
		CreatedAt:     d.CreatedAt,
	}
}

func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) (*domain.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := driverDoc{
		ID:            primitive.NewObjectID(),
		FullName:      driver.FullName,
		PhoneNumber:   driver.PhoneNumber,
		LicenseNumber: driver.LicenseNumber,
		NationalID:    driver.NationalID,
		TenantName:    driver.TenantName,
		CreatedAt:     driver.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert driver: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a driver. When tenantName is non-empty the lookup is
// additionally filtered to that tenant.
func (r *DriverRepository) FindByID(ctx context.Context, id, tenantName string) (*domain.Driver, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDriverNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	if tenantName != "" {
		filter["tenant_name"] = tenantName
	}

	var doc driverDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, fmt.Errorf("find driver: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DriverRepository) List(ctx context.Context, tenantName string) ([]*domain.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if tenantName != "" {
		filter["tenant_name"] = tenantName
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Driver
	for cursor.Next(ctx) {
		var doc driverDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode driver: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

func (r *DriverRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_name", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
