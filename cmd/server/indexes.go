package main

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	mongodb "github.com/fleetgate/reservation-api/internal/infrastructure/db/mongo"
)

// ensureIndexes creates every collection index up front so the unique
// constraints exist before the first request, not after the first conflict.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongodb.NewAccountRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewVerificationRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewVehicleRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewDriverRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewReservationRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewNotificationRepository(db).EnsureIndexes(ctx)
}
