package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates every collection index the repositories rely on.
// Called once at startup, before the HTTP server begins accepting traffic.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := NewPetRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return NewAppointmentRepository(db).EnsureIndexes(ctx)
}
