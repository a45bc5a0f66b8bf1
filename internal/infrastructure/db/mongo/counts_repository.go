package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

// CountsRepository aggregates the dashboard totals across collections.
type CountsRepository struct {
	db *mongo.Database
}

func NewCountsRepository(db *mongo.Database) *CountsRepository {
	return &CountsRepository{db: db}
}

func (r *CountsRepository) Counts(ctx context.Context, today string) (*ports.DashboardCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out := &ports.DashboardCounts{}

	var err error
	if out.Customers, err = r.count(ctx, collectionUsers, bson.M{"role": int(domain.RoleCustomer)}); err != nil {
		return nil, err
	}
	if out.Vets, err = r.count(ctx, collectionUsers, bson.M{"role": int(domain.RoleVet)}); err != nil {
		return nil, err
	}
	if out.Pets, err = r.count(ctx, collectionPets, bson.M{}); err != nil {
		return nil, err
	}
	if out.Vaccines, err = r.count(ctx, collectionVaccines, bson.M{}); err != nil {
		return nil, err
	}
	if out.AppointmentsToday, err = r.count(ctx, collectionAppointments, bson.M{"date": today}); err != nil {
		return nil, err
	}
	if out.AppointmentsOpen, err = r.count(ctx, collectionAppointments, bson.M{
		"status": bson.M{"$in": bson.A{
			string(domain.AppointmentBooked),
			string(domain.AppointmentConfirmed),
		}},
	}); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *CountsRepository) count(ctx context.Context, collection string, filter bson.M) (int64, error) {
	n, err := r.db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}
