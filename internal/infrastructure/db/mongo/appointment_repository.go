package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

const collectionAppointments = "appointments"

// Index names referenced when classifying duplicate-key failures.
const (
	idxApptSlot    = "uniq_vet_date_slot_active"
	idxApptIdemKey = "uniq_idempotency_key"
)

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

type historyDoc struct {
	Status    string `bson:"status"`
	Timestamp int64  `bson:"timestamp"`
	ActorID   string `bson:"actor_id,omitempty"`
	Notes     string `bson:"notes,omitempty"`
}

type appointmentDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	PetID          string             `bson:"pet_id"`
	OwnerID        string             `bson:"owner_id"`
	VetID          string             `bson:"vet_id"`
	VaccineID      string             `bson:"vaccine_id,omitempty"`
	Date           string             `bson:"date"`
	Slot           int                `bson:"slot"`
	Status         string             `bson:"status"`
	Active         bool               `bson:"active"`
	Notes          string             `bson:"notes,omitempty"`
	IdempotencyKey string             `bson:"idempotency_key,omitempty"`
	StatusHistory  []historyDoc       `bson:"status_history,omitempty"`
	CreatedAt      int64              `bson:"created_at"`
	UpdatedAt      int64              `bson:"updated_at"`
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := appointmentDoc{
		PetID:          a.PetID,
		OwnerID:        a.OwnerID,
		VetID:          a.VetID,
		VaccineID:      a.VaccineID,
		Date:           a.Date,
		Slot:           int(a.Slot),
		Status:         string(a.Status),
		Active:         a.Status != domain.AppointmentCancelled,
		Notes:          a.Notes,
		IdempotencyKey: a.IdempotencyKey,
		StatusHistory: []historyDoc{{
			Status:    string(a.Status),
			Timestamp: a.CreatedAt.Unix(),
		}},
		CreatedAt: a.CreatedAt.Unix(),
		UpdatedAt: a.UpdatedAt.Unix(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, insertConflict(err)
	}

	created := *a
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// insertConflict maps a duplicate-key failure to the unique index that
// raised it: the partial slot index means a concurrent booking won the
// slot, the idempotency index means this key already booked.
func insertConflict(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert appointment: %w", err)
	}
	if strings.Contains(err.Error(), idxApptIdemKey) {
		return domain.ErrDuplicateIdempotencyKey
	}
	return domain.ErrSlotUnavailable
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}

	var doc appointmentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AppointmentRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc appointmentDoc
	if err := r.col.FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment by key: %w", err)
	}
	return doc.toDomain(), nil
}

// SlotTaken reports whether the vet already holds an active appointment
// at (date, slot). This backs the friendly pre-check; the partial unique
// index is what actually closes the concurrent-booking race.
func (r *AppointmentRepository) SlotTaken(ctx context.Context, vetID, date string, slot domain.Slot) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{
		"vet_id": vetID,
		"date":   date,
		"slot":   int(slot),
		"active": true,
	})
	if err != nil {
		return false, fmt.Errorf("slot taken: %w", err)
	}
	return n > 0, nil
}

// UpdateStatus atomically sets the new status and appends a history entry.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus, ts time.Time, actorID, notes string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAppointmentNotFound
	}

	res, err := r.col.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{
			"status":     string(status),
			"active":     status != domain.AppointmentCancelled,
			"updated_at": ts.Unix(),
		},
		"$push": bson.M{
			"status_history": historyDoc{
				Status:    string(status),
				Timestamp: ts.Unix(),
				ActorID:   actorID,
				Notes:     notes,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) List(ctx context.Context, filter ports.ListAppointmentsFilter) ([]*domain.Appointment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}
	if filter.VetID != "" {
		query["vet_id"] = filter.VetID
	}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "slot", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Appointment
	for cur.Next(ctx) {
		var doc appointmentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode appointment: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate appointments: %w", err)
	}
	return out, total, nil
}

// appointmentIndexModels declares the appointments indexes. The slot index
// is unique but partial over active documents, so the database rejects a
// concurrent double-booking while a cancellation (which clears the active
// flag) frees the slot again.
func appointmentIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "vet_id", Value: 1}, {Key: "date", Value: 1}, {Key: "slot", Value: 1}},
			Options: options.Index().
				SetName(idxApptSlot).
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "active", Value: true}}),
		},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{
			Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
			Options: sparseUniqueIndex().SetName(idxApptIdemKey),
		},
	}
}

func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, appointmentIndexModels())
	return err
}

func (d appointmentDoc) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:             d.ID.Hex(),
		PetID:          d.PetID,
		OwnerID:        d.OwnerID,
		VetID:          d.VetID,
		VaccineID:      d.VaccineID,
		Date:           d.Date,
		Slot:           domain.Slot(d.Slot),
		Status:         domain.AppointmentStatus(d.Status),
		Notes:          d.Notes,
		IdempotencyKey: d.IdempotencyKey,
		CreatedAt:      unixToTime(d.CreatedAt),
		UpdatedAt:      unixToTime(d.UpdatedAt),
	}
}
