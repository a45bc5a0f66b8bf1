package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

const (
	collectionVaccines  = "vaccines"
	collectionBatches   = "vaccine_batches"
	collectionMovements = "stock_movements"
)

// VaccineRepository persists the vaccine catalogue.
type VaccineRepository struct {
	col *mongo.Collection
}

func NewVaccineRepository(db *mongo.Database) *VaccineRepository {
	return &VaccineRepository{col: db.Collection(collectionVaccines)}
}

type vaccineDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Disease       string             `bson:"disease"`
	Manufacturer  string             `bson:"manufacturer,omitempty"`
	DosesRequired int                `bson:"doses_required"`
	Price         float64            `bson:"price"`
	CreatedAt     int64              `bson:"created_at"`
	UpdatedAt     int64              `bson:"updated_at"`
}

func (r *VaccineRepository) Create(ctx context.Context, v *domain.Vaccine) (*domain.Vaccine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := vaccineDoc{
		Name:          v.Name,
		Disease:       v.Disease,
		Manufacturer:  v.Manufacturer,
		DosesRequired: v.DosesRequired,
		Price:         v.Price,
		CreatedAt:     v.CreatedAt.Unix(),
		UpdatedAt:     v.UpdatedAt.Unix(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert vaccine: %w", err)
	}

	created := *v
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *VaccineRepository) FindByID(ctx context.Context, id string) (*domain.Vaccine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrVaccineNotFound
	}

	var doc vaccineDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVaccineNotFound
		}
		return nil, fmt.Errorf("find vaccine: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *VaccineRepository) Update(ctx context.Context, v *domain.Vaccine) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(v.ID)
	if err != nil {
		return domain.ErrVaccineNotFound
	}

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":           v.Name,
		"disease":        v.Disease,
		"manufacturer":   v.Manufacturer,
		"doses_required": v.DosesRequired,
		"price":          v.Price,
		"updated_at":     time.Now().UTC().Unix(),
	}})
	if err != nil {
		return fmt.Errorf("update vaccine: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVaccineNotFound
	}
	return nil
}

func (r *VaccineRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrVaccineNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete vaccine: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVaccineNotFound
	}
	return nil
}

func (r *VaccineRepository) List(ctx context.Context) ([]*domain.Vaccine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list vaccines: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Vaccine
	for cur.Next(ctx) {
		var doc vaccineDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode vaccine: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (d vaccineDoc) toDomain() *domain.Vaccine {
	return &domain.Vaccine{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Disease:       d.Disease,
		Manufacturer:  d.Manufacturer,
		DosesRequired: d.DosesRequired,
		Price:         d.Price,
		CreatedAt:     unixToTime(d.CreatedAt),
		UpdatedAt:     unixToTime(d.UpdatedAt),
	}
}

// BatchRepository persists vaccine batches.
type BatchRepository struct {
	col *mongo.Collection
}

func NewBatchRepository(db *mongo.Database) *BatchRepository {
	return &BatchRepository{col: db.Collection(collectionBatches)}
}

type batchDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	VaccineID   string             `bson:"vaccine_id"`
	BatchNumber string             `bson:"batch_number"`
	ExpiresAt   int64              `bson:"expires_at"`
	Stock       int                `bson:"stock"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (r *BatchRepository) Create(ctx context.Context, b *domain.VaccineBatch) (*domain.VaccineBatch, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := batchDoc{
		VaccineID:   b.VaccineID,
		BatchNumber: b.BatchNumber,
		ExpiresAt:   b.ExpiresAt.Unix(),
		Stock:       b.Stock,
		CreatedAt:   b.CreatedAt.Unix(),
		UpdatedAt:   b.UpdatedAt.Unix(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}

	created := *b
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *BatchRepository) FindByID(ctx context.Context, id string) (*domain.VaccineBatch, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBatchNotFound
	}

	var doc batchDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("find batch: %w", err)
	}
	return doc.toDomain(), nil
}

// AdjustStock atomically applies delta to the batch stock. The filter
// guards against going negative, so concurrent exports cannot oversell.
func (r *BatchRepository) AdjustStock(ctx context.Context, id string, delta int) (*domain.VaccineBatch, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBatchNotFound
	}

	filter := bson.M{"_id": oid}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}

	var doc batchDoc
	err = r.col.FindOneAndUpdate(ctx, filter,
		bson.M{
			"$inc": bson.M{"stock": delta},
			"$set": bson.M{"updated_at": time.Now().UTC().Unix()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Distinguish a missing batch from one with too little stock.
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BatchRepository) ListByVaccine(ctx context.Context, vaccineID string) ([]*domain.VaccineBatch, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if vaccineID != "" {
		query["vaccine_id"] = vaccineID
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "expires_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.VaccineBatch
	for cur.Next(ctx) {
		var doc batchDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode batch: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (d batchDoc) toDomain() *domain.VaccineBatch {
	return &domain.VaccineBatch{
		ID:          d.ID.Hex(),
		VaccineID:   d.VaccineID,
		BatchNumber: d.BatchNumber,
		ExpiresAt:   unixToTime(d.ExpiresAt),
		Stock:       d.Stock,
		CreatedAt:   unixToTime(d.CreatedAt),
		UpdatedAt:   unixToTime(d.UpdatedAt),
	}
}

// MovementRepository records the stock audit trail. Movements carry their
// own uuid id so audit rows are addressable across exports.
type MovementRepository struct {
	col *mongo.Collection
}

func NewMovementRepository(db *mongo.Database) *MovementRepository {
	return &MovementRepository{col: db.Collection(collectionMovements)}
}

type movementDoc struct {
	ID        string `bson:"_id"`
	BatchID   string `bson:"batch_id"`
	Kind      string `bson:"kind"`
	Quantity  int    `bson:"quantity"`
	ActorID   string `bson:"actor_id,omitempty"`
	Notes     string `bson:"notes,omitempty"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *MovementRepository) Insert(ctx context.Context, m *domain.StockMovement) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	doc := movementDoc{
		ID:        m.ID,
		BatchID:   m.BatchID,
		Kind:      string(m.Kind),
		Quantity:  m.Quantity,
		ActorID:   m.ActorID,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt.Unix(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *MovementRepository) ListByBatch(ctx context.Context, batchID string) ([]*domain.StockMovement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"batch_id": batchID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.StockMovement
	for cur.Next(ctx) {
		var doc movementDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode movement: %w", err)
		}
		out = append(out, &domain.StockMovement{
			ID:        doc.ID,
			BatchID:   doc.BatchID,
			Kind:      domain.MovementKind(doc.Kind),
			Quantity:  doc.Quantity,
			ActorID:   doc.ActorID,
			Notes:     doc.Notes,
			CreatedAt: unixToTime(doc.CreatedAt),
		})
	}
	return out, cur.Err()
}
