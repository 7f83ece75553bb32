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

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

const assignmentsCollection = "assignments"

// AssignmentRepository persists assignments in MongoDB.
type AssignmentRepository struct {
	coll *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{coll: db.Collection(assignmentsCollection)}
}

type assignmentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	AdminID   primitive.ObjectID `bson:"admin_id"`
	Task      string             `bson:"task"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	userOID, err := primitive.ObjectIDFromHex(a.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", domain.ErrValidation)
	}
	adminOID, err := primitive.ObjectIDFromHex(a.AdminID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid adminId", domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	doc := assignmentDoc{
		UserID:    userOID,
		AdminID:   adminOID,
		Task:      a.Task,
		Status:    string(a.Status),
		CreatedAt: createdAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	created := *a
	created.ID = oid.Hex()
	created.CreatedAt = doc.CreatedAt
	return &created, nil
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*domain.Assignment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAssignmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc assignmentDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return docToAssignment(&doc), nil
}

func (r *AssignmentRepository) ListByAdmin(ctx context.Context, adminID string) ([]*domain.Assignment, error) {
	adminOID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"admin_id": adminOID})
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Assignment
	for cur.Next(ctx) {
		var doc assignmentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode assignment: %w", err)
		}
		out = append(out, docToAssignment(&doc))
	}
	return out, cur.Err()
}

// TransitionStatus atomically moves a pending assignment reviewed by adminID
// to the given status. The filter carries the full precondition, so a lost
// race, a foreign admin or a terminal state all surface as "no match".
func (r *AssignmentRepository) TransitionStatus(ctx context.Context, id, adminID string, status domain.AssignmentStatus) (*domain.Assignment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAssignmentNotFound
	}
	adminOID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return nil, domain.ErrAssignmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":      oid,
		"admin_id": adminOID,
		"status":   string(domain.StatusPending),
	}
	update := bson.M{"$set": bson.M{"status": string(status)}}

	var doc assignmentDoc
	err = r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("transition assignment: %w", err)
	}
	return docToAssignment(&doc), nil
}

// EnsureIndexes creates the lookup index used by the admin assignment list.
func (r *AssignmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "admin_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func docToAssignment(doc *assignmentDoc) *domain.Assignment {
	return &domain.Assignment{
		ID:        doc.ID.Hex(),
		UserID:    doc.UserID.Hex(),
		AdminID:   doc.AdminID.Hex(),
		Task:      doc.Task,
		Status:    domain.AssignmentStatus(doc.Status),
		CreatedAt: doc.CreatedAt.UTC(),
	}
}
