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

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

const (
	usersCollection  = "users"
	adminsCollection = "admins"
)

// PrincipalRepository persists principals in MongoDB. Each kind lives in its
// own collection, which makes the username namespaces independent and lets a
// colliding id never resolve across kinds.
type PrincipalRepository struct {
	db *mongo.Database
}

func NewPrincipalRepository(db *mongo.Database) *PrincipalRepository {
	return &PrincipalRepository{db: db}
}

type principalDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Firstname    string             `bson:"firstname"`
	Lastname     string             `bson:"lastname"`
	PasswordHash string             `bson:"password_hash,omitempty"`
	FacebookID   string             `bson:"facebook_id,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
}

func (r *PrincipalRepository) coll(kind domain.PrincipalKind) *mongo.Collection {
	if kind == domain.KindAdmin {
		return r.db.Collection(adminsCollection)
	}
	return r.db.Collection(usersCollection)
}

func (r *PrincipalRepository) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := p.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	doc := principalDoc{
		Username:     p.Username,
		Firstname:    p.Firstname,
		Lastname:     p.Lastname,
		PasswordHash: p.PasswordHash,
		FacebookID:   p.ExternalID,
		CreatedAt:    now.Unix(),
	}

	res, err := r.coll(p.Kind).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "facebook_id") {
				return nil, domain.ErrDuplicateExternalID
			}
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert principal: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	created := *p
	created.ID = oid.Hex()
	created.CreatedAt = now
	return &created, nil
}

func (r *PrincipalRepository) FindByID(ctx context.Context, kind domain.PrincipalKind, id string) (*domain.Principal, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPrincipalNotFound
	}
	return r.findOne(ctx, kind, bson.M{"_id": oid})
}

func (r *PrincipalRepository) FindByUsername(ctx context.Context, kind domain.PrincipalKind, username string) (*domain.Principal, error) {
	return r.findOne(ctx, kind, bson.M{"username": username})
}

func (r *PrincipalRepository) FindByExternalID(ctx context.Context, kind domain.PrincipalKind, externalID string) (*domain.Principal, error) {
	return r.findOne(ctx, kind, bson.M{"facebook_id": externalID})
}

func (r *PrincipalRepository) findOne(ctx context.Context, kind domain.PrincipalKind, filter bson.M) (*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc principalDoc
	if err := r.coll(kind).FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find principal: %w", err)
	}
	return docToPrincipal(&doc, kind), nil
}

func (r *PrincipalRepository) List(ctx context.Context, kind domain.PrincipalKind) ([]*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll(kind).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list principals: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Principal
	for cur.Next(ctx) {
		var doc principalDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode principal: %w", err)
		}
		out = append(out, docToPrincipal(&doc, kind))
	}
	return out, cur.Err()
}

func (r *PrincipalRepository) AttachExternalID(ctx context.Context, kind domain.PrincipalKind, id, externalID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPrincipalNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll(kind).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"facebook_id": externalID}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateExternalID
		}
		return fmt.Errorf("attach external id: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

// EnsureIndexes creates the uniqueness constraints both namespaces rely on:
// usernames are unique per collection, and a facebook id can only ever be
// linked to one principal (the partial filter keeps documents without one
// out of the index).
func (r *PrincipalRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "facebook_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"facebook_id": bson.M{"$type": "string"}}),
		},
	}

	for _, kind := range []domain.PrincipalKind{domain.KindUser, domain.KindAdmin} {
		if _, err := r.coll(kind).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create %s indexes: %w", kind, err)
		}
	}
	return nil
}

func docToPrincipal(doc *principalDoc, kind domain.PrincipalKind) *domain.Principal {
	return &domain.Principal{
		ID:           doc.ID.Hex(),
		Kind:         kind,
		Username:     doc.Username,
		Firstname:    doc.Firstname,
		Lastname:     doc.Lastname,
		PasswordHash: doc.PasswordHash,
		ExternalID:   doc.FacebookID,
		CreatedAt:    unixToTime(doc.CreatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
