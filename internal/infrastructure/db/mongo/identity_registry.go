package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

const collectionIdentities = "demo_registered_users"

// IdentityRegistry stores runtime-registered identities. Uniqueness of the
// email key is enforced by a unique index, not by a read-before-write.
type IdentityRegistry struct {
	col *mongo.Collection
}

func NewIdentityRegistry(db *mongo.Database) *IdentityRegistry {
	return &IdentityRegistry{col: db.Collection(collectionIdentities)}
}

type identityDocument struct {
	ID          string    `bson:"_id"`
	Email       string    `bson:"email"`
	EmailKey    string    `bson:"email_key"`
	DisplayName string    `bson:"display_name"`
	Role        string    `bson:"role"`
	SecretHash  string    `bson:"secret_hash"`
	CreatedAt   time.Time `bson:"created_at"`
}

func toDocument(c *domain.Credential) identityDocument {
	return identityDocument{
		ID:          c.ID,
		Email:       c.Email,
		EmailKey:    domain.EmailKey(c.Email),
		DisplayName: c.DisplayName,
		Role:        string(c.Role),
		SecretHash:  c.SecretHash,
		CreatedAt:   c.CreatedAt.UTC(),
	}
}

func (d identityDocument) credential() (*domain.Credential, error) {
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		return nil, fmt.Errorf("identity %s: %w", d.ID, err)
	}
	return &domain.Credential{
		Identity: domain.Identity{
			ID:          d.ID,
			Email:       d.Email,
			DisplayName: d.DisplayName,
			Role:        role,
		},
		SecretHash: d.SecretHash,
		CreatedAt:  d.CreatedAt.UTC(),
	}, nil
}

// Create inserts a new identity. A duplicate email key maps to domain.ErrEmailTaken.
func (r *IdentityRegistry) Create(ctx context.Context, cred *domain.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toDocument(cred)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

// FindByEmail retrieves an identity by its normalised email key.
func (r *IdentityRegistry) FindByEmail(ctx context.Context, emailKey string) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc identityDocument
	err := r.col.FindOne(ctx, bson.M{"email_key": emailKey}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return doc.credential()
}

// List returns every registered identity, oldest first.
func (r *IdentityRegistry) List(ctx context.Context) ([]*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer cur.Close(ctx)

	var docs []identityDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode identities: %w", err)
	}

	out := make([]*domain.Credential, 0, len(docs))
	for _, d := range docs {
		c, err := d.credential()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// EnsureIndexes creates the unique email key index.
func (r *IdentityRegistry) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
