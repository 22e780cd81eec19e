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

	"github.com/excellense/api/internal/core/domain"
	"github.com/excellense/api/internal/core/ports"
)

const collectionAdminRequests = "admin_requests"

// AdminRequestRepository implements ports.AdminRequestRepository using MongoDB.
type AdminRequestRepository struct {
	col *mongo.Collection
}

func NewAdminRequestRepository(db *mongo.Database) *AdminRequestRepository {
	return &AdminRequestRepository{col: db.Collection(collectionAdminRequests)}
}

type adminRequestDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Username        string             `bson:"username"`
	Email           string             `bson:"email"`
	PasswordHash    string             `bson:"password_hash"`
	Status          string             `bson:"status"`
	RejectionReason string             `bson:"rejection_reason,omitempty"`
	DecidedBy       string             `bson:"decided_by,omitempty"`
	DecidedAt       *time.Time         `bson:"decided_at,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (d adminRequestDoc) toDomain() *domain.AdminRequest {
	req := &domain.AdminRequest{
		ID:              d.ID.Hex(),
		Username:        d.Username,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		Status:          domain.RequestStatus(d.Status),
		RejectionReason: d.RejectionReason,
		DecidedBy:       d.DecidedBy,
		CreatedAt:       d.CreatedAt.UTC(),
	}
	if d.DecidedAt != nil {
		at := d.DecidedAt.UTC()
		req.DecidedAt = &at
	}
	return req
}

func (r *AdminRequestRepository) Create(ctx context.Context, req *domain.AdminRequest) (*domain.AdminRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := adminRequestDoc{
		ID:           primitive.NewObjectID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		Status:       string(req.Status),
		CreatedAt:    req.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRequestExists
		}
		return nil, fmt.Errorf("insert admin request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AdminRequestRepository) FindByID(ctx context.Context, id string) (*domain.AdminRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc adminRequestDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find admin request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AdminRequestRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, usernameOrEmail(username, email), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count admin requests: %w", err)
	}
	return n > 0, nil
}

func (r *AdminRequestRepository) List(ctx context.Context, status domain.RequestStatus) ([]*domain.AdminRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"status": string(status)},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list admin requests: %w", err)
	}
	var docs []adminRequestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode admin requests: %w", err)
	}

	out := make([]*domain.AdminRequest, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Decide moves a pending request to its final status in a single conditional
// update. Concurrent callers race on the status filter; only one matches.
func (r *AdminRequestRepository) Decide(ctx context.Context, id string, decision ports.RequestDecision) (*domain.AdminRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	decidedAt := decision.DecidedAt
	if decidedAt.IsZero() {
		decidedAt = time.Now()
	}
	set := bson.M{
		"status":     string(decision.Status),
		"decided_by": decision.DecidedBy,
		"decided_at": decidedAt.UTC(),
	}
	if decision.RejectionReason != "" {
		set["rejection_reason"] = decision.RejectionReason
	}

	var doc adminRequestDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": string(domain.RequestPending)},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("decide admin request: %w", err)
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("decide admin request: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrRequestNotFound
	}
	return nil, domain.ErrRequestProcessed
}

func (r *AdminRequestRepository) Reopen(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$set":   bson.M{"status": string(domain.RequestPending)},
			"$unset": bson.M{"decided_by": "", "decided_at": "", "rejection_reason": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("reopen admin request: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// EnsureIndexes creates the unique username and email indexes and a status index.
func (r *AdminRequestRepository) EnsureIndexes(ctx context.Context) error {
	return ensureUniqueIdentityIndexes(ctx, r.col, bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}})
}
