package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/excellense/api/internal/core/domain"
	"github.com/excellense/api/internal/core/ports"
)

const collectionAudit = "audit_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

type auditDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Action      string             `bson:"action"`
	ActorID     string             `bson:"actor_id,omitempty"`
	ActorRole   string             `bson:"actor_role,omitempty"`
	TargetID    string             `bson:"target_id"`
	Detail      map[string]string  `bson:"detail,omitempty"`
	Timestamp   time.Time          `bson:"timestamp"`
	ProcessedAt time.Time          `bson:"processed_at"`
}

// Insert persists an audit event. ProcessedAt records when the worker got to it.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := auditDoc{
		ID:          primitive.NewObjectID(),
		Action:      string(event.Action),
		ActorID:     event.ActorID,
		ActorRole:   string(event.ActorRole),
		TargetID:    event.TargetID,
		Detail:      event.Detail,
		Timestamp:   event.Timestamp.UTC(),
		ProcessedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	event.ID = doc.ID.Hex()
	return nil
}

func (r *AuditRepository) List(ctx context.Context, limit int) ([]*domain.AuditEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	var docs []auditDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}

	out := make([]*domain.AuditEvent, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.AuditEvent{
			ID:        d.ID.Hex(),
			Action:    domain.AuditAction(d.Action),
			ActorID:   d.ActorID,
			ActorRole: domain.Role(d.ActorRole),
			TargetID:  d.TargetID,
			Detail:    d.Detail,
			Timestamp: d.Timestamp.UTC(),
		})
	}
	return out, nil
}
