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
)

const collectionAnalyses = "chart_analyses"

type AnalysisRepository struct {
	col *mongo.Collection
}

func NewAnalysisRepository(db *mongo.Database) *AnalysisRepository {
	return &AnalysisRepository{col: db.Collection(collectionAnalyses)}
}

type analysisDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	UserID           string             `bson:"user_id"`
	UploadID         string             `bson:"upload_id"`
	ChartType        string             `bson:"chart_type"`
	XAxis            string             `bson:"x_axis"`
	YAxis            string             `bson:"y_axis"`
	Summary          string             `bson:"summary"`
	ChartImageBase64 string             `bson:"chart_image_base64,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
}

func (d analysisDoc) toDomain() *domain.ChartAnalysis {
	return &domain.ChartAnalysis{
		ID:               d.ID.Hex(),
		UserID:           d.UserID,
		UploadID:         d.UploadID,
		ChartType:        d.ChartType,
		XAxis:            d.XAxis,
		YAxis:            d.YAxis,
		Summary:          d.Summary,
		ChartImageBase64: d.ChartImageBase64,
		CreatedAt:        d.CreatedAt.UTC(),
	}
}

func (r *AnalysisRepository) Create(ctx context.Context, a *domain.ChartAnalysis) (*domain.ChartAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := analysisDoc{
		ID:               primitive.NewObjectID(),
		UserID:           a.UserID,
		UploadID:         a.UploadID,
		ChartType:        a.ChartType,
		XAxis:            a.XAxis,
		YAxis:            a.YAxis,
		Summary:          a.Summary,
		ChartImageBase64: a.ChartImageBase64,
		CreatedAt:        a.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}
	return doc.toDomain(), nil
}

// ListByUser returns analyses newest first. An empty userID lists everyone's.
func (r *AnalysisRepository) ListByUser(ctx context.Context, userID string) ([]*domain.ChartAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	var docs []analysisDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode analyses: %w", err)
	}

	out := make([]*domain.ChartAnalysis, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AnalysisRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
