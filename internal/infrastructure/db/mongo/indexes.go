package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the indexes every collection relies on. The unique
// username and email indexes are what keep concurrent registrations and
// approvals from producing duplicate accounts.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := NewAdminRequestRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return NewAnalysisRepository(db).EnsureIndexes(ctx)
}
