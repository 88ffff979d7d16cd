package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections names the collections used by the repositories.
type Collections struct {
	Audits              string
	Bookings            string
	FailedNotifications string
}

// EnsureIndexes creates the indexes the list queries rely on. Creating an
// existing index is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database, cols Collections) error {
	if _, err := db.Collection(cols.Audits).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_audit_created"),
		},
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetName("uniq_audit_reference").SetUnique(true),
		},
	}); err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}

	if _, err := db.Collection(cols.Bookings).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_booking_kind_created"),
		},
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetName("uniq_booking_reference").SetUnique(true),
		},
	}); err != nil {
		return fmt.Errorf("booking indexes: %w", err)
	}

	if _, err := db.Collection(cols.FailedNotifications).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_failed_status_created"),
	}); err != nil {
		return fmt.Errorf("failed notification indexes: %w", err)
	}

	return nil
}

// DropCollections removes the collections; missing collections are ignored.
func DropCollections(ctx context.Context, db *mongo.Database, cols Collections) error {
	for _, name := range []string{cols.Audits, cols.Bookings, cols.FailedNotifications} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}
