package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/resyne/site-api/internal/booking/application"
)

// FailedNotificationRepository keeps team notices that could not be delivered
// so that the team can follow up by hand.
type FailedNotificationRepository struct {
	failures *mongo.Collection
}

func NewFailedNotificationRepository(db *mongo.Database, collection string) *FailedNotificationRepository {
	return &FailedNotificationRepository{failures: db.Collection(collection)}
}

func (r *FailedNotificationRepository) Record(ctx context.Context, failure *application.FailedNotification) error {
	doc := newFailedNotificationDocument(failure)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.LastTriedAt.IsZero() {
		doc.LastTriedAt = doc.CreatedAt
	}
	if _, err := r.failures.InsertOne(ctx, doc); err != nil {
		return err
	}
	failure.ID = doc.ID.Hex()
	failure.Status = doc.Status
	return nil
}

// List returns failures with the given status, or all of them when status is
// empty.
func (r *FailedNotificationRepository) List(ctx context.Context, status string, paging application.Paging) ([]application.FailedNotification, error) {
	mongoFilter := bson.M{}
	if status = strings.TrimSpace(status); status != "" {
		mongoFilter["status"] = status
	}

	cursor, err := r.failures.Find(ctx, mongoFilter, pageOptions(paging.Page, paging.Limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	failures := make([]application.FailedNotification, 0)
	for cursor.Next(ctx) {
		var doc FailedNotificationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		failures = append(failures, mapFailedNotificationDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return failures, nil
}

// Resolve marks a failure as handled.
func (r *FailedNotificationRepository) Resolve(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return application.ErrNotFound
	}
	now := time.Now().UTC()
	res, err := r.failures.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{
		"status":     application.FailureStatusResolved,
		"resolvedAt": now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}
