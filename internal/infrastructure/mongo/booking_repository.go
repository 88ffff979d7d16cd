package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/resyne/site-api/internal/booking/application"
	"github.com/resyne/site-api/internal/booking/domain"
)

// BookingRepository stores confirmed website and call bookings in one
// collection, discriminated by kind.
type BookingRepository struct {
	bookings *mongo.Collection
}

func NewBookingRepository(db *mongo.Database, collection string) *BookingRepository {
	return &BookingRepository{bookings: db.Collection(collection)}
}

func (r *BookingRepository) Create(ctx context.Context, submission *domain.Submission) error {
	doc := newBookingDocument(submission)
	if _, err := r.bookings.InsertOne(ctx, doc); err != nil {
		return err
	}
	submission.ID = doc.ID.Hex()
	submission.CreatedAt = doc.CreatedAt
	return nil
}

func (r *BookingRepository) List(ctx context.Context, filter application.Filter, paging application.Paging) ([]domain.Submission, error) {
	mongoFilter := bson.M{}
	if filter.Kind != "" {
		mongoFilter["kind"] = string(filter.Kind)
	}

	cursor, err := r.bookings.Find(ctx, mongoFilter, pageOptions(paging.Page, paging.Limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	submissions := make([]domain.Submission, 0)
	for cursor.Next(ctx) {
		var doc BookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		submissions = append(submissions, mapBookingDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return submissions, nil
}
