package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/resyne/site-api/internal/audit/application"
	"github.com/resyne/site-api/internal/audit/domain"
)

// AuditRepository stores generated audit reports.
type AuditRepository struct {
	audits *mongo.Collection
}

func NewAuditRepository(db *mongo.Database, collection string) *AuditRepository {
	return &AuditRepository{audits: db.Collection(collection)}
}

// Create inserts the submission and sets its id.
func (r *AuditRepository) Create(ctx context.Context, submission *domain.AuditSubmission) error {
	doc := newAuditDocument(submission)
	if _, err := r.audits.InsertOne(ctx, doc); err != nil {
		return err
	}
	submission.ID = doc.ID.Hex()
	submission.CreatedAt = doc.CreatedAt
	return nil
}

// List returns submissions, newest first.
func (r *AuditRepository) List(ctx context.Context, paging application.Paging) ([]domain.AuditSubmission, error) {
	cursor, err := r.audits.Find(ctx, bson.M{}, pageOptions(paging.Page, paging.Limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	submissions := make([]domain.AuditSubmission, 0)
	for cursor.Next(ctx) {
		var doc AuditDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		submissions = append(submissions, mapAuditDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *AuditRepository) FindByID(ctx context.Context, id string) (*domain.AuditSubmission, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrNotFound
	}

	var doc AuditDocument
	if err := r.audits.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	submission := mapAuditDocument(doc)
	return &submission, nil
}
