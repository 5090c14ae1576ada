package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/field-insights/internal/domain"
)

type mongoAnnotationRepository struct {
	collection *mongo.Collection
}

// NewMongoAnnotationRepository reads annotations from a MongoDB collection
// keyed by recording_id.
func NewMongoAnnotationRepository(collection *mongo.Collection) AnnotationRepository {
	return &mongoAnnotationRepository{collection: collection}
}

func (r *mongoAnnotationRepository) ListByRecordingIDs(ctx context.Context, recordingIDs []string) ([]domain.TranscriptAnnotation, error) {
	if len(recordingIDs) == 0 {
		return []domain.TranscriptAnnotation{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"recording_id": bson.M{"$in": recordingIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := []domain.TranscriptAnnotation{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}
