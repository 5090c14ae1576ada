package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-insights/internal/domain"
)

// AnnotationRepository reads analyzer output for recordings.
type AnnotationRepository interface {
	ListByRecordingIDs(ctx context.Context, recordingIDs []string) ([]domain.TranscriptAnnotation, error)
}

type annotationRepository struct {
	pool *pgxpool.Pool
}

// NewAnnotationRepository reads annotations from Postgres.
func NewAnnotationRepository(pool *pgxpool.Pool) AnnotationRepository {
	return &annotationRepository{pool: pool}
}

func (r *annotationRepository) ListByRecordingIDs(ctx context.Context, recordingIDs []string) ([]domain.TranscriptAnnotation, error) {
	if len(recordingIDs) == 0 {
		return []domain.TranscriptAnnotation{}, nil
	}
	const query = `
        SELECT id, recording_id, gender, language, emotions, product_mentions, complaints,
               positive_keywords, negative_keywords, contact_reasons, customer_interests, created_at
        FROM transcript_annotations
        WHERE recording_id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, recordingIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TranscriptAnnotation{}
	for rows.Next() {
		var a domain.TranscriptAnnotation
		if err := rows.Scan(
			&a.ID,
			&a.RecordingID,
			&a.Gender,
			&a.Language,
			&a.Emotions,
			&a.ProductMentions,
			&a.Complaints,
			&a.PositiveKeywords,
			&a.NegativeKeywords,
			&a.ContactReasons,
			&a.CustomerInterests,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
