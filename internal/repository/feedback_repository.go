package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-insights/internal/domain"
)

var (
	// ErrFeedbackExists is returned when the recording already carries feedback.
	ErrFeedbackExists = errors.New("feedback already exists for recording")
	// ErrRecentContact is returned when the submitter recorded the contact number inside the duplicate window.
	ErrRecentContact = errors.New("contact number already used recently")
	// ErrConcurrentSubmission is returned when a concurrent submission made
	// the serializable transaction fail. The insert is not retried.
	ErrConcurrentSubmission = errors.New("concurrent feedback submission")
)

const (
	uniqueViolation      = "23505"
	serializationFailure = "40001"
)

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// FeedbackFilter narrows feedback reads by the owning recording.
type FeedbackFilter struct {
	OwnerIDs []string
	Window   *domain.TimeWindow
	StoreID  *string
}

// FeedbackRepository persists feedback rows.
type FeedbackRepository interface {
	InsertIfAbsent(ctx context.Context, fb *domain.Feedback, contactSince time.Time) error
	ListByRecordingIDs(ctx context.Context, recordingIDs []string) ([]domain.Feedback, error)
	List(ctx context.Context, filter FeedbackFilter) ([]domain.Feedback, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository creates the repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

// InsertIfAbsent writes fb unless the recording already has feedback or the
// submitter used the same contact number at or after contactSince. Both checks
// and the insert share one serializable transaction; losing a serialization
// race yields ErrConcurrentSubmission.
func (r *feedbackRepository) InsertIfAbsent(ctx context.Context, fb *domain.Feedback, contactSince time.Time) error {
	payload, err := json.Marshal(fb.Payload)
	if err != nil {
		return err
	}
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}

	return serializationConflict(r.insertTx(ctx, fb, payload, contactSince))
}

// serializationConflict maps a serialization failure, raised by any statement
// or by the commit, to ErrConcurrentSubmission.
func serializationConflict(err error) error {
	if isPgCode(err, serializationFailure) {
		return ErrConcurrentSubmission
	}
	return err
}

func (r *feedbackRepository) insertTx(ctx context.Context, fb *domain.Feedback, payload []byte, contactSince time.Time) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM feedback WHERE recording_id=$1)`, fb.RecordingID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrFeedbackExists
	}

	if fb.ContactNumber != "" {
		const recentQuery = `
            SELECT EXISTS(
                SELECT 1 FROM feedback
                WHERE submitted_by=$1 AND contact_number=$2 AND created_at >= $3
            )`
		if err := tx.QueryRow(ctx, recentQuery, fb.SubmittedBy, fb.ContactNumber, contactSince).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrRecentContact
		}
	}

	const insert = `
        INSERT INTO feedback (id, recording_id, submitted_by, contact_number, billed, payload)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at, modified_at`
	if err := tx.QueryRow(ctx, insert,
		fb.ID,
		fb.RecordingID,
		fb.SubmittedBy,
		fb.ContactNumber,
		fb.Billed,
		payload,
	).Scan(&fb.CreatedAt, &fb.ModifiedAt); err != nil {
		if isPgCode(err, uniqueViolation) {
			return ErrFeedbackExists
		}
		return err
	}

	return tx.Commit(ctx)
}

const feedbackColumns = `f.id, f.recording_id, f.submitted_by, f.contact_number, f.billed, f.payload, f.created_at, f.modified_at`

func (r *feedbackRepository) ListByRecordingIDs(ctx context.Context, recordingIDs []string) ([]domain.Feedback, error) {
	if len(recordingIDs) == 0 {
		return []domain.Feedback{}, nil
	}
	return r.list(ctx, `SELECT `+feedbackColumns+` FROM feedback f WHERE f.recording_id = ANY($1)`, recordingIDs)
}

func (r *feedbackRepository) List(ctx context.Context, filter FeedbackFilter) ([]domain.Feedback, error) {
	if len(filter.OwnerIDs) == 0 {
		return []domain.Feedback{}, nil
	}
	where, args := recordingWhere(RecordingFilter{
		OwnerIDs: filter.OwnerIDs,
		Window:   filter.Window,
		StoreID:  filter.StoreID,
	}, "r")
	query := `SELECT ` + feedbackColumns + `
        FROM feedback f
        JOIN recordings r ON r.id = f.recording_id
        WHERE ` + where + `
        ORDER BY f.created_at DESC`
	return r.list(ctx, query, args...)
}

func (r *feedbackRepository) list(ctx context.Context, query string, args ...any) ([]domain.Feedback, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Feedback{}
	for rows.Next() {
		var (
			fb      domain.Feedback
			payload []byte
		)
		if err := rows.Scan(
			&fb.ID,
			&fb.RecordingID,
			&fb.SubmittedBy,
			&fb.ContactNumber,
			&fb.Billed,
			&payload,
			&fb.CreatedAt,
			&fb.ModifiedAt,
		); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &fb.Payload); err != nil {
				return nil, err
			}
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}
