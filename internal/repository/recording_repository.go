package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-insights/internal/domain"
)

// RecordingFilter narrows recording queries. OwnerIDs is mandatory; an empty
// slice matches nothing.
type RecordingFilter struct {
	OwnerIDs []string
	Window   *domain.TimeWindow
	StoreID  *string
	Limit    int
}

// RecordingRollup is the per-owner summary used for team listings.
type RecordingRollup struct {
	OwnerID               string
	Count                 int
	TotalDurationSeconds  float64
	TotalListeningSeconds float64
}

// RecordingRepository persists recordings.
type RecordingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Recording, error)
	List(ctx context.Context, filter RecordingFilter) ([]domain.Recording, error)
	SummarizeByOwners(ctx context.Context, filter RecordingFilter) ([]RecordingRollup, error)
	UpdateListening(ctx context.Context, id string, seconds float64, at time.Time) error
	UpdateTranscriptionStatus(ctx context.Context, id string, status domain.TranscriptionStatus) error
}

type recordingRepository struct {
	pool *pgxpool.Pool
}

// NewRecordingRepository creates the repository.
func NewRecordingRepository(pool *pgxpool.Pool) RecordingRepository {
	return &recordingRepository{pool: pool}
}

const recordingColumns = `id, owner_account_id, store_id, file_url, start_time, end_time, duration_seconds,
        audio_size_mb, listening_seconds, last_listened_at, transcription_status, created_at, modified_at`

func (r *recordingRepository) GetByID(ctx context.Context, id string) (*domain.Recording, error) {
	return scanRecording(r.pool.QueryRow(ctx, `SELECT `+recordingColumns+` FROM recordings WHERE id=$1`, id))
}

func (r *recordingRepository) List(ctx context.Context, filter RecordingFilter) ([]domain.Recording, error) {
	if len(filter.OwnerIDs) == 0 {
		return []domain.Recording{}, nil
	}
	where, args := recordingWhere(filter, "")
	query := `SELECT ` + recordingColumns + ` FROM recordings WHERE ` + where + ` ORDER BY start_time DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Recording{}
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

func (r *recordingRepository) SummarizeByOwners(ctx context.Context, filter RecordingFilter) ([]RecordingRollup, error) {
	if len(filter.OwnerIDs) == 0 {
		return []RecordingRollup{}, nil
	}
	where, args := recordingWhere(filter, "")
	query := `
        SELECT owner_account_id, COUNT(*), COALESCE(SUM(duration_seconds), 0), COALESCE(SUM(listening_seconds), 0)
        FROM recordings
        WHERE ` + where + `
        GROUP BY owner_account_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []RecordingRollup{}
	for rows.Next() {
		var rollup RecordingRollup
		if err := rows.Scan(&rollup.OwnerID, &rollup.Count, &rollup.TotalDurationSeconds, &rollup.TotalListeningSeconds); err != nil {
			return nil, err
		}
		result = append(result, rollup)
	}
	return result, rows.Err()
}

func (r *recordingRepository) UpdateListening(ctx context.Context, id string, seconds float64, at time.Time) error {
	const query = `
        UPDATE recordings
        SET listening_seconds=$2, last_listened_at=$3, modified_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id, seconds, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *recordingRepository) UpdateTranscriptionStatus(ctx context.Context, id string, status domain.TranscriptionStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE recordings SET transcription_status=$2, modified_at=NOW() WHERE id=$1`, id, int16(status))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// recordingWhere builds the shared predicate. alias prefixes column names when
// the recordings table is joined.
func recordingWhere(filter RecordingFilter, alias string) (string, []any) {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}

	args := []any{filter.OwnerIDs}
	clauses := []string{col("owner_account_id") + " = ANY($1)"}
	if filter.Window != nil {
		args = append(args, filter.Window.Start, filter.Window.End)
		clauses = append(clauses, fmt.Sprintf("%s BETWEEN $%d AND $%d", col("created_at"), len(args)-1, len(args)))
	}
	if filter.StoreID != nil {
		args = append(args, *filter.StoreID)
		clauses = append(clauses, fmt.Sprintf("%s=$%d", col("store_id"), len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func scanRecording(row pgx.Row) (*domain.Recording, error) {
	var (
		rec    domain.Recording
		status int16
	)
	if err := row.Scan(
		&rec.ID,
		&rec.OwnerAccountID,
		&rec.StoreID,
		&rec.FileURL,
		&rec.StartTime,
		&rec.EndTime,
		&rec.DurationSeconds,
		&rec.AudioSizeMB,
		&rec.ListeningSeconds,
		&rec.LastListenedAt,
		&status,
		&rec.CreatedAt,
		&rec.ModifiedAt,
	); err != nil {
		return nil, err
	}
	rec.TranscriptionStatus = domain.TranscriptionStatus(status)
	return &rec, nil
}
