package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-insights/internal/domain"
)

// StoreRepository reads stores.
type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Store, error)
	ListByOwners(ctx context.Context, ownerIDs []string) ([]domain.Store, error)
}

type storeRepository struct {
	pool *pgxpool.Pool
}

// NewStoreRepository builds the repository.
func NewStoreRepository(pool *pgxpool.Pool) StoreRepository {
	return &storeRepository{pool: pool}
}

const storeColumns = `id, name, code, address, owner_account_id, business_id, status, created_at, modified_at`

func (r *storeRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	return scanStore(r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id=$1`, id))
}

func (r *storeRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Store, error) {
	if len(ids) == 0 {
		return []domain.Store{}, nil
	}
	return r.list(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = ANY($1)`, ids)
}

func (r *storeRepository) ListByOwners(ctx context.Context, ownerIDs []string) ([]domain.Store, error) {
	if len(ownerIDs) == 0 {
		return []domain.Store{}, nil
	}
	return r.list(ctx, `SELECT `+storeColumns+` FROM stores WHERE owner_account_id = ANY($1) ORDER BY name`, ownerIDs)
}

func (r *storeRepository) list(ctx context.Context, query string, args ...any) ([]domain.Store, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Store{}
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *store)
	}
	return result, rows.Err()
}

func scanStore(row pgx.Row) (*domain.Store, error) {
	var (
		store  domain.Store
		status int16
	)
	if err := row.Scan(
		&store.ID,
		&store.Name,
		&store.Code,
		&store.Address,
		&store.OwnerAccountID,
		&store.BusinessID,
		&status,
		&store.CreatedAt,
		&store.ModifiedAt,
	); err != nil {
		return nil, err
	}
	store.Status = domain.AccountStatus(status)
	return &store, nil
}
