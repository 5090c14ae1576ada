package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-insights/internal/domain"
)

// UnitRepository reads regions, states and cities.
type UnitRepository interface {
	GetUnit(ctx context.Context, kind domain.UnitKind, id string) (*domain.OrgUnit, error)
	ListByOwners(ctx context.Context, kind domain.UnitKind, ownerIDs []string) ([]domain.OrgUnit, error)
}

type unitRepository struct {
	pool *pgxpool.Pool
}

// NewUnitRepository builds the repository.
func NewUnitRepository(pool *pgxpool.Pool) UnitRepository {
	return &unitRepository{pool: pool}
}

func (r *unitRepository) GetUnit(ctx context.Context, kind domain.UnitKind, id string) (*domain.OrgUnit, error) {
	const query = `
        SELECT id, kind, name, owner_account_id, status, created_at
        FROM org_units WHERE kind=$1 AND id=$2`
	var (
		unit   domain.OrgUnit
		status int16
	)
	if err := r.pool.QueryRow(ctx, query, string(kind), id).Scan(
		&unit.ID,
		&unit.Kind,
		&unit.Name,
		&unit.OwnerAccountID,
		&status,
		&unit.CreatedAt,
	); err != nil {
		return nil, err
	}
	unit.Status = domain.AccountStatus(status)
	return &unit, nil
}

func (r *unitRepository) ListByOwners(ctx context.Context, kind domain.UnitKind, ownerIDs []string) ([]domain.OrgUnit, error) {
	if len(ownerIDs) == 0 {
		return []domain.OrgUnit{}, nil
	}
	const query = `
        SELECT id, kind, name, owner_account_id, status, created_at
        FROM org_units WHERE kind=$1 AND owner_account_id = ANY($2)
        ORDER BY name`
	rows, err := r.pool.Query(ctx, query, string(kind), ownerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.OrgUnit{}
	for rows.Next() {
		var (
			unit   domain.OrgUnit
			status int16
		)
		if err := rows.Scan(&unit.ID, &unit.Kind, &unit.Name, &unit.OwnerAccountID, &status, &unit.CreatedAt); err != nil {
			return nil, err
		}
		unit.Status = domain.AccountStatus(status)
		result = append(result, unit)
	}
	return result, rows.Err()
}
