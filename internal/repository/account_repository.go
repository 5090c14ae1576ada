package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-insights/internal/domain"
)

// AccountRepository handles persistence for hierarchy accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByContactID(ctx context.Context, contactID string) (*domain.Account, error)
	ListByManagerRefs(ctx context.Context, businessID string, refs []string) ([]domain.Account, error)
	ListByBusiness(ctx context.Context, businessID string) ([]domain.Account, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Account, error)
	ListByContactIDs(ctx context.Context, businessID string, contactIDs []string) ([]domain.Account, error)
	TouchLastLogin(ctx context.Context, id string) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository instantiates the repository.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, name, contact_id, code, phone, password_hash, role, manager_ref, business_id, status, last_login_at, created_at, modified_at`

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id)
	return scanAccount(row)
}

func (r *accountRepository) GetByContactID(ctx context.Context, contactID string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE lower(contact_id)=lower($1)`, contactID)
	return scanAccount(row)
}

// ListByManagerRefs fetches every account managed by any of refs in one query.
func (r *accountRepository) ListByManagerRefs(ctx context.Context, businessID string, refs []string) ([]domain.Account, error) {
	if len(refs) == 0 {
		return []domain.Account{}, nil
	}
	const query = `SELECT ` + accountColumns + `
        FROM accounts
        WHERE business_id=$1 AND manager_ref = ANY($2)
        ORDER BY created_at`
	return r.list(ctx, query, businessID, refs)
}

func (r *accountRepository) ListByBusiness(ctx context.Context, businessID string) ([]domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE business_id=$1 ORDER BY created_at`
	return r.list(ctx, query, businessID)
}

func (r *accountRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Account, error) {
	if len(ids) == 0 {
		return []domain.Account{}, nil
	}
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ANY($1)`, ids)
}

func (r *accountRepository) ListByContactIDs(ctx context.Context, businessID string, contactIDs []string) ([]domain.Account, error) {
	if len(contactIDs) == 0 {
		return []domain.Account{}, nil
	}
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE business_id=$1 AND contact_id = ANY($2)`
	return r.list(ctx, query, businessID, contactIDs)
}

func (r *accountRepository) TouchLastLogin(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE accounts SET last_login_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) list(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *account)
	}
	return result, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account domain.Account
		role    int16
		status  int16
	)
	if err := row.Scan(
		&account.ID,
		&account.Name,
		&account.ContactID,
		&account.Code,
		&account.Phone,
		&account.PasswordHash,
		&role,
		&account.ManagerRef,
		&account.BusinessID,
		&status,
		&account.LastLoginAt,
		&account.CreatedAt,
		&account.ModifiedAt,
	); err != nil {
		return nil, err
	}
	account.Role = domain.RoleLevel(role)
	account.Status = domain.AccountStatus(status)
	return &account, nil
}
