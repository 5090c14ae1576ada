// Package hierarchy expands an account into the set of accounts it manages.
package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/observability"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// AccountStore is the read side of account persistence the resolver needs.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	ListByManagerRefs(ctx context.Context, businessID string, refs []string) ([]domain.Account, error)
	ListByBusiness(ctx context.Context, businessID string) ([]domain.Account, error)
}

// Resolver computes downlines from manager references. Nothing is cached:
// every call reads the current links.
type Resolver struct {
	accounts AccountStore
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewResolver builds a resolver.
func NewResolver(accounts AccountStore, logger *zap.Logger, metrics *observability.Metrics) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{accounts: accounts, logger: logger, metrics: metrics}
}

// Resolve returns every account transitively managed by rootID when acting
// at rootRole. The root itself is never part of the result.
//
// L4 resolves to the whole business in one query. L1..L3 expand breadth
// first for exactly rootRole hops with one batched query per hop. L0 has no
// downline.
func (r *Resolver) Resolve(ctx context.Context, rootID string, rootRole domain.RoleLevel) ([]domain.Account, error) {
	if !rootRole.Valid() {
		return nil, apperrors.NewForbidden(fmt.Sprintf("unsupported role level %d", int(rootRole)))
	}

	root, err := r.accounts.GetByID(ctx, rootID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"account_id": rootID})
		}
		return nil, apperrors.MapError(err)
	}

	switch rootRole {
	case domain.RoleL0:
		r.metrics.ObserveHierarchyRounds(rootRole.String(), 0)
		return []domain.Account{}, nil
	case domain.RoleL4:
		return r.resolveBusiness(ctx, root)
	default:
		return r.expand(ctx, root, int(rootRole))
	}
}

// ResolveIDs is Resolve reduced to account ids.
func (r *Resolver) ResolveIDs(ctx context.Context, rootID string, rootRole domain.RoleLevel) ([]string, error) {
	accounts, err := r.Resolve(ctx, rootID, rootRole)
	if err != nil {
		return nil, err
	}
	return IDs(accounts), nil
}

func (r *Resolver) resolveBusiness(ctx context.Context, root *domain.Account) ([]domain.Account, error) {
	members, err := r.accounts.ListByBusiness(ctx, root.BusinessID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	r.metrics.ObserveHierarchyRounds(domain.RoleL4.String(), 1)

	seen := map[string]struct{}{root.ID: {}}
	result := make([]domain.Account, 0, len(members))
	for _, member := range members {
		if _, dup := seen[member.ID]; dup {
			continue
		}
		seen[member.ID] = struct{}{}
		result = append(result, member)
	}
	return result, nil
}

func (r *Resolver) expand(ctx context.Context, root *domain.Account, hops int) ([]domain.Account, error) {
	visited := map[string]struct{}{root.ID: {}}
	frontier := []domain.Account{*root}
	var result []domain.Account

	rounds := 0
	for hop := 0; hop < hops && len(frontier) > 0; hop++ {
		refs := contactRefs(frontier)
		if len(refs) == 0 {
			break
		}

		batch, err := r.accounts.ListByManagerRefs(ctx, root.BusinessID, refs)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		rounds++

		next := make([]domain.Account, 0, len(batch))
		for _, account := range batch {
			if _, seen := visited[account.ID]; seen {
				r.logger.Debug("dropping revisited account during hierarchy expansion",
					zap.String("root_id", root.ID),
					zap.String("account_id", account.ID),
					zap.Int("hop", hop+1))
				continue
			}
			visited[account.ID] = struct{}{}
			next = append(next, account)
		}
		result = append(result, next...)
		frontier = next
	}

	r.metrics.ObserveHierarchyRounds(domain.RoleLevel(hops).String(), rounds)
	if result == nil {
		result = []domain.Account{}
	}
	return result, nil
}

func contactRefs(frontier []domain.Account) []string {
	set := make(map[string]struct{}, len(frontier))
	refs := make([]string, 0, len(frontier))
	for _, account := range frontier {
		if account.ContactID == "" {
			continue
		}
		if _, ok := set[account.ContactID]; ok {
			continue
		}
		set[account.ContactID] = struct{}{}
		refs = append(refs, account.ContactID)
	}
	return refs
}

// IDs extracts account ids preserving order.
func IDs(accounts []domain.Account) []string {
	ids := make([]string, 0, len(accounts))
	for _, account := range accounts {
		ids = append(ids, account.ID)
	}
	return ids
}
