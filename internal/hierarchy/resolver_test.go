package hierarchy

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/field-insights/internal/domain"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

func TestResolveRegionalHeadReturnsTransitiveDownline(t *testing.T) {
	store := orgTree()
	resolver := NewResolver(store, zaptest.NewLogger(t), nil)

	got, err := resolver.Resolve(context.Background(), "r1", domain.RoleL2)
	require.NoError(t, err)

	assert.Equal(t, []string{"a1", "a2", "o1", "o2", "o3"}, sortedIDs(got))
	assert.Equal(t, 2, store.managerCalls)
}

func TestResolveDeduplicatesRedundantPaths(t *testing.T) {
	store := orgTree()
	// a duplicate row for o1 reachable through both a1 and a2
	dup := account("o1", domain.RoleL0, "a2")
	store.order = append(store.order, "o1-dup")
	store.byID["o1-dup"] = dup

	resolver := NewResolver(store, zaptest.NewLogger(t), nil)
	got, err := resolver.Resolve(context.Background(), "r1", domain.RoleL2)
	require.NoError(t, err)

	assert.Equal(t, []string{"a1", "a2", "o1", "o2", "o3"}, sortedIDs(got))
}

func TestResolveRoundBounds(t *testing.T) {
	tests := []struct {
		name      string
		root      string
		role      domain.RoleLevel
		maxRounds int
		want      int
	}{
		{name: "state head", root: "s1", role: domain.RoleL3, maxRounds: 3, want: 6},
		{name: "area head", root: "a1", role: domain.RoleL1, maxRounds: 1, want: 2},
		{name: "operative", root: "o1", role: domain.RoleL0, maxRounds: 0, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := orgTree()
			resolver := NewResolver(store, zaptest.NewLogger(t), nil)

			got, err := resolver.Resolve(context.Background(), tc.root, tc.role)
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
			assert.LessOrEqual(t, store.managerCalls, tc.maxRounds)
		})
	}
}

func TestResolveBusinessOwnerExcludesRoot(t *testing.T) {
	store := orgTree()
	resolver := NewResolver(store, zaptest.NewLogger(t), nil)

	got, err := resolver.Resolve(context.Background(), "owner", domain.RoleL4)
	require.NoError(t, err)

	assert.Len(t, got, 11)
	assert.NotContains(t, IDs(got), "owner")
	assert.Equal(t, 1, store.businessCalls)
	assert.Zero(t, store.managerCalls)
}

func TestResolveBusinessMatchesUnionOfStateClosures(t *testing.T) {
	store := orgTree()
	resolver := NewResolver(store, zaptest.NewLogger(t), nil)
	ctx := context.Background()

	whole, err := resolver.Resolve(ctx, "owner", domain.RoleL4)
	require.NoError(t, err)

	union := map[string]struct{}{}
	for _, id := range []string{"s1", "s2"} {
		union[id] = struct{}{}
		closure, err := resolver.Resolve(ctx, id, domain.RoleL3)
		require.NoError(t, err)
		for _, a := range closure {
			union[a.ID] = struct{}{}
		}
	}

	unionIDs := make([]string, 0, len(union))
	for id := range union {
		unionIDs = append(unionIDs, id)
	}
	sort.Strings(unionIDs)

	assert.Equal(t, sortedIDs(whole), unionIDs)
}

func TestResolveExcludesOtherBusinesses(t *testing.T) {
	store := orgTree()
	foreign := account("x1", domain.RoleL1, "r1")
	foreign.BusinessID = "biz-2"
	store.add(foreign)

	resolver := NewResolver(store, zaptest.NewLogger(t), nil)
	got, err := resolver.Resolve(context.Background(), "r1", domain.RoleL2)
	require.NoError(t, err)
	assert.NotContains(t, IDs(got), "x1")
}

func TestResolveSurvivesCycles(t *testing.T) {
	// a1 -> a2 -> a1 management loop plus a self reference on o1
	a1 := account("a1", domain.RoleL1, "a2")
	a2 := account("a2", domain.RoleL1, "a1")
	o1 := account("o1", domain.RoleL0, "o1")
	store := newFakeAccounts(a1, a2, o1)

	resolver := NewResolver(store, zaptest.NewLogger(t), nil)
	got, err := resolver.Resolve(context.Background(), "a1", domain.RoleL3)
	require.NoError(t, err)

	assert.Equal(t, []string{"a2"}, sortedIDs(got))
	assert.LessOrEqual(t, store.managerCalls, 3)
}

func TestResolveUnknownRoot(t *testing.T) {
	resolver := NewResolver(orgTree(), zaptest.NewLogger(t), nil)

	_, err := resolver.Resolve(context.Background(), "ghost", domain.RoleL2)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolveRejectsInvalidRole(t *testing.T) {
	resolver := NewResolver(orgTree(), zaptest.NewLogger(t), nil)

	_, err := resolver.Resolve(context.Background(), "r1", domain.RoleLevel(9))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
