package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/field-insights/internal/domain"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

func TestListTeam(t *testing.T) {
	h := newHarness(t)
	h.addRecording("rec-1", "o1", "store-1", 1, 9, 3600)
	h.addRecording("rec-2", "o1", "store-1", 2, 9, 1800)
	ctx := context.Background()

	city, err := h.org.Units.GetUnit(ctx, domain.UnitCity, "city-1")
	require.NoError(t, err)

	team, err := h.accounts.ListTeam(ctx, who("a1", domain.RoleL1))
	require.NoError(t, err)
	require.Len(t, team, 2)

	o1 := team[0]
	assert.Equal(t, "o1", o1.ID)
	assert.Equal(t, "name-a1", o1.ManagerName)
	assert.Equal(t, "Store store-1", o1.StoreName)
	assert.Equal(t, city.Name, o1.CityName)
	assert.Equal(t, 2, o1.RecordingCount)
	assert.Equal(t, 1.5, o1.RecordingHours)

	assert.Equal(t, "o2", team[1].ID)
	assert.Zero(t, team[1].RecordingCount)
}

func TestListTeamOfOperativeIsEmpty(t *testing.T) {
	h := newHarness(t)
	team, err := h.accounts.ListTeam(context.Background(), who("o1", domain.RoleL0))
	require.NoError(t, err)
	assert.Empty(t, team)
}

func TestListRegions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.accounts.ListRegions(ctx, who("r1", domain.RoleL2))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	regions, err := h.accounts.ListRegions(ctx, who("s1", domain.RoleL3))
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "region-1", regions[0].ID)

	regions, err = h.accounts.ListRegions(ctx, who("owner", domain.RoleL4))
	require.NoError(t, err)
	assert.Len(t, regions, 2)
}

func TestListStores(t *testing.T) {
	h := newHarness(t)
	stores, err := h.accounts.ListStores(context.Background(), who("r1", domain.RoleL2))
	require.NoError(t, err)

	ids := make([]string, 0, len(stores))
	for _, st := range stores {
		ids = append(ids, st.ID)
	}
	assert.ElementsMatch(t, []string{"store-1", "store-2", "store-3"}, ids)
}
