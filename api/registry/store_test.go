package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreGetOrCreateCountry(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	a, err := s.GetOrCreateCountry(ctx, "Senegal")
	require.NoError(t, err)
	b, err := s.GetOrCreateCountry(ctx, "Senegal")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	u, err := s.GetOrCreateCountry(ctx, "  ")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", u.Name)
}

func TestMemStoreSiteLastImportWins(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	first, err := s.GetOrCreateSite(ctx, "Senegal", "BKL_0086", "BAKEL01")
	require.NoError(t, err)

	second, err := s.GetOrCreateSite(ctx, "Mali", "BKL_0086", "BAKEL-RENAMED")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Mali", second.Country)
	assert.Equal(t, "BAKEL-RENAMED", second.SiteName)

	// Empty name keeps the existing one.
	third, err := s.GetOrCreateSite(ctx, "Mali", "BKL_0086", "")
	require.NoError(t, err)
	assert.Equal(t, "BAKEL-RENAMED", third.SiteName)
}

func TestMemStoreGetSiteByName(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	_, err := s.GetOrCreateSite(ctx, "Senegal", "DKR_0001", "Dakar Nord")
	require.NoError(t, err)

	site, ok, err := s.GetSiteByName(ctx, " dakar nord ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "DKR_0001", site.SiteID)

	_, ok, err = s.GetSiteByName(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStoreListSitesFilter(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	s.GetOrCreateSite(ctx, "Senegal", "DKR_0001", "Dakar Nord")
	s.GetOrCreateSite(ctx, "Mali", "BMK_0001", "Bamako Sud")

	all, err := s.ListSites(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "BMK_0001", all[0].SiteID)

	sn, err := s.ListSites(ctx, "senegal")
	require.NoError(t, err)
	require.Len(t, sn, 1)
	assert.Equal(t, "DKR_0001", sn[0].SiteID)
}
