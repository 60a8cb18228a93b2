package service

import (
	"context"
	"testing"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogServiceSeedIfEmpty(t *testing.T) {
	repo := &stubCatalogRepo{}
	c := newMemoryCache()
	svc := NewCatalogService(repo, c)
	ctx := context.Background()

	empty, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)

	seeded, err := svc.SeedIfEmpty(ctx, []domain.Product{{Name: "Beef", Category: domain.CategoryProtein, IsActive: true}})
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Equal(t, 1, c.invalidated)

	seeded, err = svc.SeedIfEmpty(ctx, []domain.Product{{Name: "Pork"}})
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, 1, c.invalidated, "a skipped seed leaves cached suggestions alone")
}
