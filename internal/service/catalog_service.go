package service

import (
	"context"

	"github.com/andresuchdata/m2go-inventory/internal/cache"
	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/andresuchdata/m2go-inventory/internal/repository"
	"github.com/rs/zerolog/log"
)

type CatalogService struct {
	repo  repository.CatalogRepository
	cache cache.SuggestionCache
}

func NewCatalogService(repo repository.CatalogRepository, cacheImpl cache.SuggestionCache) *CatalogService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSuggestionCache()
	}
	return &CatalogService{repo: repo, cache: cacheImpl}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = make([]domain.Product, 0)
	}
	return products, nil
}

// SeedIfEmpty inserts the given catalog only when no product exists yet.
// It reports whether anything was inserted.
func (s *CatalogService) SeedIfEmpty(ctx context.Context, products []domain.Product) (bool, error) {
	n, err := s.repo.CountProducts(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		log.Info().Int("products", n).Msg("catalog already seeded, skipping")
		return false, nil
	}
	if err := s.repo.CreateProducts(ctx, products); err != nil {
		return false, err
	}
	log.Info().Int("products", len(products)).Msg("catalog seeded")

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("catalog: cache invalidate failed")
	}
	return true, nil
}
