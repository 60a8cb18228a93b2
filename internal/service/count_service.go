package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/m2go-inventory/internal/cache"
	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/andresuchdata/m2go-inventory/internal/repository"
	"github.com/rs/zerolog/log"
)

type CountService struct {
	repo  repository.CountRepository
	cache cache.SuggestionCache
}

func NewCountService(repo repository.CountRepository, cacheImpl cache.SuggestionCache) *CountService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSuggestionCache()
	}
	return &CountService{repo: repo, cache: cacheImpl}
}

// Record stores a physical count and sets the variant's balance to it.
func (s *CountService) Record(ctx context.Context, rec *domain.CountRecord) error {
	if err := s.record(ctx, rec); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Bulk returns a recorder that defers cache invalidation until Flush.
func (s *CountService) Bulk() *BulkRecorder {
	return &BulkRecorder{svc: s}
}

func (s *CountService) record(ctx context.Context, rec *domain.CountRecord) error {
	if rec.VariantID <= 0 {
		return fmt.Errorf("%w: variant_id is required", domain.ErrInvalidInput)
	}
	if rec.CountedQty < 0 {
		return fmt.Errorf("%w: counted_qty must not be negative", domain.ErrInvalidInput)
	}
	if rec.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}

	if err := s.repo.RecordCount(ctx, rec); err != nil {
		return err
	}

	log.Debug().
		Int64("variant_id", rec.VariantID).
		Str("date", rec.Date.Format(domain.DateLayout)).
		Float64("counted_qty", rec.CountedQty).
		Msg("count recorded")
	return nil
}

func (s *CountService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("counts: cache invalidate failed")
	}
}

// BulkRecorder records counts like CountService.Record but clears cached
// suggestions once per batch. It is not safe for concurrent use.
type BulkRecorder struct {
	svc     *CountService
	pending int
}

func (b *BulkRecorder) Record(ctx context.Context, rec *domain.CountRecord) error {
	if err := b.svc.record(ctx, rec); err != nil {
		return err
	}
	b.pending++
	return nil
}

// Flush invalidates cached suggestions if any count was recorded since the last flush.
func (b *BulkRecorder) Flush(ctx context.Context) error {
	if b.pending == 0 {
		return nil
	}
	b.pending = 0
	return b.svc.cache.InvalidateAll(ctx)
}
