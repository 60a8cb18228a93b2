package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/cache"
	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/andresuchdata/m2go-inventory/internal/engine"
	"github.com/andresuchdata/m2go-inventory/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultMaxLookbackDays = 90

// Sources named in FetchError
const (
	SourceProducts = "products"
	SourceCounts   = "counts"
	SourceBalances = "balances"
	SourceSettings = "settings"
)

// FetchError reports which engine input could not be read. No suggestions are
// produced when any input is missing.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type SuggestionService struct {
	catalog         repository.CatalogRepository
	counts          repository.CountRepository
	balances        repository.BalanceRepository
	settings        repository.SettingsRepository
	engine          *engine.Engine
	cache           cache.SuggestionCache
	maxLookbackDays int
	now             func() time.Time
}

func NewSuggestionService(
	catalog repository.CatalogRepository,
	counts repository.CountRepository,
	balances repository.BalanceRepository,
	settings repository.SettingsRepository,
	eng *engine.Engine,
	cacheImpl cache.SuggestionCache,
	maxLookbackDays int,
) *SuggestionService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSuggestionCache()
	}
	if maxLookbackDays <= 0 {
		maxLookbackDays = defaultMaxLookbackDays
	}
	return &SuggestionService{
		catalog:         catalog,
		counts:          counts,
		balances:        balances,
		settings:        settings,
		engine:          eng,
		cache:           cacheImpl,
		maxLookbackDays: maxLookbackDays,
		now:             time.Now,
	}
}

// SetLocation makes "today" follow the kitchen's timezone instead of the host's.
func (s *SuggestionService) SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	s.now = func() time.Time { return time.Now().In(loc) }
}

// NextDelivery returns the date the cycle's next delivery arrives, counted from today in the kitchen's timezone.
func (s *SuggestionService) NextDelivery(cycle domain.OrderCycle) time.Time {
	return cycle.NextDelivery(s.now())
}

// Suggest loads the four engine inputs concurrently and runs the engine for the cycle.
func (s *SuggestionService) Suggest(ctx context.Context, cycle domain.OrderCycle) ([]domain.Suggestion, error) {
	if !cycle.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCycle, cycle)
	}

	now := s.now()
	if cached, ok, err := s.cache.Get(ctx, cycle, now); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("suggestions: cache get failed")
	}

	start := time.Now()
	snap, err := s.loadSnapshot(ctx, now)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.engine.Suggest(snap, cycle)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("cycle", string(cycle)).
		Int("products", len(snap.Products)).
		Int("suggestions", len(suggestions)).
		Dur("duration", time.Since(start)).
		Msg("suggestions computed")

	if err := s.cache.Set(ctx, cycle, now, suggestions); err != nil {
		log.Warn().Err(err).Msg("suggestions: cache set failed")
	}

	return suggestions, nil
}

func (s *SuggestionService) loadSnapshot(ctx context.Context, now time.Time) (engine.Snapshot, error) {
	var (
		products []domain.Product
		counts   []domain.CountRecord
		balances []domain.InventoryBalance
		raw      map[string]string
	)

	since := now.AddDate(0, 0, -s.maxLookbackDays)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.catalog.ListActiveProducts(gctx)
		return wrapFetch(SourceProducts, err)
	})
	g.Go(func() (err error) {
		counts, err = s.counts.ListCountsSince(gctx, since)
		return wrapFetch(SourceCounts, err)
	})
	g.Go(func() (err error) {
		balances, err = s.balances.ListBalances(gctx)
		return wrapFetch(SourceBalances, err)
	})
	g.Go(func() (err error) {
		raw, err = s.settings.GetSettings(gctx)
		return wrapFetch(SourceSettings, err)
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("suggestions: input fetch failed")
		return engine.Snapshot{}, err
	}

	settings, warnings := domain.ParseSettingsWithWarnings(raw)
	for _, w := range warnings {
		log.Warn().Str("setting", w).Msg("suggestions: setting fell back to default")
	}
	if settings.LookbackDays > s.maxLookbackDays {
		log.Warn().
			Int("lookback_days", settings.LookbackDays).
			Int("max_lookback_days", s.maxLookbackDays).
			Msg("suggestions: lookback longer than fetched history, clamping")
		settings.LookbackDays = s.maxLookbackDays
	}

	return engine.Snapshot{
		Products: products,
		Counts:   counts,
		Balances: balances,
		Settings: settings,
		Now:      now,
	}, nil
}

func wrapFetch(source string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Source: source, Err: err}
}
