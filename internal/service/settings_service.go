package service

import (
	"context"

	"github.com/andresuchdata/m2go-inventory/internal/cache"
	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/andresuchdata/m2go-inventory/internal/repository"
	"github.com/rs/zerolog/log"
)

type SettingsService struct {
	repo  repository.SettingsRepository
	cache cache.SuggestionCache
}

func NewSettingsService(repo repository.SettingsRepository, cacheImpl cache.SuggestionCache) *SettingsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSuggestionCache()
	}
	return &SettingsService{repo: repo, cache: cacheImpl}
}

// Get returns the typed settings with defaults filled in for missing or bad values.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	raw, err := s.repo.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	settings, warnings := domain.ParseSettingsWithWarnings(raw)
	for _, w := range warnings {
		log.Warn().Str("setting", w).Msg("settings: stored value ignored")
	}
	return settings, nil
}

func (s *SettingsService) Update(ctx context.Context, settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.repo.SaveSettings(ctx, settings.Values()); err != nil {
		return err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("settings: cache invalidate failed")
	}
	return nil
}

// EnsureDefaults stores the default value for every key that is not set yet.
func (s *SettingsService) EnsureDefaults(ctx context.Context) error {
	return s.repo.EnsureDefaults(ctx, domain.DefaultSettingValues)
}
