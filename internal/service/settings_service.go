package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/domain/srs"
	"github.com/phrazzld/kioku/internal/events"
	"github.com/phrazzld/kioku/internal/store"
)

// SettingsService owns the four persisted settings categories. Getters
// return defensive copies; updaters validate, replace the whole category,
// and re-persist it.
type SettingsService struct {
	mu sync.Mutex

	forgetting domain.ForgettingSettings
	flashcard  domain.FlashcardSettings
	darkMode   domain.DarkModeSettings
	sort       domain.SortSettings

	settingsStore store.SettingsStore
	emitter       events.Emitter
	logger        *slog.Logger
}

// NewSettingsService loads every category once at startup, falling back to
// the built-in defaults for categories that were never saved or fail to load.
func NewSettingsService(
	settingsStore store.SettingsStore,
	emitter events.Emitter,
	logger *slog.Logger,
) (*SettingsService, error) {
	if settingsStore == nil {
		return nil, errors.New("settings service: settingsStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &SettingsService{
		settingsStore: settingsStore,
		emitter:       emitter,
		logger:        logger.With(slog.String("component", "settings_service")),
	}

	ctx := context.Background()
	s.forgetting = loadOrDefault(ctx, s.logger, "forgettingSettings",
		settingsStore.LoadForgetting, domain.DefaultForgettingSettings)
	s.flashcard = loadOrDefault(ctx, s.logger, "flashcardSettings",
		settingsStore.LoadFlashcard, domain.DefaultFlashcardSettings)
	s.darkMode = loadOrDefault(ctx, s.logger, "darkModeSettings",
		settingsStore.LoadDarkMode, domain.DefaultDarkModeSettings)
	s.sort = loadOrDefault(ctx, s.logger, "sortSettings",
		settingsStore.LoadSort, domain.DefaultSortSettings)

	return s, nil
}

func loadOrDefault[T any](
	ctx context.Context,
	logger *slog.Logger,
	key string,
	load func(context.Context) (T, error),
	defaults func() T,
) T {
	v, err := load(ctx)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.Warn("failed to load settings, using defaults",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return defaults()
	}
	return v
}

func (s *SettingsService) emitChanged(ctx context.Context) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewEvent(events.TypeSettingsChanged, nil)
	if err != nil {
		return
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.Error("event handler error", slog.String("error", err.Error()))
	}
}

// GetForgettingSettings returns a copy of the forgetting-curve settings.
func (s *SettingsService) GetForgettingSettings() domain.ForgettingSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forgetting.Clone()
}

// UpdateForgettingSettings validates and replaces the forgetting-curve
// settings, re-persisting the whole object.
func (s *SettingsService) UpdateForgettingSettings(ctx context.Context, v domain.ForgettingSettings) error {
	if err := v.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgetting = v.Clone()
	s.persistForgetting(ctx)
	s.emitChanged(ctx)
	return nil
}

// GetFlashcardSettings returns a copy of the flashcard display settings.
func (s *SettingsService) GetFlashcardSettings() domain.FlashcardSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flashcard
}

// UpdateFlashcardSettings replaces the flashcard display settings.
func (s *SettingsService) UpdateFlashcardSettings(ctx context.Context, v domain.FlashcardSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashcard = v
	s.persistSoft(ctx, "flashcardSettings", func() error {
		return s.settingsStore.SaveFlashcard(ctx, s.flashcard)
	})
	s.emitChanged(ctx)
	return nil
}

// GetDarkModeSettings returns a copy of the dark mode settings.
func (s *SettingsService) GetDarkModeSettings() domain.DarkModeSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

// UpdateDarkModeSettings replaces the dark mode settings.
func (s *SettingsService) UpdateDarkModeSettings(ctx context.Context, v domain.DarkModeSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = v
	s.persistSoft(ctx, "darkModeSettings", func() error {
		return s.settingsStore.SaveDarkMode(ctx, s.darkMode)
	})
	s.emitChanged(ctx)
	return nil
}

// ToggleDarkMode flips the dark mode flag and returns the new state.
func (s *SettingsService) ToggleDarkMode(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode.Enabled = !s.darkMode.Enabled
	s.persistSoft(ctx, "darkModeSettings", func() error {
		return s.settingsStore.SaveDarkMode(ctx, s.darkMode)
	})
	s.emitChanged(ctx)
	return s.darkMode.Enabled
}

// GetSortSettings returns a copy of the sort settings.
func (s *SettingsService) GetSortSettings() domain.SortSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// UpdateSortSettings validates and replaces the sort settings.
func (s *SettingsService) UpdateSortSettings(ctx context.Context, v domain.SortSettings) error {
	if err := v.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = v
	s.persistSort(ctx)
	s.emitChanged(ctx)
	return nil
}

// ChangeSortOrder flips the direction when the requested field is already
// active; a new field is adopted with descending as the default direction
// (most recent first). Returns the resulting sort settings.
func (s *SettingsService) ChangeSortOrder(ctx context.Context, field domain.SortField) (domain.SortSettings, error) {
	probe := domain.SortSettings{Field: field, Direction: domain.SortDesc}
	if err := probe.Validate(); err != nil {
		return domain.SortSettings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if field == s.sort.Field {
		if s.sort.Direction == domain.SortAsc {
			s.sort.Direction = domain.SortDesc
		} else {
			s.sort.Direction = domain.SortAsc
		}
	} else {
		s.sort = domain.SortSettings{Field: field, Direction: domain.SortDesc}
	}

	s.persistSort(ctx)
	s.emitChanged(ctx)
	return s.sort, nil
}

// ResetToDefaults restores every category to its built-in default and
// persists each one independently.
func (s *SettingsService) ResetToDefaults(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forgetting = domain.DefaultForgettingSettings()
	s.flashcard = domain.DefaultFlashcardSettings()
	s.darkMode = domain.DefaultDarkModeSettings()
	s.sort = domain.DefaultSortSettings()

	s.persistForgetting(ctx)
	s.persistSoft(ctx, "flashcardSettings", func() error {
		return s.settingsStore.SaveFlashcard(ctx, s.flashcard)
	})
	s.persistSoft(ctx, "darkModeSettings", func() error {
		return s.settingsStore.SaveDarkMode(ctx, s.darkMode)
	})
	s.persistSort(ctx)
	s.emitChanged(ctx)
}

// GenerateIntervals returns an interval table sized for the given review
// count, extending the currently configured table with generated steps.
func (s *SettingsService) GenerateIntervals(count int) []int {
	s.mu.Lock()
	existing := append([]int{}, s.forgetting.Intervals...)
	s.mu.Unlock()
	return srs.GenerateIntervals(count, existing)
}

func (s *SettingsService) persistForgetting(ctx context.Context) {
	s.persistSoft(ctx, "forgettingSettings", func() error {
		return s.settingsStore.SaveForgetting(ctx, s.forgetting)
	})
}

func (s *SettingsService) persistSort(ctx context.Context) {
	s.persistSoft(ctx, "sortSettings", func() error {
		return s.settingsStore.SaveSort(ctx, s.sort)
	})
}

func (s *SettingsService) persistSoft(ctx context.Context, key string, save func() error) {
	if err := save(); err != nil {
		s.logger.Error("failed to persist settings, continuing with in-memory state",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
