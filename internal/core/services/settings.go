package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDecoderPath   = "decoder.path"
	keyDecoderFiles  = "decoder.files"
	keyDecoderRoot   = "decoder.root"
	keyViewerAddr    = "viewer.addr"
	keyRescaleRate   = "viewer.rescale_rate"
	keyScaleMin      = "scale.min"
	keyScaleMax      = "scale.max"
	keyScaleStep     = "scale.step"
	keyWatchDebounce = "watch.debounce_ms"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, filling gaps with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Decoder: domain.DecoderSettings{
			Path:  s.getString(keyDecoderPath, defaults.Decoder.Path),
			Files: s.getStrings(keyDecoderFiles, defaults.Decoder.Files),
			Root:  s.configStore.GetString(keyDecoderRoot), // No default - decoders are optional
		},
		Viewer: domain.ViewerSettings{
			Addr:        s.getString(keyViewerAddr, defaults.Viewer.Addr),
			RescaleRate: s.getInt(keyRescaleRate, defaults.Viewer.RescaleRate),
		},
		Scale: domain.ScaleSettings{
			Min:  s.getFloat(keyScaleMin, defaults.Scale.Min),
			Max:  s.getFloat(keyScaleMax, defaults.Scale.Max),
			Step: s.getFloat(keyScaleStep, defaults.Scale.Step),
		},
		Watch: domain.WatchSettings{
			DebounceMS: s.getInt(keyWatchDebounce, defaults.Watch.DebounceMS),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		keyDecoderPath:   settings.Decoder.Path,
		keyDecoderFiles:  settings.Decoder.Files,
		keyDecoderRoot:   settings.Decoder.Root,
		keyViewerAddr:    settings.Viewer.Addr,
		keyRescaleRate:   settings.Viewer.RescaleRate,
		keyScaleMin:      settings.Scale.Min,
		keyScaleMax:      settings.Scale.Max,
		keyScaleStep:     settings.Scale.Step,
		keyWatchDebounce: settings.Watch.DebounceMS,
	}
	for _, key := range s.Keys() {
		if err := s.configStore.Set(key, values[key]); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Set updates one setting from its string form.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keyDecoderPath:
		settings.Decoder.Path = value
	case keyDecoderFiles:
		settings.Decoder.Files = splitList(value)
	case keyDecoderRoot:
		settings.Decoder.Root = value
	case keyViewerAddr:
		settings.Viewer.Addr = value
	case keyRescaleRate:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.Viewer.RescaleRate = n
	case keyWatchDebounce:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.Watch.DebounceMS = n
	case keyScaleMin, keyScaleMax, keyScaleStep:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		switch key {
		case keyScaleMin:
			settings.Scale.Min = f
		case keyScaleMax:
			settings.Scale.Max = f
		default:
			settings.Scale.Step = f
		}
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Keys returns all recognised setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := []string{
		keyDecoderPath, keyDecoderFiles, keyDecoderRoot,
		keyViewerAddr, keyRescaleRate,
		keyScaleMin, keyScaleMax, keyScaleStep,
		keyWatchDebounce,
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	if val := s.configStore.GetStringSlice(key); len(val) > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetFloat(key)
	}
	return defaultVal
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
