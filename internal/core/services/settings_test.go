package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/meshdrop/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Decoder.Path, settings.Decoder.Path)
	assert.Equal(t, defaults.Decoder.Files, settings.Decoder.Files)
	assert.Empty(t, settings.Decoder.Root)
	assert.Equal(t, defaults.Viewer, settings.Viewer)
	assert.Equal(t, defaults.Scale, settings.Scale)
	assert.Equal(t, defaults.Watch, settings.Watch)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("decoder.path", "/vendor/draco/")
	_ = store.Set("viewer.addr", ":9000")
	_ = store.Set("scale.max", int64(8))
	_ = store.Set("scale.step", 0.25)
	_ = store.Set("watch.debounce_ms", int64(100))

	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "/vendor/draco/", settings.Decoder.Path)
	assert.Equal(t, ":9000", settings.Viewer.Addr)
	assert.Equal(t, 8.0, settings.Scale.Max)
	assert.Equal(t, 0.25, settings.Scale.Step)
	assert.Equal(t, 100, settings.Watch.DebounceMS)
}

func TestSettingsService_Get_InvalidStoredBounds(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("scale.min", 6.0)
	_ = store.Set("scale.max", 2.0)

	service := NewSettingsService(store)

	settings, err := service.Get()

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, settings)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Decoder.Root = "/srv/draco"
	settings.Viewer.RescaleRate = 5

	err := service.Save(&settings)

	require.NoError(t, err)
	assert.Equal(t, "/srv/draco", store.GetString("decoder.root"))
	assert.Equal(t, 5, store.GetInt("viewer.rescale_rate"))
	assert.Equal(t, settings.Scale.Max, store.GetFloat("scale.max"))
}

func TestSettingsService_Save_RejectsInvalid(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Scale.Step = 0

	err := service.Save(&settings)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, ok := store.Get("scale.step")
	assert.False(t, ok)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, s *domain.AppSettings)
	}{
		{
			name:  "decoder files",
			key:   "decoder.files",
			value: "a.wasm, b.js",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, []string{"a.wasm", "b.js"}, s.Decoder.Files)
			},
		},
		{
			name:  "rescale rate",
			key:   "viewer.rescale_rate",
			value: "60",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, 60, s.Viewer.RescaleRate)
			},
		},
		{
			name:  "scale max",
			key:   "scale.max",
			value: "10",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, 10.0, s.Scale.Max)
			},
		},
		{
			name:  "debounce",
			key:   "watch.debounce_ms",
			value: "20",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, 20, s.Watch.DebounceMS)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			require.NoError(t, service.Set(tt.key, tt.value))

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Set_Errors(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.ErrorIs(t, service.Set("viewer.rescale_rate", "fast"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("scale.min", "small"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("unknown.key", "x"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("scale.min", "99"), domain.ErrInvalidInput)
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	keys := service.Keys()

	assert.Len(t, keys, 9)
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, "decoder.path")
	assert.Contains(t, keys, "watch.debounce_ms")
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}
