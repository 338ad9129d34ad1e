package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutrisnap/internal/models"
	"nutrisnap/internal/nutrition"
	"nutrisnap/internal/storage"
)

var errDiskFull = errors.New("disk full")

// failingBackend wraps a backend and fails saves on demand.
type failingBackend struct {
	storage.Backend
	failSave bool
}

func (f *failingBackend) Save(ctx context.Context, name string, data []byte) error {
	if f.failSave {
		return errDiskFull
	}
	return f.Backend.Save(ctx, name, data)
}

func scan(id, name string) *models.Scan {
	return &models.Scan{
		ID:              id,
		FoodName:        name,
		ImageURL:        "data:image/png;base64,eA==",
		NutritionalInfo: models.NutritionalInfo{Calories: 200, Protein: 10, Carbs: 20, Fats: 8},
		CreatedAt:       time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

func TestHistoryAddNewestFirstAndPersist(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()

	h := NewHistory(backend, zap.NewNop())
	require.NoError(t, h.Load(ctx))
	assert.Empty(t, h.Recent(0))

	require.NoError(t, h.Add(ctx, scan("a", "Dosa")))
	require.NoError(t, h.Add(ctx, scan("b", "Dal")))

	ids := func(scans []models.Scan) []string {
		var out []string
		for _, s := range scans {
			out = append(out, s.ID)
		}
		return out
	}
	assert.Equal(t, []string{"b", "a"}, ids(h.Recent(0)))

	reloaded := NewHistory(backend, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))
	if diff := cmp.Diff(h.Recent(0), reloaded.Recent(0)); diff != "" {
		t.Errorf("reloaded history mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryPersistedShape(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()
	h := NewHistory(backend, zap.NewNop())
	require.NoError(t, h.Add(ctx, scan("a", "Dosa")))

	raw, err := backend.Load(ctx, HistoryStoreName)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"state": {"scans": [{
			"id": "a",
			"foodName": "Dosa",
			"imageUrl": "data:image/png;base64,eA==",
			"nutritionalInfo": {"calories": 200, "protein": 10, "carbs": 20, "fats": 8},
			"createdAt": "2026-10-19T12:00:00Z"
		}]},
		"version": 0
	}`, string(raw))
}

func TestHistoryGetAndRecent(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(storage.NewMemoryStorage(), zap.NewNop())
	for i := 0; i < 5; i++ {
		require.NoError(t, h.Add(ctx, scan(fmt.Sprint(i), "Idli")))
	}

	got, err := h.Get("3")
	require.NoError(t, err)
	assert.Equal(t, "3", got.ID)

	_, err = h.Get("missing")
	assert.ErrorIs(t, err, ErrScanNotFound)

	recent := h.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "4", recent[0].ID)
	assert.Len(t, h.Recent(50), 5)
	assert.Equal(t, 5, h.Len())
}

func TestHistoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(storage.NewMemoryStorage(), zap.NewNop())
	require.NoError(t, h.Add(ctx, scan("a", "Dosa")))

	scans := h.Recent(0)
	scans[0].FoodName = "tampered"

	got, err := h.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "Dosa", got.FoodName)
}

func TestHistoryClear(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()
	h := NewHistory(backend, zap.NewNop())
	require.NoError(t, h.Add(ctx, scan("a", "Dosa")))
	require.NoError(t, h.Clear(ctx))
	assert.Empty(t, h.Recent(0))

	reloaded := NewHistory(backend, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, 0, reloaded.Len())
}

func TestHistoryFailedFlushKeepsState(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{Backend: storage.NewMemoryStorage()}
	h := NewHistory(backend, zap.NewNop())
	require.NoError(t, h.Add(ctx, scan("a", "Dosa")))

	backend.failSave = true
	assert.ErrorIs(t, h.Add(ctx, scan("b", "Dal")), errDiskFull)
	assert.ErrorIs(t, h.Clear(ctx), errDiskFull)
	assert.Equal(t, 1, h.Len())
}

func TestHistoryConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(storage.NewMemoryStorage(), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, h.Add(ctx, scan(fmt.Sprint(i), "Poha")))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, h.Len())
}

func TestHistoryLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()
	require.NoError(t, backend.Save(ctx, HistoryStoreName, []byte("not json")))

	err := NewHistory(backend, zap.NewNop()).Load(ctx)
	assert.Error(t, err)
}

func TestSettingsDefaultsAndPersist(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()

	s := NewSettings(backend, zap.NewNop())
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, models.DefaultSettings(), s.Get())

	_, err := s.SetTheme(ctx, "dark")
	require.NoError(t, err)
	got, err := s.SetUnits(ctx, "ounces")
	require.NoError(t, err)
	assert.Equal(t, models.Settings{Theme: models.ThemeDark, Units: models.UnitsOunces}, got)

	reloaded := NewSettings(backend, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, got, reloaded.Get())
}

func TestSettingsRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := NewSettings(storage.NewMemoryStorage(), zap.NewNop())

	_, err := s.SetTheme(ctx, "neon")
	assert.ErrorIs(t, err, models.ErrInvalidTheme)
	_, err = s.SetUnits(ctx, "stone")
	assert.ErrorIs(t, err, models.ErrInvalidUnits)
	assert.Equal(t, models.DefaultSettings(), s.Get())
}

func TestSettingsFailedFlushKeepsState(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{Backend: storage.NewMemoryStorage(), failSave: true}
	s := NewSettings(backend, zap.NewNop())

	_, err := s.SetTheme(ctx, "light")
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, models.ThemeSystem, s.Get().Theme)
}

func TestSettingsLoadRepairsBadValues(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()
	require.NoError(t, backend.Save(ctx, SettingsStoreName, []byte(`{"state":{"theme":"dark","units":"cups"},"version":0}`)))

	s := NewSettings(backend, zap.NewNop())
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, models.Settings{Theme: models.ThemeDark, Units: models.UnitsGrams}, s.Get())
}

func TestSettingsLoadNormalizesCase(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()
	require.NoError(t, backend.Save(ctx, SettingsStoreName, []byte(`{"state":{"theme":"Dark","units":"Ounces"},"version":0}`)))

	s := NewSettings(backend, zap.NewNop())
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, models.Settings{Theme: models.ThemeDark, Units: models.UnitsOunces}, s.Get())

	v, err := nutrition.Render(models.NutritionalInfo{Calories: 300, Protein: 24}, 1, s.Get().Units)
	require.NoError(t, err)
	assert.Equal(t, "oz", v.Unit)
	assert.Equal(t, 1, v.Protein)
}

func TestHistoryAddRejectsNegativeNutrients(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()
	h := NewHistory(backend, zap.NewNop())

	bad := scan("s1", "Toast")
	bad.NutritionalInfo.Fats = -1
	err := h.Add(ctx, bad)
	assert.ErrorIs(t, err, models.ErrNegativeNutrient)
	assert.Zero(t, h.Len())

	_, err = backend.Load(ctx, HistoryStoreName)
	assert.ErrorIs(t, err, storage.ErrNotFound, "nothing flushed")
}
