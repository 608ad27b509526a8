package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/smallbiznis/smh/internal/config"
	"github.com/smallbiznis/smh/internal/resource/domain"
	"github.com/smallbiznis/smh/pkg/lifecycle"
	"github.com/smallbiznis/smh/pkg/persist"
	"github.com/smallbiznis/smh/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, kv storage.KV, settings *config.SettingsHolder) *Service {
	t.Helper()
	svc := New(Params{
		Adapter:  persist.NewAdapter(kv, zap.NewNop(), nil),
		Log:      zap.NewNop(),
		Settings: settings,
	})
	return svc.(*Service)
}

func emptyStore(t *testing.T) (*Service, storage.KV) {
	t.Helper()
	kv := storage.NewMemory()
	raw, err := json.Marshal(domain.Snapshot{})
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), domain.StorageKey, raw))
	return newTestService(t, kv, nil), kv
}

func TestNew_SeedsWhenEmpty(t *testing.T) {
	svc := newTestService(t, storage.NewMemory(), nil)
	assert.NotEmpty(t, svc.Drivers(context.Background()))
	assert.NotEmpty(t, svc.Vehicles(context.Background()))
}

func TestNew_CorruptPayloadFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, domain.StorageKey, []byte("{not json")))

	svc := newTestService(t, kv, nil)
	assert.NotEmpty(t, svc.Drivers(ctx))
}

func TestEnsureShift_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := emptyStore(t)

	first, err := svc.EnsureShift(ctx, "2026-02-05", "driver-1")
	require.NoError(t, err)
	second, err := svc.EnsureShift(ctx, "2026-02-05", "driver-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := svc.EnsureShift(ctx, "2026-02-06", "driver-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	shifts := svc.Shifts(ctx)
	require.Len(t, shifts, 2)
	assert.Equal(t, domain.ShiftStatusPlanned, shifts[0].Status)

	_, err = svc.EnsureShift(ctx, "", "driver-1")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestEnsureRunsheet_CopiesShiftFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := emptyStore(t)

	shiftID, err := svc.EnsureShift(ctx, "2026-02-05", "driver-1")
	require.NoError(t, err)
	sheetID, err := svc.EnsureRunsheet(ctx, shiftID)
	require.NoError(t, err)
	again, err := svc.EnsureRunsheet(ctx, shiftID)
	require.NoError(t, err)
	assert.Equal(t, sheetID, again)

	sheet, ok := svc.GetRunsheetBy(ctx, "2026-02-05", "driver-1")
	require.True(t, ok)
	assert.Equal(t, sheetID, sheet.ID)
	assert.Equal(t, "2026-02-05", sheet.Date)
	assert.Equal(t, "driver-1", sheet.DriverID)
	assert.Empty(t, sheet.Jobs)

	_, ok = svc.GetRunsheetBy(ctx, "2026-02-05", "driver-2")
	assert.False(t, ok)
}

func setupSheets(t *testing.T, svc *Service) (string, string) {
	t.Helper()
	ctx := context.Background()
	a, err := svc.EnsureShift(ctx, "2026-02-05", "driver-1")
	require.NoError(t, err)
	b, err := svc.EnsureShift(ctx, "2026-02-05", "driver-2")
	require.NoError(t, err)
	for _, shiftID := range []string{a, b} {
		_, err := svc.EnsureRunsheet(ctx, shiftID)
		require.NoError(t, err)
	}
	require.NoError(t, svc.AddJobsToRunsheet(ctx, a, []domain.RunJob{{ID: "j1"}, {ID: "j2"}, {ID: "j3"}}))
	require.NoError(t, svc.AddJobsToRunsheet(ctx, b, []domain.RunJob{{ID: "k1"}}))
	return a, b
}

func jobIDs(t *testing.T, svc *Service, driverID string) []string {
	t.Helper()
	sheet, ok := svc.GetRunsheetBy(context.Background(), "2026-02-05", driverID)
	require.True(t, ok)
	out := make([]string, 0, len(sheet.Jobs))
	for _, j := range sheet.Jobs {
		out = append(out, j.ID)
	}
	return out
}

func TestMoveJobBetweenRunsheets(t *testing.T) {
	ctx := context.Background()

	t.Run("across sheets", func(t *testing.T) {
		svc, _ := emptyStore(t)
		a, b := setupSheets(t, svc)

		require.NoError(t, svc.MoveJobBetweenRunsheets(ctx, a, b, "j2", 0))
		assert.Equal(t, []string{"j1", "j3"}, jobIDs(t, svc, "driver-1"))
		assert.Equal(t, []string{"j2", "k1"}, jobIDs(t, svc, "driver-2"))
	})

	t.Run("index is clamped", func(t *testing.T) {
		svc, _ := emptyStore(t)
		a, b := setupSheets(t, svc)

		require.NoError(t, svc.MoveJobBetweenRunsheets(ctx, a, b, "j1", 99))
		assert.Equal(t, []string{"k1", "j1"}, jobIDs(t, svc, "driver-2"))
		require.NoError(t, svc.MoveJobBetweenRunsheets(ctx, a, b, "j3", -4))
		assert.Equal(t, []string{"j3", "k1", "j1"}, jobIDs(t, svc, "driver-2"))
	})

	t.Run("within a sheet reorders", func(t *testing.T) {
		svc, _ := emptyStore(t)
		a, _ := setupSheets(t, svc)

		require.NoError(t, svc.MoveJobBetweenRunsheets(ctx, a, a, "j1", 2))
		assert.Equal(t, []string{"j2", "j3", "j1"}, jobIDs(t, svc, "driver-1"))
	})

	t.Run("misses leave state unchanged", func(t *testing.T) {
		svc, _ := emptyStore(t)
		a, b := setupSheets(t, svc)
		before := svc.Snapshot(ctx)

		assert.ErrorIs(t, svc.MoveJobBetweenRunsheets(ctx, a, "nope", "j1", 0), domain.ErrRunsheetNotFound)
		assert.ErrorIs(t, svc.MoveJobBetweenRunsheets(ctx, a, b, "nope", 0), domain.ErrJobNotFound)
		assert.Equal(t, before, svc.Snapshot(ctx))
	})
}

func TestAddJobsToRunsheet_Missing(t *testing.T) {
	svc, _ := emptyStore(t)
	err := svc.AddJobsToRunsheet(context.Background(), "missing", []domain.RunJob{{ID: "j1"}})
	assert.ErrorIs(t, err, domain.ErrRunsheetNotFound)
}

func TestDeleteRunsheet_KeepsShift(t *testing.T) {
	ctx := context.Background()
	svc, _ := emptyStore(t)
	a, _ := setupSheets(t, svc)

	require.NoError(t, svc.DeleteRunsheet(ctx, a))
	_, ok := svc.GetRunsheetBy(ctx, "2026-02-05", "driver-1")
	assert.False(t, ok)
	assert.Len(t, svc.Shifts(ctx), 2)
	assert.ErrorIs(t, svc.DeleteRunsheet(ctx, a), domain.ErrRunsheetNotFound)
}

func TestUniqueness(t *testing.T) {
	ctx := context.Background()
	svc, _ := emptyStore(t)

	_, err := svc.AddDriver(ctx, domain.Driver{Name: "Sam Carter"})
	require.NoError(t, err)
	_, err = svc.AddDriver(ctx, domain.Driver{Name: "  sam carter "})
	assert.ErrorIs(t, err, domain.ErrDuplicateDriverName)

	_, err = svc.AddVehicle(ctx, domain.Vehicle{Registration: "XQG 984"})
	require.NoError(t, err)
	_, err = svc.AddVehicle(ctx, domain.Vehicle{Registration: "xqg984"})
	assert.ErrorIs(t, err, domain.ErrDuplicateRegistration)

	_, err = svc.AddShift(ctx, domain.Shift{Date: "2026-02-05", DriverID: "driver-1"})
	require.NoError(t, err)
	_, err = svc.AddShift(ctx, domain.Shift{Date: "2026-02-05", DriverID: "driver-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateShift)
}

func TestUniqueness_ReAddSameID(t *testing.T) {
	ctx := context.Background()
	svc, _ := emptyStore(t)

	driver, err := svc.AddDriver(ctx, domain.Driver{Name: "Sam"})
	require.NoError(t, err)
	driver.Phone = "0400 000 000"
	_, err = svc.AddDriver(ctx, driver)
	require.NoError(t, err)

	drivers := svc.Drivers(ctx)
	require.Len(t, drivers, 1)
	assert.Equal(t, "0400 000 000", drivers[0].Phone)

	vehicle, err := svc.AddVehicle(ctx, domain.Vehicle{Registration: "XQG 984"})
	require.NoError(t, err)
	vehicle.Capacity = 12
	_, err = svc.AddVehicle(ctx, vehicle)
	require.NoError(t, err)

	vehicles := svc.Vehicles(ctx)
	require.Len(t, vehicles, 1)
	assert.Equal(t, 12, vehicles[0].Capacity)
}

func TestUniqueness_Disabled(t *testing.T) {
	ctx := context.Background()
	settings := config.DefaultSettings()
	settings.Resources.EnforceUniqueness = false

	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, domain.StorageKey, []byte(`{}`)))
	svc := newTestService(t, kv, config.NewStaticSettings(settings))

	_, err := svc.AddDriver(ctx, domain.Driver{Name: "Sam"})
	require.NoError(t, err)
	_, err = svc.AddDriver(ctx, domain.Driver{Name: "Sam"})
	require.NoError(t, err)
	assert.Len(t, svc.Drivers(ctx), 2)
}

func TestDriverColors_Mirrored(t *testing.T) {
	ctx := context.Background()
	svc, kv := emptyStore(t)

	_, err := svc.AddDriver(ctx, domain.Driver{Name: "Sam", Color: "#111111"})
	require.NoError(t, err)
	_, err = svc.AddDriver(ctx, domain.Driver{Name: "Priya"})
	require.NoError(t, err)

	colors := svc.DriverColorMap(ctx)
	assert.Equal(t, "#111111", colors["Sam"])
	assert.Equal(t, defaultPalette[1], colors["Priya"])

	raw, err := kv.Get(ctx, domain.DriverColorsKey)
	require.NoError(t, err)
	var mirrored map[string]string
	require.NoError(t, json.Unmarshal(raw, &mirrored))
	assert.Equal(t, colors, mirrored)
}

func TestSetShiftStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := emptyStore(t)
	id, err := svc.EnsureShift(ctx, "2026-02-05", "driver-1")
	require.NoError(t, err)

	_, err = svc.SetShiftStatus(ctx, id, domain.ShiftStatusCompleted)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	shift, err := svc.SetShiftStatus(ctx, id, domain.ShiftStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftStatusInProgress, shift.Status)
}

func TestReload_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, kv := emptyStore(t)
	a, b := setupSheets(t, svc)
	require.NoError(t, svc.MoveJobBetweenRunsheets(ctx, a, b, "j3", 1))

	reloaded := newTestService(t, kv, nil)
	assert.Equal(t, svc.Snapshot(ctx), reloaded.Snapshot(ctx))
}
