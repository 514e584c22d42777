package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
)

func testScope() entity.ReportScope {
	return entity.ReportScope{
		AccountID:  "acct-1",
		VehicleIDs: []string{"veh-1", "veh-2"},
		DateFrom:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DateTo:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGetAggregatesScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("GROUP BY category, kind").WillReturnRows(
		sqlmock.NewRows([]string{"category", "kind", "sum", "count"}).
			AddRow("fuel", "refuel", 300.0, 5).
			AddRow("maintenance", "expense", 100.0, 2).
			AddRow("parking", "parking", 20.0, 1))
	mock.ExpectQuery("GROUP BY kind, currency").WillReturnRows(
		sqlmock.NewRows([]string{"kind", "currency", "sum", "count"}).
			AddRow("refuel", "USD", 45.0, 1))
	mock.ExpectQuery("FROM travels").WillReturnRows(
		sqlmock.NewRows([]string{"sum"}).AddRow(850.0))
	mock.ExpectQuery("fuel_units").WillReturnRows(
		sqlmock.NewRows([]string{"sum"}).AddRow(64.5))
	mock.ExpectQuery("GROUP BY vehicle_id").WillReturnRows(
		sqlmock.NewRows([]string{"vehicle_id", "min", "max"}).
			AddRow("veh-1", 12000.0, 12850.0).
			AddRow("veh-2", nil, nil))

	repo := NewReportDataRepository(db, zap.NewNop())
	row, err := repo.GetAggregates(context.Background(), testScope())
	require.NoError(t, err)

	assert.Equal(t, 420.0, row.TotalCostHC)
	assert.Equal(t, 8, row.RecordsCount)
	require.Len(t, row.ByCategory, 3)
	assert.Equal(t, "fuel", row.ByCategory[0].Category)
	assert.Equal(t, 300.0, row.ByCategory[0].CostHC)
	require.Len(t, row.ByKind, 3)

	require.Len(t, row.ForeignAmounts, 1)
	assert.Equal(t, "refuel", row.ForeignAmounts[0].Kind)
	assert.Equal(t, 45.0, row.ForeignAmounts[0].Amount)

	assert.Equal(t, 850.0, row.TotalDistanceKm)
	assert.Equal(t, 64.5, row.TotalFuelVolume)

	require.Len(t, row.Odometers, 2)
	require.NotNil(t, row.Odometers[0].MinKm)
	assert.Equal(t, 12000.0, *row.Odometers[0].MinKm)
	assert.Nil(t, row.Odometers[1].MinKm)

	span := row.OdometerDistanceKm()
	require.NotNil(t, span)
	assert.Equal(t, 850.0, *span)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAggregatesEmptyScope(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReportDataRepository(db, zap.NewNop())
	row, err := repo.GetAggregates(context.Background(), entity.ReportScope{AccountID: "acct-1"})
	require.NoError(t, err)

	// Zero-valued row, no queries issued.
	assert.Equal(t, 0.0, row.TotalCostHC)
	assert.Empty(t, row.ByCategory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConsumptionDataPointsScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("prev_odometer_km").WillReturnRows(
		sqlmock.NewRows([]string{"vehicle_id", "fuel_type", "distance", "fuel_units", "ordinal"}).
			AddRow("veh-1", "liquid", 500.0, 40.0, 2).
			AddRow("veh-1", "liquid", 300.0, 24.0, 3))

	repo := NewReportDataRepository(db, zap.NewNop())
	points, err := repo.GetConsumptionDataPoints(context.Background(), testScope())
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.Equal(t, entity.FuelTypeLiquid, points[0].FuelType)
	assert.Equal(t, 500.0, points[0].DistanceKm)
	assert.Equal(t, 40.0, points[0].FuelConsumedUnits)
	assert.Equal(t, int64(2), points[0].Ordinal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCarTankConfigsScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM vehicles").
		WithArgs("acct-1", "veh-1", "veh-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "fuel_type", "tank_capacity"}).
			AddRow("veh-1", "liquid", 55.0).
			AddRow("veh-2", "electric", nil))

	repo := NewReportDataRepository(db, zap.NewNop())
	configs, err := repo.GetCarTankConfigs(context.Background(), "acct-1", []string{"veh-1", "veh-2"})
	require.NoError(t, err)

	require.Len(t, configs, 2)
	assert.Equal(t, entity.FuelTypeLiquid, configs[0].PrimaryFuelType)
	require.NotNil(t, configs[0].TankCapacity)
	assert.Equal(t, 55.0, *configs[0].TankCapacity)
	assert.Equal(t, entity.FuelTypeElectric, configs[1].PrimaryFuelType)
	assert.Nil(t, configs[1].TankCapacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTravelDistanceByType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("GROUP BY t.travel_type").WillReturnRows(
		sqlmock.NewRows([]string{"travel_type", "sum"}).
			AddRow("business", 1200.0).
			AddRow("medical", 80.0))

	repo := NewReportDataRepository(db, zap.NewNop())
	distances, err := repo.GetTravelDistanceByType(context.Background(), testScope(), []string{"business", "medical"})
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"business": 1200, "medical": 80}, distances)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOwnedVehicleIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM vehicles").
		WithArgs("acct-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("veh-1").AddRow("veh-2"))

	repo := NewVehicleRepository(db, zap.NewNop())
	ids, err := repo.ListOwnedVehicleIDs(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"veh-1", "veh-2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPreferencesMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM user_preferences").
		WithArgs("acct-1").
		WillReturnRows(sqlmock.NewRows([]string{"distance_unit", "volume_unit", "consumption_unit", "home_currency"}))

	repo := NewPreferenceRepository(db, zap.NewNop())
	prefs, err := repo.GetByAccountID(context.Background(), "acct-1")
	require.NoError(t, err)

	// Missing row is not an error; the caller normalizes defaults.
	assert.Equal(t, "acct-1", prefs.AccountID)
	assert.Empty(t, prefs.DistanceUnit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPreferencesScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM user_preferences").
		WithArgs("acct-1").
		WillReturnRows(sqlmock.NewRows([]string{"distance_unit", "volume_unit", "consumption_unit", "home_currency"}).
			AddRow("mi", "gal_us", "mpg_us", "USD"))

	repo := NewPreferenceRepository(db, zap.NewNop())
	prefs, err := repo.GetByAccountID(context.Background(), "acct-1")
	require.NoError(t, err)

	assert.Equal(t, "mi", prefs.DistanceUnit)
	assert.Equal(t, "gal_us", prefs.VolumeUnit)
	assert.Equal(t, "mpg_us", prefs.ConsumptionUnit)
	assert.Equal(t, "USD", prefs.HomeCurrency)
	assert.NoError(t, mock.ExpectationsWereMet())
}
