package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcerge/carexpenses-api-sub002/internal/consumption"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/units"
)

type mockReportData struct {
	aggregates   func(scope entity.ReportScope) (*entity.RawAggregateRow, error)
	points       func(scope entity.ReportScope) ([]entity.ConsumptionDataPoint, error)
	tanks        []entity.CarTankConfig
	tanksErr     error
	distances    map[string]float64
	distancesErr error
}

func (m *mockReportData) GetAggregates(_ context.Context, scope entity.ReportScope) (*entity.RawAggregateRow, error) {
	if m.aggregates != nil {
		return m.aggregates(scope)
	}
	return &entity.RawAggregateRow{}, nil
}

func (m *mockReportData) GetConsumptionDataPoints(_ context.Context, scope entity.ReportScope) ([]entity.ConsumptionDataPoint, error) {
	if m.points != nil {
		return m.points(scope)
	}
	return nil, nil
}

func (m *mockReportData) GetCarTankConfigs(_ context.Context, _ string, _ []string) ([]entity.CarTankConfig, error) {
	return m.tanks, m.tanksErr
}

func (m *mockReportData) GetTravelDistanceByType(_ context.Context, _ entity.ReportScope, _ []string) (map[string]float64, error) {
	return m.distances, m.distancesErr
}

type mockVehicles struct {
	ids []string
	err error
}

func (m *mockVehicles) ListOwnedVehicleIDs(_ context.Context, _ string) ([]string, error) {
	return m.ids, m.err
}

type mockPrefs struct {
	prefs *entity.UserPreferences
	err   error
}

func (m *mockPrefs) GetByAccountID(_ context.Context, _ string) (*entity.UserPreferences, error) {
	return m.prefs, m.err
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func newTestService(data *mockReportData, vehicles *mockVehicles, prefs *mockPrefs) ReportService {
	return NewReportService(
		data,
		vehicles,
		prefs,
		consumption.NewEstimator(consumption.DefaultConfig()),
		&mockLogger{},
	)
}

func cadPrefs() *entity.UserPreferences {
	return &entity.UserPreferences{
		AccountID:    "acct-1",
		DistanceUnit: units.DistanceKm,
		VolumeUnit:   units.VolumeLiter,
		HomeCurrency: "CAD",
	}
}

func periodFilter() entity.ReportFilter {
	return entity.ReportFilter{
		DateFrom: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildPeriodReportEmptyScope(t *testing.T) {
	svc := newTestService(
		&mockReportData{},
		&mockVehicles{ids: nil},
		&mockPrefs{prefs: &entity.UserPreferences{AccountID: "acct-1"}},
	)

	report, err := svc.BuildPeriodReport(context.Background(), "acct-1", periodFilter())
	require.NoError(t, err)
	require.NotNil(t, report)

	// The empty report is fully shaped, with normalized preference
	// defaults and no nil collections.
	assert.Equal(t, "USD", report.Currency)
	assert.Equal(t, units.DistanceKm, report.DistanceUnit)
	assert.Equal(t, units.VolumeLiter, report.VolumeUnit)
	assert.Equal(t, 0.0, report.TotalCost)
	assert.NotNil(t, report.ByCategory)
	assert.NotNil(t, report.ByKind)
	assert.NotNil(t, report.ExpensesForeign)
	assert.NotNil(t, report.RefuelsForeign)
	assert.NotNil(t, report.CombinedForeign)
	require.NotNil(t, report.Consumption)
	assert.Empty(t, report.Consumption.ByFuelType)
	assert.Nil(t, report.FuelPricePerUnit)
	assert.Nil(t, report.CostPerDistance)
}

func TestBuildYearlyReportEmptyScope(t *testing.T) {
	svc := newTestService(&mockReportData{}, &mockVehicles{}, &mockPrefs{prefs: cadPrefs()})

	report, err := svc.BuildYearlyReport(context.Background(), "acct-1", 2024, entity.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, report.Months, 12)
	for i, month := range report.Months {
		assert.Equal(t, i+1, month.Month)
		require.NotNil(t, month.Consumption)
	}
	assert.Equal(t, 2024, report.Year)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), report.DateFrom)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), report.DateTo)
}

func TestBuildTravelReportEmptyScope(t *testing.T) {
	svc := newTestService(&mockReportData{}, &mockVehicles{}, &mockPrefs{prefs: cadPrefs()})

	report, err := svc.BuildTravelReport(context.Background(), "acct-1", periodFilter())
	require.NoError(t, err)
	assert.Equal(t, []string{entity.TravelTypeBusiness}, report.TravelTypes)
	assert.Equal(t, "CA", report.Jurisdiction)
	assert.NotNil(t, report.TieredDeductions)
	assert.NotNil(t, report.ByCategory)
	assert.Nil(t, report.BusinessUsePercent)
	assert.Nil(t, report.ActualExpense)
}

func TestBuildPeriodReportAssembly(t *testing.T) {
	row := &entity.RawAggregateRow{
		TotalCostHC:  400,
		RecordsCount: 8,
		ByCategory: []entity.CategoryCost{
			{Category: entity.CategoryFuel, CostHC: 300, RecordsCount: 5},
			{Category: entity.CategoryMaintenance, CostHC: 100, RecordsCount: 3},
		},
		ByKind: []entity.KindCost{
			{Kind: entity.KindRefuel, CostHC: 300, RecordsCount: 5},
			{Kind: entity.KindExpense, CostHC: 100, RecordsCount: 3},
		},
		ForeignAmounts: []entity.ForeignCurrencyRow{
			{Kind: entity.KindRefuel, Currency: "USD", Amount: 40, RecordsCount: 1},
			{Kind: entity.KindExpense, Currency: "USD", Amount: 10, RecordsCount: 1},
			{Kind: entity.KindRefuel, Currency: "USD", Amount: 20, RecordsCount: 1},
		},
		TotalDistanceKm: 1000,
		TotalFuelVolume: 80,
	}
	data := &mockReportData{
		aggregates: func(entity.ReportScope) (*entity.RawAggregateRow, error) { return row, nil },
	}
	svc := newTestService(data, &mockVehicles{ids: []string{"veh-1"}}, &mockPrefs{prefs: cadPrefs()})

	report, err := svc.BuildPeriodReport(context.Background(), "acct-1", periodFilter())
	require.NoError(t, err)

	assert.Equal(t, 400.0, report.TotalCost)
	assert.Equal(t, 8, report.RecordsCount)
	assert.Equal(t, 1, report.VehiclesCount)

	require.Len(t, report.ByCategory, 2)
	assert.Equal(t, entity.CategoryFuel, report.ByCategory[0].Name)
	assert.Equal(t, 75.0, *report.ByCategory[0].Percent)
	assert.Equal(t, 25.0, *report.ByCategory[1].Percent)

	require.Len(t, report.RefuelsForeign, 1)
	assert.Equal(t, 60.0, report.RefuelsForeign[0].Amount)
	assert.Equal(t, 2, report.RefuelsForeign[0].RecordsCount)
	require.Len(t, report.ExpensesForeign, 1)
	assert.Equal(t, 10.0, report.ExpensesForeign[0].Amount)
	require.Len(t, report.CombinedForeign, 1)
	assert.Equal(t, 70.0, report.CombinedForeign[0].Amount)
	assert.Equal(t, 3, report.CombinedForeign[0].RecordsCount)

	require.NotNil(t, report.TotalDistance)
	assert.Equal(t, 1000.0, *report.TotalDistance)
	require.NotNil(t, report.FuelPricePerUnit)
	assert.Equal(t, 3.75, *report.FuelPricePerUnit)
	require.NotNil(t, report.CostPerDistance)
	assert.Equal(t, 0.4, *report.CostPerDistance)
}

func TestBuildTravelReportBusinessUse(t *testing.T) {
	row := &entity.RawAggregateRow{
		TotalCostHC:  150,
		RecordsCount: 4,
		ByCategory: []entity.CategoryCost{
			{Category: entity.CategoryFuel, CostHC: 100, RecordsCount: 2},
			{Category: entity.CategoryInsurance, CostHC: 50, RecordsCount: 2},
		},
		Odometers: []entity.VehicleOdometer{
			{VehicleID: "veh-1", MinKm: units.Float64Ptr(1000), MaxKm: units.Float64Ptr(5000)},
		},
	}
	data := &mockReportData{
		aggregates: func(entity.ReportScope) (*entity.RawAggregateRow, error) { return row, nil },
		distances:  map[string]float64{entity.TravelTypeBusiness: 1200},
	}
	svc := newTestService(data, &mockVehicles{ids: []string{"veh-1"}}, &mockPrefs{prefs: cadPrefs()})

	report, err := svc.BuildTravelReport(context.Background(), "acct-1", periodFilter())
	require.NoError(t, err)

	assert.Equal(t, "CA", report.Jurisdiction)
	require.NotNil(t, report.BusinessUsePercent)
	assert.Equal(t, 30.0, *report.BusinessUsePercent)
	require.NotNil(t, report.FilteredDistance)
	assert.Equal(t, 1200.0, *report.FilteredDistance)
	require.NotNil(t, report.TotalPeriodDistance)
	assert.Equal(t, 4000.0, *report.TotalPeriodDistance)

	// 1200 km inside the first CRA tier at the 2024 rate of 0.70.
	require.Len(t, report.TieredDeductions, 1)
	deduction := report.TieredDeductions[0]
	assert.Equal(t, entity.TravelTypeBusiness, deduction.TravelType)
	assert.Equal(t, units.DistanceKm, deduction.DistanceUnit)
	assert.Equal(t, "CAD", deduction.Currency)
	assert.Equal(t, 840.0, deduction.Total)
	require.Len(t, deduction.Breakdown, 1)
	assert.Equal(t, 840.0, report.TieredDeductionTotal)

	require.NotNil(t, report.ActualExpense)
	require.Len(t, report.ActualExpense.ByCategory, 2)
	assert.Equal(t, entity.CategoryFuel, report.ActualExpense.ByCategory[0].Category)
	assert.Equal(t, 30.0, report.ActualExpense.ByCategory[0].Deductible)
	assert.Equal(t, entity.CategoryOther, report.ActualExpense.ByCategory[1].Category)
	assert.Equal(t, 15.0, report.ActualExpense.ByCategory[1].Deductible)
	assert.Equal(t, 45.0, report.ActualExpense.Total)
}

func TestBuildTravelReportZeroDenominator(t *testing.T) {
	row := &entity.RawAggregateRow{
		ByCategory: []entity.CategoryCost{{Category: entity.CategoryFuel, CostHC: 100, RecordsCount: 1}},
	}
	data := &mockReportData{
		aggregates: func(entity.ReportScope) (*entity.RawAggregateRow, error) { return row, nil },
		distances:  map[string]float64{entity.TravelTypeBusiness: 500},
	}
	svc := newTestService(data, &mockVehicles{ids: []string{"veh-1"}}, &mockPrefs{prefs: cadPrefs()})

	report, err := svc.BuildTravelReport(context.Background(), "acct-1", periodFilter())
	require.NoError(t, err)

	// No odometer bounds in the period: the percentage is unknowable,
	// so both the percentage and the actual-expense method are nil. The
	// tiered deduction does not depend on the percentage and survives.
	assert.Nil(t, report.BusinessUsePercent)
	assert.Nil(t, report.ActualExpense)
	require.Len(t, report.TieredDeductions, 1)
	assert.Equal(t, 350.0, report.TieredDeductions[0].Total)
}

func TestBuildTravelReportUnknownJurisdiction(t *testing.T) {
	prefs := cadPrefs()
	prefs.HomeCurrency = "EUR"
	data := &mockReportData{
		aggregates: func(entity.ReportScope) (*entity.RawAggregateRow, error) {
			return &entity.RawAggregateRow{
				Odometers: []entity.VehicleOdometer{
					{VehicleID: "veh-1", MinKm: units.Float64Ptr(0), MaxKm: units.Float64Ptr(1000)},
				},
			}, nil
		},
		distances: map[string]float64{entity.TravelTypeBusiness: 100},
	}
	svc := newTestService(data, &mockVehicles{ids: []string{"veh-1"}}, &mockPrefs{prefs: prefs})

	report, err := svc.BuildTravelReport(context.Background(), "acct-1", periodFilter())
	require.NoError(t, err)

	// No rate tables without a jurisdiction, but the rest of the report
	// is still assembled.
	assert.Empty(t, report.Jurisdiction)
	assert.Empty(t, report.TieredDeductions)
	assert.Equal(t, 0.0, report.TieredDeductionTotal)
	require.NotNil(t, report.BusinessUsePercent)
	assert.Equal(t, 10.0, *report.BusinessUsePercent)
}

func TestBuildPeriodReportFetchError(t *testing.T) {
	data := &mockReportData{
		aggregates: func(entity.ReportScope) (*entity.RawAggregateRow, error) {
			return nil, errors.New("database locked")
		},
	}
	svc := newTestService(data, &mockVehicles{ids: []string{"veh-1"}}, &mockPrefs{prefs: cadPrefs()})

	report, err := svc.BuildPeriodReport(context.Background(), "acct-1", periodFilter())
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "get aggregates")
}

func TestBuildYearlyReportMonthOrdering(t *testing.T) {
	// Later months finish first; the assembled report must still be
	// ordered January..December with each month's own figures.
	data := &mockReportData{
		aggregates: func(scope entity.ReportScope) (*entity.RawAggregateRow, error) {
			month := int(scope.DateFrom.Month())
			time.Sleep(time.Duration(13-month) * time.Millisecond)
			return &entity.RawAggregateRow{
				TotalCostHC:     float64(month) * 10,
				RecordsCount:    month,
				TotalDistanceKm: float64(month) * 100,
			}, nil
		},
	}
	svc := newTestService(data, &mockVehicles{ids: []string{"veh-1"}}, &mockPrefs{prefs: cadPrefs()})

	report, err := svc.BuildYearlyReport(context.Background(), "acct-1", 2024, entity.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, report.Months, 12)

	for i, month := range report.Months {
		assert.Equal(t, i+1, month.Month)
		assert.Equal(t, float64(i+1)*10, month.TotalCost)
		assert.Equal(t, i+1, month.RecordsCount)
	}
	assert.Equal(t, 780.0, report.TotalCost)
	assert.Equal(t, 78, report.RecordsCount)
	require.NotNil(t, report.TotalDistance)
	assert.Equal(t, 7800.0, *report.TotalDistance)
}

func TestBuildYearlyReportFetchError(t *testing.T) {
	data := &mockReportData{
		aggregates: func(scope entity.ReportScope) (*entity.RawAggregateRow, error) {
			if scope.DateFrom.Month() == time.July {
				return nil, errors.New("timeout")
			}
			return &entity.RawAggregateRow{}, nil
		},
	}
	svc := newTestService(data, &mockVehicles{ids: []string{"veh-1"}}, &mockPrefs{prefs: cadPrefs()})

	report, err := svc.BuildYearlyReport(context.Background(), "acct-1", 2024, entity.ReportFilter{})
	require.Error(t, err)
	assert.Nil(t, report)
}

func TestBuildPeriodReportIdempotent(t *testing.T) {
	row := &entity.RawAggregateRow{
		TotalCostHC:  123.456,
		RecordsCount: 3,
		ByCategory: []entity.CategoryCost{
			{Category: entity.CategoryFuel, CostHC: 83.456, RecordsCount: 2},
			{Category: entity.CategoryParking, CostHC: 40, RecordsCount: 1},
		},
		ForeignAmounts: []entity.ForeignCurrencyRow{
			{Kind: entity.KindExpense, Currency: "EUR", Amount: 12.5, RecordsCount: 1},
			{Kind: entity.KindRefuel, Currency: "USD", Amount: 30, RecordsCount: 1},
		},
		TotalDistanceKm: 321,
		TotalFuelVolume: 25,
	}
	data := &mockReportData{
		aggregates: func(entity.ReportScope) (*entity.RawAggregateRow, error) { return row, nil },
		points: func(entity.ReportScope) ([]entity.ConsumptionDataPoint, error) {
			return []entity.ConsumptionDataPoint{
				{VehicleID: "veh-1", FuelType: entity.FuelTypeLiquid, DistanceKm: 321, FuelConsumedUnits: 25, Ordinal: 1},
			}, nil
		},
	}
	svc := newTestService(data, &mockVehicles{ids: []string{"veh-2", "veh-1"}}, &mockPrefs{prefs: cadPrefs()})

	first, err := svc.BuildPeriodReport(context.Background(), "acct-1", periodFilter())
	require.NoError(t, err)
	second, err := svc.BuildPeriodReport(context.Background(), "acct-1", periodFilter())
	require.NoError(t, err)

	assert.Equal(t, first, second)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}
