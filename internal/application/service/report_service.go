package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dcerge/carexpenses-api-sub002/internal/application/port"
	"github.com/dcerge/carexpenses-api-sub002/internal/consumption"
	"github.com/dcerge/carexpenses-api-sub002/internal/currency"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/units"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ReportService builds the three derived report types from raw
// per-record data. Reports are computed fresh per request and never
// cached; identical inputs over unchanged data produce identical
// output.
type ReportService interface {
	BuildPeriodReport(ctx context.Context, accountID string, filter entity.ReportFilter) (*entity.PeriodReport, error)
	BuildYearlyReport(ctx context.Context, accountID string, year int, filter entity.ReportFilter) (*entity.YearlyReport, error)
	BuildTravelReport(ctx context.Context, accountID string, filter entity.ReportFilter) (*entity.TravelReport, error)
}

type reportServiceImpl struct {
	data      port.ReportDataRepository
	vehicles  port.VehicleRepository
	prefs     port.PreferenceRepository
	estimator *consumption.Estimator
	logger    Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	data port.ReportDataRepository,
	vehicles port.VehicleRepository,
	prefs port.PreferenceRepository,
	estimator *consumption.Estimator,
	logger Logger,
) ReportService {
	return &reportServiceImpl{
		data:      data,
		vehicles:  vehicles,
		prefs:     prefs,
		estimator: estimator,
		logger:    logger,
	}
}

// resolveScope is phase one of every report build: load preferences
// and resolve the vehicle set (explicit IDs from the caller, or all
// vehicles owned by the account). An empty resolved set is not an
// error; callers short-circuit to a structurally complete empty
// report.
func (s *reportServiceImpl) resolveScope(
	ctx context.Context,
	accountID string,
	filter entity.ReportFilter,
) (entity.ReportScope, entity.UserPreferences, error) {
	prefs, err := s.prefs.GetByAccountID(ctx, accountID)
	if err != nil {
		s.logger.Error("Failed to load user preferences", "error", err, "account_id", accountID)
		return entity.ReportScope{}, entity.UserPreferences{}, fmt.Errorf("get preferences: %w", err)
	}
	resolved := *prefs
	resolved.Normalize()

	vehicleIDs := filter.VehicleIDs
	if len(vehicleIDs) == 0 {
		vehicleIDs, err = s.vehicles.ListOwnedVehicleIDs(ctx, accountID)
		if err != nil {
			s.logger.Error("Failed to resolve owned vehicles", "error", err, "account_id", accountID)
			return entity.ReportScope{}, entity.UserPreferences{}, fmt.Errorf("resolve vehicles: %w", err)
		}
	}
	sort.Strings(vehicleIDs)

	scope := entity.ReportScope{
		AccountID:  accountID,
		VehicleIDs: vehicleIDs,
		TagIDs:     filter.TagIDs,
		DateFrom:   filter.DateFrom,
		DateTo:     filter.DateTo,
	}
	return scope, resolved, nil
}

// scopeData bundles the independent reads issued for one scope.
type scopeData struct {
	row             *entity.RawAggregateRow
	points          []entity.ConsumptionDataPoint
	tanks           []entity.CarTankConfig
	travelDistances map[string]float64
}

// fetchScopeData issues the raw aggregate, consumption data point and
// tank config reads concurrently and joins them. withTravel adds the
// per-travel-type distance read used by the travel report. Any fetch
// failure is fatal for the request; no partial data is returned.
func (s *reportServiceImpl) fetchScopeData(
	ctx context.Context,
	scope entity.ReportScope,
	travelTypes []string,
	withTravel bool,
) (*scopeData, error) {
	data := &scopeData{}

	fetches := []func() error{
		func() error {
			row, err := s.data.GetAggregates(ctx, scope)
			if err != nil {
				return fmt.Errorf("get aggregates: %w", err)
			}
			data.row = row
			return nil
		},
		func() error {
			points, err := s.data.GetConsumptionDataPoints(ctx, scope)
			if err != nil {
				return fmt.Errorf("get consumption data points: %w", err)
			}
			data.points = points
			return nil
		},
		func() error {
			tanks, err := s.data.GetCarTankConfigs(ctx, scope.AccountID, scope.VehicleIDs)
			if err != nil {
				return fmt.Errorf("get tank configs: %w", err)
			}
			data.tanks = tanks
			return nil
		},
	}
	if withTravel {
		fetches = append(fetches, func() error {
			distances, err := s.data.GetTravelDistanceByType(ctx, scope, travelTypes)
			if err != nil {
				return fmt.Errorf("get travel distances: %w", err)
			}
			data.travelDistances = distances
			return nil
		})
	}

	errCh := make(chan error, len(fetches))
	var wg sync.WaitGroup
	for _, fetch := range fetches {
		wg.Add(1)
		go func(fn func() error) {
			defer wg.Done()
			errCh <- fn()
		}(fetch)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// BuildPeriodReport assembles the period expense summary for a scope
// and date range.
func (s *reportServiceImpl) BuildPeriodReport(
	ctx context.Context,
	accountID string,
	filter entity.ReportFilter,
) (*entity.PeriodReport, error) {
	scope, prefs, err := s.resolveScope(ctx, accountID, filter)
	if err != nil {
		return nil, err
	}

	report := emptyPeriodReport(filter, prefs)
	if len(scope.VehicleIDs) == 0 {
		s.logger.Info("Period report for empty vehicle scope", "account_id", accountID)
		return report, nil
	}

	data, err := s.fetchScopeData(ctx, scope, nil, false)
	if err != nil {
		return nil, err
	}

	s.assemblePeriod(report, scope, prefs, data)
	s.logger.Info("Period report built",
		"account_id", accountID,
		"vehicles", len(scope.VehicleIDs),
		"records", report.RecordsCount)
	return report, nil
}

// emptyPeriodReport returns the zero-valued report shape shared by the
// empty-scope short circuit and the populated path, so callers always
// receive the same schema.
func emptyPeriodReport(filter entity.ReportFilter, prefs entity.UserPreferences) *entity.PeriodReport {
	return &entity.PeriodReport{
		DateFrom:        filter.DateFrom,
		DateTo:          filter.DateTo,
		Preferences:     prefs,
		Currency:        prefs.HomeCurrency,
		ByCategory:      []entity.CostBreakdownRow{},
		ByKind:          []entity.CostBreakdownRow{},
		ExpensesForeign: []entity.CurrencyAmount{},
		RefuelsForeign:  []entity.CurrencyAmount{},
		CombinedForeign: []entity.CurrencyAmount{},
		DistanceUnit:    prefs.DistanceUnit,
		VolumeUnit:      prefs.VolumeUnit,
		Consumption:     &entity.ConsumptionResult{ByFuelType: []entity.FuelTypeConsumption{}},
	}
}

func (s *reportServiceImpl) assemblePeriod(
	report *entity.PeriodReport,
	scope entity.ReportScope,
	prefs entity.UserPreferences,
	data *scopeData,
) {
	row := data.row

	report.TotalCost = units.Round2(row.TotalCostHC)
	report.RecordsCount = row.RecordsCount
	report.ByCategory = categoryBreakdown(row.ByCategory, row.TotalCostHC)
	report.ByKind = kindBreakdown(row.ByKind, row.TotalCostHC)
	report.ExpensesForeign, report.RefuelsForeign, report.CombinedForeign = splitForeign(row.ForeignAmounts)

	distance := row.TotalDistanceKm
	report.TotalDistance = units.Round2Ptr(units.DistanceFromKm(&distance, prefs.DistanceUnit))
	volume := row.TotalFuelVolume
	userVolume := units.VolumeFromLiters(&volume, prefs.VolumeUnit)
	report.TotalFuelVolume = units.Round2Ptr(userVolume)

	if userVolume != nil {
		report.FuelPricePerUnit = units.Round3Ptr(units.Ratio(kindCost(row.ByKind, entity.KindRefuel), *userVolume))
	}
	if userDistance := units.DistanceFromKm(&distance, prefs.DistanceUnit); userDistance != nil {
		report.CostPerDistance = units.Round2Ptr(units.Ratio(row.TotalCostHC, *userDistance))
	}

	report.VehiclesCount = len(scope.VehicleIDs)
	result := s.estimator.Estimate(data.points, data.tanks, prefs)
	report.Consumption = &result
}

// categoryBreakdown renders per-category aggregate rows into rounded,
// percentage-annotated output rows sorted by cost descending.
func categoryBreakdown(rows []entity.CategoryCost, total float64) []entity.CostBreakdownRow {
	out := make([]entity.CostBreakdownRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, entity.CostBreakdownRow{
			Name:         r.Category,
			Cost:         units.Round2(r.CostHC),
			RecordsCount: r.RecordsCount,
			Percent:      percentOf(r.CostHC, total),
		})
	}
	sortBreakdown(out)
	return out
}

func kindBreakdown(rows []entity.KindCost, total float64) []entity.CostBreakdownRow {
	out := make([]entity.CostBreakdownRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, entity.CostBreakdownRow{
			Name:         r.Kind,
			Cost:         units.Round2(r.CostHC),
			RecordsCount: r.RecordsCount,
			Percent:      percentOf(r.CostHC, total),
		})
	}
	sortBreakdown(out)
	return out
}

func sortBreakdown(rows []entity.CostBreakdownRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Cost != rows[j].Cost {
			return rows[i].Cost > rows[j].Cost
		}
		return rows[i].Name < rows[j].Name
	})
}

// percentOf computes part/total*100 rounded to two decimals, nil when
// the total is not positive.
func percentOf(part, total float64) *float64 {
	ratio := units.Ratio(part*100, total)
	return units.Round2Ptr(ratio)
}

func kindCost(rows []entity.KindCost, kind string) float64 {
	for _, r := range rows {
		if r.Kind == kind {
			return r.CostHC
		}
	}
	return 0
}

// splitForeign builds the refuel, expense and combined foreign
// currency breakdowns from kind-tagged rows, reusing the same
// accumulator for all three so merge and rounding semantics are
// identical.
func splitForeign(rows []entity.ForeignCurrencyRow) (expenses, refuels, combined []entity.CurrencyAmount) {
	expenseAcc := make(map[string]*entity.CurrencyAmount)
	refuelAcc := make(map[string]*entity.CurrencyAmount)
	combinedAcc := make(map[string]*entity.CurrencyAmount)

	for _, r := range rows {
		amount := entity.CurrencyAmount{Currency: r.Currency, Amount: r.Amount, RecordsCount: r.RecordsCount}
		if r.Kind == entity.KindRefuel {
			currency.Accumulate(refuelAcc, amount)
		} else {
			currency.Accumulate(expenseAcc, amount)
		}
		currency.Accumulate(combinedAcc, amount)
	}

	return currency.Transform(expenseAcc), currency.Transform(refuelAcc), currency.Transform(combinedAcc)
}

// clampPercent bounds a percentage into [0, 100].
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
