package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/units"
)

// monthsPerYear is the number of monthly rows in a yearly report.
const monthsPerYear = 12

// BuildYearlyReport assembles the twelve-month annual breakdown. The
// twelve monthly fetches run concurrently; each goroutine writes into
// its own month slot, so completion order cannot affect the assembled
// report.
func (s *reportServiceImpl) BuildYearlyReport(
	ctx context.Context,
	accountID string,
	year int,
	filter entity.ReportFilter,
) (*entity.YearlyReport, error) {
	filter.DateFrom = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	filter.DateTo = filter.DateFrom.AddDate(1, 0, 0)

	scope, prefs, err := s.resolveScope(ctx, accountID, filter)
	if err != nil {
		return nil, err
	}

	report := emptyYearlyReport(year, filter, prefs)
	if len(scope.VehicleIDs) == 0 {
		s.logger.Info("Yearly report for empty vehicle scope", "account_id", accountID, "year", year)
		return report, nil
	}

	// Tank configs are month-independent; fetch them once up front.
	tanks, err := s.data.GetCarTankConfigs(ctx, accountID, scope.VehicleIDs)
	if err != nil {
		return nil, fmt.Errorf("get tank configs: %w", err)
	}

	type monthData struct {
		row    *entity.RawAggregateRow
		points []entity.ConsumptionDataPoint
	}

	months := make([]monthData, monthsPerYear)
	errCh := make(chan error, monthsPerYear)
	var wg sync.WaitGroup

	for m := 0; m < monthsPerYear; m++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			monthScope := scope
			monthScope.DateFrom = time.Date(year, time.Month(idx+1), 1, 0, 0, 0, 0, time.UTC)
			monthScope.DateTo = monthScope.DateFrom.AddDate(0, 1, 0)

			row, err := s.data.GetAggregates(ctx, monthScope)
			if err != nil {
				errCh <- fmt.Errorf("get aggregates for month %d: %w", idx+1, err)
				return
			}
			points, err := s.data.GetConsumptionDataPoints(ctx, monthScope)
			if err != nil {
				errCh <- fmt.Errorf("get consumption data points for month %d: %w", idx+1, err)
				return
			}
			months[idx] = monthData{row: row, points: points}
			errCh <- nil
		}(m)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			s.logger.Error("Yearly report fetch failed", "error", err, "account_id", accountID, "year", year)
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var totalCost, totalDistanceKm float64
	var recordsCount int
	allPoints := make([]entity.ConsumptionDataPoint, 0)

	for idx, md := range months {
		distance := md.row.TotalDistanceKm
		volume := md.row.TotalFuelVolume
		monthResult := s.estimator.Estimate(md.points, tanks, prefs)

		report.Months[idx] = entity.MonthlyReportRow{
			Month:           idx + 1,
			TotalCost:       units.Round2(md.row.TotalCostHC),
			RecordsCount:    md.row.RecordsCount,
			TotalDistance:   units.Round2Ptr(units.DistanceFromKm(&distance, prefs.DistanceUnit)),
			TotalFuelVolume: units.Round2Ptr(units.VolumeFromLiters(&volume, prefs.VolumeUnit)),
			Consumption:     &monthResult,
		}

		totalCost += md.row.TotalCostHC
		totalDistanceKm += md.row.TotalDistanceKm
		recordsCount += md.row.RecordsCount
		allPoints = append(allPoints, md.points...)
	}

	report.TotalCost = units.Round2(totalCost)
	report.RecordsCount = recordsCount
	report.TotalDistance = units.Round2Ptr(units.DistanceFromKm(&totalDistanceKm, prefs.DistanceUnit))
	report.VehiclesCount = len(scope.VehicleIDs)
	yearResult := s.estimator.Estimate(allPoints, tanks, prefs)
	report.Consumption = &yearResult

	s.logger.Info("Yearly report built",
		"account_id", accountID,
		"year", year,
		"vehicles", len(scope.VehicleIDs),
		"records", recordsCount)
	return report, nil
}

func emptyYearlyReport(year int, filter entity.ReportFilter, prefs entity.UserPreferences) *entity.YearlyReport {
	report := &entity.YearlyReport{
		Year:         year,
		DateFrom:     filter.DateFrom,
		DateTo:       filter.DateTo,
		Preferences:  prefs,
		Currency:     prefs.HomeCurrency,
		Months:       make([]entity.MonthlyReportRow, monthsPerYear),
		DistanceUnit: prefs.DistanceUnit,
		Consumption:  &entity.ConsumptionResult{ByFuelType: []entity.FuelTypeConsumption{}},
	}
	for m := 0; m < monthsPerYear; m++ {
		report.Months[m] = entity.MonthlyReportRow{
			Month:       m + 1,
			Consumption: &entity.ConsumptionResult{ByFuelType: []entity.FuelTypeConsumption{}},
		}
	}
	return report
}
