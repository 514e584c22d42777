package service

import (
	"context"
	"sort"

	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/units"
	"github.com/dcerge/carexpenses-api-sub002/internal/reimbursement"
)

// BuildTravelReport assembles the travel/tax report: business-use
// percentage, per-travel-type tiered deductions and the actual-expense
// deduction. Both deduction methods are always computed when their
// inputs exist; callers pick whichever applies to them.
func (s *reportServiceImpl) BuildTravelReport(
	ctx context.Context,
	accountID string,
	filter entity.ReportFilter,
) (*entity.TravelReport, error) {
	travelTypes := filter.TravelTypes
	if len(travelTypes) == 0 {
		travelTypes = []string{entity.TravelTypeBusiness}
	}
	travelTypes = append([]string(nil), travelTypes...)
	sort.Strings(travelTypes)

	scope, prefs, err := s.resolveScope(ctx, accountID, filter)
	if err != nil {
		return nil, err
	}

	report := emptyTravelReport(filter, prefs, travelTypes)
	if len(scope.VehicleIDs) == 0 {
		s.logger.Info("Travel report for empty vehicle scope", "account_id", accountID)
		return report, nil
	}

	data, err := s.fetchScopeData(ctx, scope, travelTypes, true)
	if err != nil {
		s.logger.Error("Travel report fetch failed", "error", err, "account_id", accountID)
		return nil, err
	}

	s.assembleTravel(report, scope, prefs, data, travelTypes)
	s.logger.Info("Travel report built",
		"account_id", accountID,
		"vehicles", len(scope.VehicleIDs),
		"jurisdiction", report.Jurisdiction,
		"records", report.RecordsCount)
	return report, nil
}

func emptyTravelReport(filter entity.ReportFilter, prefs entity.UserPreferences, travelTypes []string) *entity.TravelReport {
	return &entity.TravelReport{
		DateFrom:         filter.DateFrom,
		DateTo:           filter.DateTo,
		Preferences:      prefs,
		Currency:         prefs.HomeCurrency,
		TravelTypes:      travelTypes,
		Jurisdiction:     reimbursement.JurisdictionForCurrency(prefs.HomeCurrency),
		DistanceUnit:     prefs.DistanceUnit,
		TieredDeductions: []entity.TravelTypeDeduction{},
		ByCategory:       []entity.CostBreakdownRow{},
	}
}

func (s *reportServiceImpl) assembleTravel(
	report *entity.TravelReport,
	scope entity.ReportScope,
	prefs entity.UserPreferences,
	data *scopeData,
	travelTypes []string,
) {
	row := data.row

	report.TotalCost = units.Round2(row.TotalCostHC)
	report.RecordsCount = row.RecordsCount
	report.ByCategory = categoryBreakdown(row.ByCategory, row.TotalCostHC)
	report.VehiclesCount = len(scope.VehicleIDs)

	var filteredKm float64
	for _, d := range data.travelDistances {
		filteredKm += d
	}
	report.FilteredDistance = units.Round2Ptr(units.DistanceFromKm(&filteredKm, prefs.DistanceUnit))

	totalKm := row.OdometerDistanceKm()
	report.TotalPeriodDistance = units.Round2Ptr(units.DistanceFromKm(totalKm, prefs.DistanceUnit))

	var businessPct *float64
	if totalKm != nil && *totalKm > 0 {
		pct := clampPercent(filteredKm / *totalKm * 100)
		businessPct = units.Float64Ptr(units.Round2(pct))
	}
	report.BusinessUsePercent = businessPct

	year := scope.DateFrom.Year()
	var tieredTotal float64
	for _, travelType := range travelTypes {
		if !reimbursement.IsDeductible(report.Jurisdiction, travelType) {
			continue
		}
		cfg, ok := reimbursement.RatesFor(report.Jurisdiction, year, travelType)
		if !ok {
			// No table for this type/year: omit, not an error.
			continue
		}
		km := data.travelDistances[travelType]
		tableDistance := units.DistanceFromKm(&km, cfg.DistanceUnit)
		result := reimbursement.CalculateTiered(*tableDistance, cfg)

		report.TieredDeductions = append(report.TieredDeductions, entity.TravelTypeDeduction{
			TravelType:   travelType,
			Distance:     units.Round2(*tableDistance),
			DistanceUnit: cfg.DistanceUnit,
			Currency:     cfg.Currency,
			Total:        result.Total,
			Breakdown:    result.Breakdown,
		})
		tieredTotal += result.Total
	}
	report.TieredDeductionTotal = units.Round2(tieredTotal)

	report.ActualExpense = actualExpenseDeduction(row.ByCategory, businessPct)
}

// actualExpenseDeduction applies the business-use percentage to each
// expense category. Categories beyond fuel and maintenance are folded
// into "other". Nil when the percentage itself is unknown.
func actualExpenseDeduction(rows []entity.CategoryCost, businessPct *float64) *entity.ActualExpenseDeduction {
	if businessPct == nil {
		return nil
	}

	totals := map[string]float64{}
	for _, row := range rows {
		category := row.Category
		switch category {
		case entity.CategoryFuel, entity.CategoryMaintenance:
		default:
			category = entity.CategoryOther
		}
		totals[category] += row.CostHC
	}

	categories := make([]string, 0, len(totals))
	for category := range totals {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	deduction := &entity.ActualExpenseDeduction{ByCategory: []entity.CategoryDeduction{}}
	var total float64
	for _, category := range categories {
		deductible := totals[category] * *businessPct / 100
		deduction.ByCategory = append(deduction.ByCategory, entity.CategoryDeduction{
			Category:      category,
			CategoryTotal: units.Round2(totals[category]),
			Deductible:    units.Round2(deductible),
		})
		total += deductible
	}
	deduction.Total = units.Round2(total)
	return deduction
}
