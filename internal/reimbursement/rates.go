// Package reimbursement applies jurisdiction- and year-specific tiered
// mileage rate tables to already-filtered travel distances.
package reimbursement

import (
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/units"
)

// Jurisdiction codes with configured rate tables.
const (
	JurisdictionCanada = "CA"
	JurisdictionUS     = "US"
)

// rateKey addresses one static rate table.
type rateKey struct {
	jurisdiction string
	year         int
	travelType   string
}

// rateTables is the static reference data for tiered mileage
// deductions. Tiers are ordered ascending by threshold; a zero
// threshold marks the final, unbounded tier.
//
// CA: CRA automobile allowance rates (per km, tiered at 5,000 km).
// US: IRS standard mileage rates (per mile, single tier).
var rateTables = map[rateKey]entity.ReimbursementRateConfig{
	{JurisdictionCanada, 2023, entity.TravelTypeBusiness}: {
		Year: 2023, Jurisdiction: JurisdictionCanada, TravelType: entity.TravelTypeBusiness,
		Currency: "CAD", DistanceUnit: units.DistanceKm,
		Tiers: []entity.RateTier{
			{ThresholdDistance: 5000, Rate: 0.68},
			{ThresholdDistance: 0, Rate: 0.62},
		},
	},
	{JurisdictionCanada, 2024, entity.TravelTypeBusiness}: {
		Year: 2024, Jurisdiction: JurisdictionCanada, TravelType: entity.TravelTypeBusiness,
		Currency: "CAD", DistanceUnit: units.DistanceKm,
		Tiers: []entity.RateTier{
			{ThresholdDistance: 5000, Rate: 0.70},
			{ThresholdDistance: 0, Rate: 0.64},
		},
	},
	{JurisdictionCanada, 2025, entity.TravelTypeBusiness}: {
		Year: 2025, Jurisdiction: JurisdictionCanada, TravelType: entity.TravelTypeBusiness,
		Currency: "CAD", DistanceUnit: units.DistanceKm,
		Tiers: []entity.RateTier{
			{ThresholdDistance: 5000, Rate: 0.72},
			{ThresholdDistance: 0, Rate: 0.66},
		},
	},
	{JurisdictionUS, 2023, entity.TravelTypeBusiness}: {
		Year: 2023, Jurisdiction: JurisdictionUS, TravelType: entity.TravelTypeBusiness,
		Currency: "USD", DistanceUnit: units.DistanceMi,
		Tiers: []entity.RateTier{
			{ThresholdDistance: 0, Rate: 0.655},
		},
	},
	{JurisdictionUS, 2024, entity.TravelTypeBusiness}: {
		Year: 2024, Jurisdiction: JurisdictionUS, TravelType: entity.TravelTypeBusiness,
		Currency: "USD", DistanceUnit: units.DistanceMi,
		Tiers: []entity.RateTier{
			{ThresholdDistance: 0, Rate: 0.67},
		},
	},
	{JurisdictionUS, 2024, entity.TravelTypeMedical}: {
		Year: 2024, Jurisdiction: JurisdictionUS, TravelType: entity.TravelTypeMedical,
		Currency: "USD", DistanceUnit: units.DistanceMi,
		Tiers: []entity.RateTier{
			{ThresholdDistance: 0, Rate: 0.21},
		},
	},
	{JurisdictionUS, 2024, entity.TravelTypeCharity}: {
		Year: 2024, Jurisdiction: JurisdictionUS, TravelType: entity.TravelTypeCharity,
		Currency: "USD", DistanceUnit: units.DistanceMi,
		Tiers: []entity.RateTier{
			{ThresholdDistance: 0, Rate: 0.14},
		},
	},
	{JurisdictionUS, 2025, entity.TravelTypeBusiness}: {
		Year: 2025, Jurisdiction: JurisdictionUS, TravelType: entity.TravelTypeBusiness,
		Currency: "USD", DistanceUnit: units.DistanceMi,
		Tiers: []entity.RateTier{
			{ThresholdDistance: 0, Rate: 0.70},
		},
	},
}

// eligibleTravelTypes maps each jurisdiction to the travel types that
// count toward a mileage deduction. Personal commuting is never
// deductible.
var eligibleTravelTypes = map[string]map[string]bool{
	JurisdictionCanada: {
		entity.TravelTypeBusiness: true,
		entity.TravelTypeMedical:  true,
		entity.TravelTypeMoving:   true,
	},
	JurisdictionUS: {
		entity.TravelTypeBusiness: true,
		entity.TravelTypeMedical:  true,
		entity.TravelTypeCharity:  true,
	},
}

// RatesFor looks up the static rate table for a jurisdiction, year and
// travel type. A missing table is not an error; the travel type is
// simply omitted from the deduction breakdown.
func RatesFor(jurisdiction string, year int, travelType string) (entity.ReimbursementRateConfig, bool) {
	cfg, ok := rateTables[rateKey{jurisdiction, year, travelType}]
	return cfg, ok
}

// IsDeductible reports whether a travel type counts toward a deduction
// in the given jurisdiction.
func IsDeductible(jurisdiction, travelType string) bool {
	return eligibleTravelTypes[jurisdiction][travelType]
}

// JurisdictionForCurrency resolves the tax jurisdiction from the home
// currency. This heuristic came from the product (CAD implies Canada);
// it misfires for users paid in a currency that does not match their
// tax residency and is flagged for product clarification. Unknown
// currencies resolve to no jurisdiction, which omits the tiered
// deduction entirely.
func JurisdictionForCurrency(homeCurrency string) string {
	switch homeCurrency {
	case "CAD":
		return JurisdictionCanada
	case "USD":
		return JurisdictionUS
	default:
		return ""
	}
}
