package entity

// RateTier is one band of a progressive reimbursement rate schedule.
// ThresholdDistance is the upper bound of the band in the table's
// distance unit; 0 marks the final, unbounded tier.
type RateTier struct {
	ThresholdDistance float64 `json:"threshold_distance"`
	Rate              float64 `json:"rate"`
}

// ReimbursementRateConfig is a jurisdiction- and year-specific tiered
// rate table for one travel type. Static reference data, not
// user-mutable at request time. Tiers are ordered ascending by
// threshold.
type ReimbursementRateConfig struct {
	Year         int        `json:"year"`
	Jurisdiction string     `json:"jurisdiction"`
	TravelType   string     `json:"travel_type"`
	Currency     string     `json:"currency"`
	DistanceUnit string     `json:"distance_unit"`
	Tiers        []RateTier `json:"tiers"`
}

// TierAmount is the contribution of one tier to a tiered deduction.
type TierAmount struct {
	TierDistance float64 `json:"tier_distance"`
	TierRate     float64 `json:"tier_rate"`
	TierAmount   float64 `json:"tier_amount"`
}

// TieredDeduction is the result of applying a rate table to a distance:
// the total plus a breakdown containing only tiers that actually
// received nonzero distance.
type TieredDeduction struct {
	Total     float64      `json:"total"`
	Breakdown []TierAmount `json:"breakdown"`
}
