package entity

import "time"

// ReportFilter is the caller-supplied scope of a report build. An
// empty VehicleIDs means "all vehicles owned by the account".
// TravelTypes is only consulted by the travel report.
type ReportFilter struct {
	VehicleIDs  []string  `json:"vehicle_ids"`
	TagIDs      []string  `json:"tag_ids"`
	DateFrom    time.Time `json:"date_from"`
	DateTo      time.Time `json:"date_to"`
	TravelTypes []string  `json:"travel_types"`
}

// ReportScope is a fully resolved query scope handed to the
// persistence layer: the account plus the concrete vehicle set.
type ReportScope struct {
	AccountID  string
	VehicleIDs []string
	TagIDs     []string
	DateFrom   time.Time
	DateTo     time.Time
}

// CostBreakdownRow is one rounded, percentage-annotated line of a cost
// breakdown. Percent is nil when the report total is zero.
type CostBreakdownRow struct {
	Name         string   `json:"name"`
	Cost         float64  `json:"cost"`
	RecordsCount int      `json:"records_count"`
	Percent      *float64 `json:"percent"`
}

// PeriodReport is the period expense summary. All numeric leaves are
// pre-rounded and expressed in the user's units; callers must not
// re-round.
type PeriodReport struct {
	DateFrom    time.Time       `json:"date_from"`
	DateTo      time.Time       `json:"date_to"`
	Preferences UserPreferences `json:"preferences"`
	Currency    string          `json:"currency"`

	TotalCost    float64            `json:"total_cost"`
	RecordsCount int                `json:"records_count"`
	ByCategory   []CostBreakdownRow `json:"by_category"`
	ByKind       []CostBreakdownRow `json:"by_kind"`

	ExpensesForeign []CurrencyAmount `json:"expenses_foreign"`
	RefuelsForeign  []CurrencyAmount `json:"refuels_foreign"`
	CombinedForeign []CurrencyAmount `json:"combined_foreign"`

	TotalDistance    *float64 `json:"total_distance"`
	DistanceUnit     string   `json:"distance_unit"`
	TotalFuelVolume  *float64 `json:"total_fuel_volume"`
	VolumeUnit       string   `json:"volume_unit"`
	FuelPricePerUnit *float64 `json:"fuel_price_per_unit"`
	CostPerDistance  *float64 `json:"cost_per_distance"`

	VehiclesCount int                `json:"vehicles_count"`
	Consumption   *ConsumptionResult `json:"consumption"`
}

// MonthlyReportRow is one calendar month of a yearly report.
// Month is 1..12.
type MonthlyReportRow struct {
	Month           int                `json:"month"`
	TotalCost       float64            `json:"total_cost"`
	RecordsCount    int                `json:"records_count"`
	TotalDistance   *float64           `json:"total_distance"`
	TotalFuelVolume *float64           `json:"total_fuel_volume"`
	Consumption     *ConsumptionResult `json:"consumption"`
}

// YearlyReport is the twelve-month annual breakdown. Months always
// contains exactly twelve rows ordered January..December, zero-valued
// where no data exists.
type YearlyReport struct {
	Year        int             `json:"year"`
	DateFrom    time.Time       `json:"date_from"`
	DateTo      time.Time       `json:"date_to"`
	Preferences UserPreferences `json:"preferences"`
	Currency    string          `json:"currency"`

	Months []MonthlyReportRow `json:"months"`

	TotalCost     float64  `json:"total_cost"`
	RecordsCount  int      `json:"records_count"`
	TotalDistance *float64 `json:"total_distance"`
	DistanceUnit  string   `json:"distance_unit"`

	VehiclesCount int                `json:"vehicles_count"`
	Consumption   *ConsumptionResult `json:"consumption"`
}

// TravelTypeDeduction is the tiered mileage deduction for one eligible
// travel type. Distance and the tier breakdown are expressed in the
// rate table's own distance unit and currency.
type TravelTypeDeduction struct {
	TravelType   string       `json:"travel_type"`
	Distance     float64      `json:"distance"`
	DistanceUnit string       `json:"distance_unit"`
	Currency     string       `json:"currency"`
	Total        float64      `json:"total"`
	Breakdown    []TierAmount `json:"breakdown"`
}

// CategoryDeduction is the actual-expense-method deduction for one
// expense category.
type CategoryDeduction struct {
	Category      string  `json:"category"`
	CategoryTotal float64 `json:"category_total"`
	Deductible    float64 `json:"deductible"`
}

// ActualExpenseDeduction is the actual-expense-method section of the
// travel report: per-category deductible amounts at the business-use
// percentage, plus their grand total.
type ActualExpenseDeduction struct {
	ByCategory []CategoryDeduction `json:"by_category"`
	Total      float64             `json:"total"`
}

// TravelReport is the tax-compliance travel report. BusinessUsePercent
// and ActualExpense are nil when the period's total tracked distance is
// zero or unknown. Travel types without a configured rate table are
// simply absent from TieredDeductions.
type TravelReport struct {
	DateFrom    time.Time       `json:"date_from"`
	DateTo      time.Time       `json:"date_to"`
	Preferences UserPreferences `json:"preferences"`
	Currency    string          `json:"currency"`
	TravelTypes []string        `json:"travel_types"`

	Jurisdiction string `json:"jurisdiction,omitempty"`

	FilteredDistance    *float64 `json:"filtered_distance"`
	TotalPeriodDistance *float64 `json:"total_period_distance"`
	DistanceUnit        string   `json:"distance_unit"`
	BusinessUsePercent  *float64 `json:"business_use_percent"`

	TieredDeductions     []TravelTypeDeduction   `json:"tiered_deductions"`
	TieredDeductionTotal float64                 `json:"tiered_deduction_total"`
	ActualExpense        *ActualExpenseDeduction `json:"actual_expense"`

	TotalCost     float64            `json:"total_cost"`
	RecordsCount  int                `json:"records_count"`
	ByCategory    []CostBreakdownRow `json:"by_category"`
	VehiclesCount int                `json:"vehicles_count"`
}
