package entity

// CurrencyAmount is one per-currency total inside a breakdown list.
// Currency is the uniqueness key within any given list: two amounts for
// the same currency must be merged by summation before the list is
// returned to a caller.
type CurrencyAmount struct {
	Currency     string  `json:"currency"`
	Amount       float64 `json:"amount"`
	RecordsCount int     `json:"records_count"`
}

// ForeignCurrencyRow is a foreign-currency amount as produced by the
// persistence layer, tagged with the record kind it was summed from so
// the orchestrator can build per-kind and combined breakdowns.
type ForeignCurrencyRow struct {
	Kind         string  `json:"kind"`
	Currency     string  `json:"currency"`
	Amount       float64 `json:"amount"`
	RecordsCount int     `json:"records_count"`
}
