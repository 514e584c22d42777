// Package currency accumulates per-currency totals for report
// breakdowns. The same Accumulate/Transform pair is used for refuels,
// expenses and their combined totals so merge and rounding semantics
// are identical at every call site.
package currency

import (
	"sort"

	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/units"
)

// Accumulate merges amt into acc, keyed by currency code. Amount and
// records count are summed; currency is the uniqueness key. Merging is
// associative and commutative, so input order never matters.
func Accumulate(acc map[string]*entity.CurrencyAmount, amt entity.CurrencyAmount) {
	if existing, ok := acc[amt.Currency]; ok {
		existing.Amount += amt.Amount
		existing.RecordsCount += amt.RecordsCount
		return
	}
	acc[amt.Currency] = &entity.CurrencyAmount{
		Currency:     amt.Currency,
		Amount:       amt.Amount,
		RecordsCount: amt.RecordsCount,
	}
}

// Transform renders an accumulation map into an output slice, rounding
// each amount to two decimals. The map itself is never mutated, so a
// caller can keep accumulating into it after taking a snapshot. The
// slice is sorted by currency code for deterministic report output.
func Transform(acc map[string]*entity.CurrencyAmount) []entity.CurrencyAmount {
	out := make([]entity.CurrencyAmount, 0, len(acc))
	for _, a := range acc {
		out = append(out, entity.CurrencyAmount{
			Currency:     a.Currency,
			Amount:       units.Round2(a.Amount),
			RecordsCount: a.RecordsCount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}
