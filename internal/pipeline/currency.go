package pipeline

import "github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"

// NormalizeCurrency rewrites every transaction into the reference
// currency, multiplying the amount by the matching rate. A currency with
// no rate entry keeps its amount (multiplier 1.0) but is still relabeled.
// Non-transaction events pass through untouched. Transactions are mutated
// in place; the pre-conversion amount is not retained.
func NormalizeCurrency(events []domain.Event, rates []domain.ExchangeRate) {
	rateFor := make(map[domain.Currency]float64, len(rates))
	for _, rate := range rates {
		if _, ok := rateFor[rate.Currency]; !ok {
			rateFor[rate.Currency] = rate.RateToUSD
		}
	}

	for _, event := range events {
		tx, ok := event.(*domain.Transaction)
		if !ok {
			continue
		}
		if rate, ok := rateFor[tx.Currency]; ok {
			tx.Amount *= rate
		}
		tx.Currency = domain.ReferenceCurrency
	}
}
