package report

import (
	"github.com/freelancepro/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SumPaid sums the amounts of PAID invoices whose payment instant falls
// inside r. The result is decimal-exact and zero for an empty selection;
// callers never need to special-case "no invoices". Every row is
// integrity-checked before the status filter, so a malformed record
// fails the aggregation even when it would not have contributed.
func SumPaid(invoices []billing.Invoice, r TimeRange) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range invoices {
		inv := &invoices[i]
		if err := inv.CheckIntegrity(); err != nil {
			return decimal.Zero, err
		}
		if inv.Status != billing.InvoiceStatusPaid {
			continue
		}
		if r.Contains(*inv.PaidAt) {
			total = total.Add(inv.Amount)
		}
	}
	return total, nil
}

// SumPaidTotal sums the amounts of all PAID invoices regardless of when
// they were paid.
func SumPaidTotal(invoices []billing.Invoice) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range invoices {
		inv := &invoices[i]
		if err := inv.CheckIntegrity(); err != nil {
			return decimal.Zero, err
		}
		if inv.Status != billing.InvoiceStatusPaid {
			continue
		}
		total = total.Add(inv.Amount)
	}
	return total, nil
}

// GrowthRate computes the percentage change from previous to current.
// The zero-base cases follow a fixed policy rather than the mathematical
// limit: growth from a zero base is exactly 100 when current is positive,
// and 0 when both values are zero.
func GrowthRate(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}
