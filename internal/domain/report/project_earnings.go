package report

import (
	"sort"

	"github.com/freelancepro/backend/internal/domain/billing"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// recentPaymentsLimit caps the ranked recent-payments view
const recentPaymentsLimit = 5

// ProjectEarnings is a read-only snapshot of a single project's invoice
// set as of the read. It is computed fresh per request and never cached.
type ProjectEarnings struct {
	TotalInvoiced         decimal.Decimal               `json:"total_invoiced"`
	TotalPaid             decimal.Decimal               `json:"total_paid"`
	Outstanding           decimal.Decimal               `json:"outstanding"`
	PaymentCompletionRate decimal.Decimal               `json:"payment_completion_rate"`
	StatusBreakdown       map[billing.InvoiceStatus]int `json:"status_breakdown"`
	RecentPayments        []billing.Invoice             `json:"recent_payments"`
}

// CalculateProjectEarnings derives the earnings snapshot from all invoices
// of one project. Totals are decimal-exact; the completion rate is rounded
// to two decimal places and defined as 0 for an empty invoice set. A
// negative outstanding balance can only arise from corrupt data and is
// reported as such.
func CalculateProjectEarnings(invoices []billing.Invoice) (*ProjectEarnings, error) {
	totalInvoiced := decimal.Zero
	totalPaid := decimal.Zero
	breakdown := make(map[billing.InvoiceStatus]int)
	paid := make([]billing.Invoice, 0, len(invoices))

	for i := range invoices {
		inv := &invoices[i]
		if err := inv.CheckIntegrity(); err != nil {
			return nil, err
		}
		totalInvoiced = totalInvoiced.Add(inv.Amount)
		breakdown[inv.Status]++
		if inv.Status == billing.InvoiceStatusPaid {
			totalPaid = totalPaid.Add(inv.Amount)
			paid = append(paid, *inv)
		}
	}

	outstanding := totalInvoiced.Sub(totalPaid)
	if outstanding.IsNegative() {
		return nil, shared.NewDomainError("DATA_INTEGRITY_VIOLATION", "Outstanding balance is negative")
	}

	completionRate := decimal.Zero
	if !totalInvoiced.IsZero() {
		completionRate = totalPaid.Div(totalInvoiced).Mul(hundred).Round(2)
	}

	// PaidAt descending; ties keep input order.
	sort.SliceStable(paid, func(a, b int) bool {
		return paid[a].PaidAt.After(*paid[b].PaidAt)
	})
	if len(paid) > recentPaymentsLimit {
		paid = paid[:recentPaymentsLimit]
	}

	return &ProjectEarnings{
		TotalInvoiced:         totalInvoiced,
		TotalPaid:             totalPaid,
		Outstanding:           outstanding,
		PaymentCompletionRate: completionRate,
		StatusBreakdown:       breakdown,
		RecentPayments:        paid,
	}, nil
}
