package report

import (
	"context"
	"time"

	"github.com/freelancepro/backend/internal/domain/billing"
	"github.com/freelancepro/backend/internal/domain/project"
	"github.com/freelancepro/backend/internal/domain/report"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/freelancepro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EarningsService builds the earnings reports. It resolves the caller's
// invoice set through the ledger accessor, derives the bucket ranges, and
// reduces each range to a decimal-exact sum. The service holds no state
// between requests; every report is computed fresh.
type EarningsService struct {
	invoices billing.InvoiceRepository
	projects project.ProjectRepository
	logger   *zap.Logger
}

// NewEarningsService creates a new earnings service
func NewEarningsService(
	invoices billing.InvoiceRepository,
	projects project.ProjectRepository,
	logger *zap.Logger,
) *EarningsService {
	return &EarningsService{
		invoices: invoices,
		projects: projects,
		logger:   logger,
	}
}

// GetSummary returns the headline earnings figures: lifetime net earnings
// plus the sums for the current month, week and day buckets around now.
func (s *EarningsService) GetSummary(ctx context.Context, userID uuid.UUID, now time.Time) (*report.Summary, error) {
	invoices, err := s.invoices.FindPaidByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	net, err := report.SumPaidTotal(invoices)
	if err != nil {
		return nil, err
	}
	monthly, err := report.SumPaid(invoices, report.MonthRange(now, 0))
	if err != nil {
		return nil, err
	}
	weekly, err := report.SumPaid(invoices, report.WeekRange(now, 0))
	if err != nil {
		return nil, err
	}
	today, err := report.SumPaid(invoices, report.DayRange(now, 0))
	if err != nil {
		return nil, err
	}

	return &report.Summary{
		NetEarnings:     net,
		MonthlyEarnings: monthly,
		WeeklyEarnings:  weekly,
		TodayEarnings:   today,
		Currency:        valueobject.DefaultCurrency,
	}, nil
}

// GetMonthlySeries returns the trailing twelve month buckets oldest first,
// together with the year-to-date total, the previous calendar year total,
// and the growth rate between the two.
func (s *EarningsService) GetMonthlySeries(ctx context.Context, userID uuid.UUID, now time.Time) (*report.MonthlySeries, error) {
	ytd := report.YearRange(now, 0)
	prevYear := report.YearRange(now, 1)
	oldestMonth := report.MonthRange(now, report.MonthlySeriesLength-1)

	from := oldestMonth.Start()
	if prevYear.Start().Before(from) {
		from = prevYear.Start()
	}

	invoices, err := s.invoices.FindPaidBetween(ctx, userID, from, ytd.End())
	if err != nil {
		return nil, err
	}

	data := make([]report.MonthlyPoint, 0, report.MonthlySeriesLength)
	for r := range report.TrailingMonths(now, report.MonthlySeriesLength) {
		sum, err := report.SumPaid(invoices, r)
		if err != nil {
			return nil, err
		}
		data = append(data, report.MonthlyPoint{
			Label:  report.MonthLabel(r),
			Start:  r.Start(),
			End:    r.End(),
			Amount: sum,
		})
	}

	ytdTotal, err := report.SumPaid(invoices, ytd)
	if err != nil {
		return nil, err
	}
	prevYearTotal, err := report.SumPaid(invoices, prevYear)
	if err != nil {
		return nil, err
	}

	return &report.MonthlySeries{
		Data:              data,
		YearToDateTotal:   ytdTotal,
		PreviousYearTotal: prevYearTotal,
		GrowthRate:        report.GrowthRate(ytdTotal, prevYearTotal),
	}, nil
}

// GetWeeklySeries returns the trailing eight week buckets oldest first,
// plus the year-to-date total.
func (s *EarningsService) GetWeeklySeries(ctx context.Context, userID uuid.UUID, now time.Time) (*report.WeeklySeries, error) {
	ytd := report.YearRange(now, 0)
	oldestWeek := report.WeekRange(now, report.WeeklySeriesLength-1)

	from := oldestWeek.Start()
	if ytd.Start().Before(from) {
		from = ytd.Start()
	}

	invoices, err := s.invoices.FindPaidBetween(ctx, userID, from, ytd.End())
	if err != nil {
		return nil, err
	}

	data := make([]report.WeeklyPoint, 0, report.WeeklySeriesLength)
	for r := range report.TrailingWeeks(now, report.WeeklySeriesLength) {
		sum, err := report.SumPaid(invoices, r)
		if err != nil {
			return nil, err
		}
		data = append(data, report.WeeklyPoint{
			Start:  r.Start(),
			End:    r.End(),
			Amount: sum,
		})
	}

	ytdTotal, err := report.SumPaid(invoices, ytd)
	if err != nil {
		return nil, err
	}

	return &report.WeeklySeries{
		Data:            data,
		YearToDateTotal: ytdTotal,
	}, nil
}

// GetProjectEarnings returns the earnings snapshot for one project owned
// by the user. A missing or foreign project surfaces as not found.
func (s *EarningsService) GetProjectEarnings(ctx context.Context, userID, projectID uuid.UUID) (*report.ProjectEarnings, error) {
	proj, err := s.projects.FindByIDForUser(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoices.FindByProject(ctx, proj.ID)
	if err != nil {
		return nil, err
	}

	result, err := report.CalculateProjectEarnings(invoices)
	if err != nil {
		if shared.HasCode(err, "DATA_INTEGRITY_VIOLATION") {
			s.logger.Error("Project earnings hit corrupt invoice data",
				zap.String("project_id", projectID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}
	return result, nil
}
