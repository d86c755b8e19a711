package service

import (
	"sort"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/util"
	"github.com/shopspring/decimal"
)

// AnalyticsService aggregates bills into monthly totals, category breakdowns,
// trends and the per-month report. Every bill counts at its face amount; the
// credit sign only matters to the balance projection.
type AnalyticsService struct {
	billRepo domain.BillRepository
	now      func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(billRepo domain.BillRepository) *AnalyticsService {
	return &AnalyticsService{
		billRepo: billRepo,
		now:      time.Now,
	}
}

// SetClock overrides the clock that defines the current month
func (s *AnalyticsService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *AnalyticsService) currentMonth() (int, int) {
	now := s.now()
	return now.Year(), int(now.Month())
}

// GetMonthlySpending sums the month's bills that match status
func (s *AnalyticsService) GetMonthlySpending(profileID int32, year, month int, status domain.StatusFilter) (decimal.Decimal, error) {
	if err := validateYearMonth(year, month); err != nil {
		return decimal.Zero, err
	}
	if !status.IsValid() {
		return decimal.Zero, domain.ErrInvalidFilter
	}

	start, end := util.MonthBoundaries(year, month)
	bills, err := s.billRepo.ListByDateRange(profileID, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return sumSpending(bills, status, domain.CategoryAll), nil
}

// GetSpendingByCategory groups the month's bills by category. Bills without
// a category are grouped under "Uncategorized".
func (s *AnalyticsService) GetSpendingByCategory(profileID int32, year, month int, status domain.StatusFilter) (map[string]decimal.Decimal, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, domain.ErrInvalidFilter
	}

	start, end := util.MonthBoundaries(year, month)
	bills, err := s.billRepo.ListByDateRange(profileID, start, end)
	if err != nil {
		return nil, err
	}
	return spendingByCategory(bills, status), nil
}

// GetSpendingTrend returns exactly months points ending at the current month,
// oldest first. Months without spending are present with a zero amount.
func (s *AnalyticsService) GetSpendingTrend(profileID int32, months int, status domain.StatusFilter) ([]domain.TrendPoint, error) {
	return s.trend(profileID, months, status, domain.CategoryAll)
}

// GetCategoryTrend is GetSpendingTrend restricted to one category
func (s *AnalyticsService) GetCategoryTrend(profileID int32, months int, status domain.StatusFilter, category string) ([]domain.TrendPoint, error) {
	if category == "" {
		return nil, domain.ErrInvalidFilter
	}
	return s.trend(profileID, months, status, category)
}

func (s *AnalyticsService) trend(profileID int32, months int, status domain.StatusFilter, category string) ([]domain.TrendPoint, error) {
	if months < 1 || months > domain.MaxTrendMonths {
		return nil, domain.ErrInvalidFilter
	}
	if !status.IsValid() {
		return nil, domain.ErrInvalidFilter
	}

	year, month := s.currentMonth()
	firstYear, firstMonth := util.AddMonths(year, month, -(months - 1))
	start, _ := util.MonthBoundaries(firstYear, firstMonth)
	_, end := util.MonthBoundaries(year, month)

	bills, err := s.billRepo.ListByDateRange(profileID, start, end)
	if err != nil {
		return nil, err
	}
	return buildTrend(bills, firstYear, firstMonth, months, status, category), nil
}

// GetDetailedReport groups bills by month, newest month first. Category,
// status and time range filters apply before grouping, and the time range
// selects the same months as the trend. SelectedMonth narrows the report to
// that month.
func (s *AnalyticsService) GetDetailedReport(profileID int32, filters domain.AnalyticsFilters) ([]domain.MonthReport, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	bills, err := s.billRepo.ListByProfile(profileID)
	if err != nil {
		return nil, err
	}

	months := s.trendMonths(bills, filters)
	return s.buildReport(bills, filters, months), nil
}

// TrendMonths resolves the number of months a time range covers:
// "current" is 1, "N" is N and "all" spans back to the earliest bill.
func (s *AnalyticsService) TrendMonths(profileID int32, filters domain.AnalyticsFilters) (int, error) {
	if err := filters.Validate(); err != nil {
		return 0, err
	}
	if filters.TimeRange != domain.TimeRangeAll {
		return s.trendMonths(nil, filters), nil
	}
	bills, err := s.billRepo.ListByProfile(profileID)
	if err != nil {
		return 0, err
	}
	return s.trendMonths(bills, filters), nil
}

// GetOverview recomputes everything the analytics view shows for filters
func (s *AnalyticsService) GetOverview(profileID int32, filters domain.AnalyticsFilters) (*domain.AnalyticsOverview, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	bills, err := s.billRepo.ListByProfile(profileID)
	if err != nil {
		return nil, err
	}

	year, month := s.currentMonth()
	months := s.trendMonths(bills, filters)
	firstYear, firstMonth := util.AddMonths(year, month, -(months - 1))
	trend := buildTrend(bills, firstYear, firstMonth, months, filters.Status, filters.Category)

	trendSum := decimal.Zero
	for _, p := range trend {
		trendSum = trendSum.Add(p.Amount)
	}
	average := decimal.Zero
	if len(trend) > 0 {
		average = trendSum.Div(decimal.NewFromInt(int64(len(trend))))
	}

	prevYear, prevMonth := util.PreviousMonth(year, month)
	totalBills := 0
	for _, b := range bills {
		if matchesCategory(b, filters.Category) && filters.Status.Matches(b) {
			totalBills++
		}
	}

	breakdownYear, breakdownMonth := year, month
	if filters.SelectedMonth != "" {
		breakdownYear, breakdownMonth, err = util.ParseMonthKey(filters.SelectedMonth)
		if err != nil {
			return nil, domain.ErrInvalidFilter
		}
	}
	monthBills := billsInMonth(bills, breakdownYear, breakdownMonth)
	byCategory := spendingByCategory(monthBills, filters.Status)
	if filters.Category != domain.CategoryAll {
		amount, ok := byCategory[filters.Category]
		byCategory = map[string]decimal.Decimal{}
		if ok {
			byCategory[filters.Category] = amount
		}
	}

	return &domain.AnalyticsOverview{
		Filters: filters,
		Stats: domain.AnalyticsStats{
			CurrentMonthTotal: sumSpending(billsInMonth(bills, year, month), filters.Status, filters.Category),
			LastMonthTotal:    sumSpending(billsInMonth(bills, prevYear, prevMonth), filters.Status, filters.Category),
			AverageMonthly:    average,
			TotalBills:        totalBills,
		},
		Trend:      trend,
		Categories: SortedCategoryAmounts(byCategory),
		Report:     s.buildReport(bills, filters, months),
	}, nil
}

// trendMonths expects filters to be valid and bills sorted by due date
func (s *AnalyticsService) trendMonths(bills []*domain.Bill, filters domain.AnalyticsFilters) int {
	switch filters.TimeRange {
	case domain.TimeRangeCurrent:
		return 1
	case domain.TimeRangeAll:
		if len(bills) == 0 {
			return 1
		}
		year, month := s.currentMonth()
		earliest := bills[0].DueDate
		for _, b := range bills[1:] {
			if b.DueDate.Before(earliest) {
				earliest = b.DueDate
			}
		}
		n := util.MonthsBetween(earliest.Year(), int(earliest.Month()), year, month) + 1
		if n < 1 {
			n = 1
		}
		if n > domain.MaxTrendMonths {
			n = domain.MaxTrendMonths
		}
		return n
	default:
		n, _ := filters.TimeRangeMonths()
		return n
	}
}

func (s *AnalyticsService) buildReport(bills []*domain.Bill, filters domain.AnalyticsFilters, months int) []domain.MonthReport {
	year, month := s.currentMonth()
	firstYear, firstMonth := util.AddMonths(year, month, -(months - 1))
	windowStart := util.MonthKey(firstYear, firstMonth)
	windowEnd := util.MonthKey(year, month)

	grouped := make(map[string]*domain.MonthReport)
	for _, b := range bills {
		if !matchesCategory(b, filters.Category) || !filters.Status.Matches(b) {
			continue
		}
		key := util.MonthKeyOf(b.DueDate)
		if key < windowStart || key > windowEnd {
			continue
		}
		if filters.SelectedMonth != "" && key != filters.SelectedMonth {
			continue
		}

		r, ok := grouped[key]
		if !ok {
			r = &domain.MonthReport{MonthKey: key, PaidTotal: decimal.Zero}
			grouped[key] = r
		}
		r.Count++
		if b.IsPaid {
			r.PaidCount++
			r.PaidTotal = r.PaidTotal.Add(b.Amount)
		} else {
			r.PendingCount++
		}
	}

	report := make([]domain.MonthReport, 0, len(grouped))
	for _, r := range grouped {
		report = append(report, *r)
	}
	sort.Slice(report, func(i, j int) bool { return report[i].MonthKey > report[j].MonthKey })
	return report
}

func buildTrend(bills []*domain.Bill, firstYear, firstMonth, months int, status domain.StatusFilter, category string) []domain.TrendPoint {
	totals := make(map[string]decimal.Decimal)
	for _, b := range bills {
		if !status.Matches(b) || !matchesCategory(b, category) {
			continue
		}
		key := util.MonthKeyOf(b.DueDate)
		totals[key] = totals[key].Add(b.Amount)
	}

	trend := make([]domain.TrendPoint, 0, months)
	for i := 0; i < months; i++ {
		y, m := util.AddMonths(firstYear, firstMonth, i)
		key := util.MonthKey(y, m)
		trend = append(trend, domain.TrendPoint{
			Month:    util.MonthLabel(y, m),
			Amount:   totals[key],
			MonthKey: key,
		})
	}
	return trend
}

func sumSpending(bills []*domain.Bill, status domain.StatusFilter, category string) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		if !status.Matches(b) || !matchesCategory(b, category) {
			continue
		}
		total = total.Add(b.Amount)
	}
	return total
}

func spendingByCategory(bills []*domain.Bill, status domain.StatusFilter) map[string]decimal.Decimal {
	categories := make(map[string]decimal.Decimal)
	for _, b := range bills {
		if !status.Matches(b) {
			continue
		}
		name := categoryOf(b)
		categories[name] = categories[name].Add(b.Amount)
	}
	return categories
}

func billsInMonth(bills []*domain.Bill, year, month int) []*domain.Bill {
	key := util.MonthKey(year, month)
	var result []*domain.Bill
	for _, b := range bills {
		if util.MonthKeyOf(b.DueDate) == key {
			result = append(result, b)
		}
	}
	return result
}

func categoryOf(b *domain.Bill) string {
	if b.Category == "" {
		return domain.UncategorizedCategory
	}
	return b.Category
}

func matchesCategory(b *domain.Bill, category string) bool {
	return category == "" || category == domain.CategoryAll || categoryOf(b) == category
}

// SortedCategoryAmounts orders by amount descending, then name
func SortedCategoryAmounts(m map[string]decimal.Decimal) []domain.CategoryAmount {
	result := make([]domain.CategoryAmount, 0, len(m))
	for name, amount := range m {
		result = append(result, domain.CategoryAmount{Category: name, Amount: amount})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Amount.Equal(result[j].Amount) {
			return result[i].Amount.GreaterThan(result[j].Amount)
		}
		return result[i].Category < result[j].Category
	})
	return result
}
