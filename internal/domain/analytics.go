package domain

import (
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

type StatusFilter string

const (
	StatusAll    StatusFilter = "all"
	StatusPaid   StatusFilter = "paid"
	StatusUnpaid StatusFilter = "unpaid"
)

// IsValid reports whether s is a known status filter
func (s StatusFilter) IsValid() bool {
	return s == StatusAll || s == StatusPaid || s == StatusUnpaid
}

// Matches applies the status predicate to a bill
func (s StatusFilter) Matches(b *Bill) bool {
	switch s {
	case StatusPaid:
		return b.IsPaid
	case StatusUnpaid:
		return !b.IsPaid
	default:
		return true
	}
}

const (
	TimeRangeCurrent = "current"
	TimeRangeAll     = "all"
	CategoryAll      = "all"

	// MaxTrendMonths bounds the "all" time range
	MaxTrendMonths = 60
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// AnalyticsFilters is an immutable filter value. The With* methods return
// updated copies; the receiver is never modified.
type AnalyticsFilters struct {
	TimeRange     string       `json:"timeRange"`
	Category      string       `json:"category"`
	Status        StatusFilter `json:"status"`
	SelectedMonth string       `json:"selectedMonth"`
}

// DefaultAnalyticsFilters returns the reset state
func DefaultAnalyticsFilters() AnalyticsFilters {
	return AnalyticsFilters{
		TimeRange: TimeRangeCurrent,
		Category:  CategoryAll,
		Status:    StatusAll,
	}
}

func (f AnalyticsFilters) WithTimeRange(timeRange string) AnalyticsFilters {
	f.TimeRange = timeRange
	return f
}

func (f AnalyticsFilters) WithCategory(category string) AnalyticsFilters {
	f.Category = category
	return f
}

func (f AnalyticsFilters) WithStatus(status StatusFilter) AnalyticsFilters {
	f.Status = status
	return f
}

// ToggleMonth selects monthKey for drill-down, or clears the selection when
// monthKey is already selected.
func (f AnalyticsFilters) ToggleMonth(monthKey string) AnalyticsFilters {
	if f.SelectedMonth == monthKey {
		f.SelectedMonth = ""
	} else {
		f.SelectedMonth = monthKey
	}
	return f
}

// TimeRangeMonths returns N for an explicit "N" range. ok is false for
// "current", "all" or anything unparsable.
func (f AnalyticsFilters) TimeRangeMonths() (n int, ok bool) {
	n, err := strconv.Atoi(f.TimeRange)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Validate checks every filter dimension
func (f AnalyticsFilters) Validate() error {
	switch f.TimeRange {
	case TimeRangeCurrent, TimeRangeAll:
	default:
		if n, ok := f.TimeRangeMonths(); !ok || n > MaxTrendMonths {
			return ErrInvalidFilter
		}
	}
	if f.Category == "" {
		return ErrInvalidFilter
	}
	if !f.Status.IsValid() {
		return ErrInvalidFilter
	}
	if f.SelectedMonth != "" && !monthKeyPattern.MatchString(f.SelectedMonth) {
		return ErrInvalidFilter
	}
	return nil
}

// IsValidMonthKey reports whether key has the YYYY-MM shape
func IsValidMonthKey(key string) bool {
	return monthKeyPattern.MatchString(key)
}

type TrendPoint struct {
	Month    string          `json:"month"`
	Amount   decimal.Decimal `json:"amount"`
	MonthKey string          `json:"monthKey"`
}

type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type MonthReport struct {
	MonthKey     string          `json:"monthKey"`
	Count        int             `json:"count"`
	PaidCount    int             `json:"paidCount"`
	PendingCount int             `json:"pendingCount"`
	PaidTotal    decimal.Decimal `json:"paidTotal"`
}

type AnalyticsStats struct {
	CurrentMonthTotal decimal.Decimal `json:"currentMonthTotal"`
	LastMonthTotal    decimal.Decimal `json:"lastMonthTotal"`
	AverageMonthly    decimal.Decimal `json:"averageMonthly"`
	TotalBills        int             `json:"totalBills"`
}

type AnalyticsOverview struct {
	Filters    AnalyticsFilters `json:"filters"`
	Stats      AnalyticsStats   `json:"stats"`
	Trend      []TrendPoint     `json:"trend"`
	Categories []CategoryAmount `json:"categories"`
	Report     []MonthReport    `json:"report"`
}
