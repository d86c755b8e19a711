package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/middleware"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/service"
	"github.com/labstack/echo/v4"
)

const defaultTrendMonths = 6

// AnalyticsHandler handles spending analytics requests
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

type MonthlySpendingResponse struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Status string `json:"status"`
	Total  string `json:"total"`
}

type CategoryAmountResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type TrendPointResponse struct {
	Month    string `json:"month"`
	MonthKey string `json:"monthKey"`
	Amount   string `json:"amount"`
}

type MonthReportResponse struct {
	MonthKey     string `json:"monthKey"`
	Count        int    `json:"count"`
	PaidCount    int    `json:"paidCount"`
	PendingCount int    `json:"pendingCount"`
	PaidTotal    string `json:"paidTotal"`
}

type AnalyticsStatsResponse struct {
	CurrentMonthTotal string `json:"currentMonthTotal"`
	LastMonthTotal    string `json:"lastMonthTotal"`
	AverageMonthly    string `json:"averageMonthly"`
	TotalBills        int    `json:"totalBills"`
}

type OverviewResponse struct {
	Filters    domain.AnalyticsFilters  `json:"filters"`
	Stats      AnalyticsStatsResponse   `json:"stats"`
	Trend      []TrendPointResponse     `json:"trend"`
	Categories []CategoryAmountResponse `json:"categories"`
	Report     []MonthReportResponse    `json:"report"`
}

// GetMonthlySpending handles GET /api/v1/analytics/monthly/:year/:month
func (h *AnalyticsHandler) GetMonthlySpending(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	year, month, err := parseYearMonth(c)
	if err != nil {
		return invalidParam(c, err)
	}
	status := statusParam(c)

	total, err := h.analyticsService.GetMonthlySpending(profileID, year, month, status)
	if err != nil {
		return handleServiceError(c, err, profileID, "get monthly spending")
	}
	return c.JSON(http.StatusOK, MonthlySpendingResponse{
		Year:   year,
		Month:  month,
		Status: string(status),
		Total:  total.StringFixed(2),
	})
}

// GetSpendingByCategory handles GET /api/v1/analytics/categories/:year/:month
func (h *AnalyticsHandler) GetSpendingByCategory(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	year, month, err := parseYearMonth(c)
	if err != nil {
		return invalidParam(c, err)
	}

	byCategory, err := h.analyticsService.GetSpendingByCategory(profileID, year, month, statusParam(c))
	if err != nil {
		return handleServiceError(c, err, profileID, "get spending by category")
	}
	return c.JSON(http.StatusOK, toCategoryResponses(service.SortedCategoryAmounts(byCategory)))
}

// GetTrend handles GET /api/v1/analytics/trend?months=&status=&category=
func (h *AnalyticsHandler) GetTrend(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	months := defaultTrendMonths
	if raw := c.QueryParam("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return invalidParam(c, &paramError{Field: "months", Message: "Must be an integer between 1 and 60"})
		}
		months = n
	}

	var (
		trend []domain.TrendPoint
		err   error
	)
	category := c.QueryParam("category")
	if category != "" && category != domain.CategoryAll {
		trend, err = h.analyticsService.GetCategoryTrend(profileID, months, statusParam(c), category)
	} else {
		trend, err = h.analyticsService.GetSpendingTrend(profileID, months, statusParam(c))
	}
	if err != nil {
		return handleServiceError(c, err, profileID, "get spending trend")
	}
	return c.JSON(http.StatusOK, toTrendResponses(trend))
}

// GetReport handles GET /api/v1/analytics/report
func (h *AnalyticsHandler) GetReport(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	report, err := h.analyticsService.GetDetailedReport(profileID, filtersFromQuery(c))
	if err != nil {
		return handleServiceError(c, err, profileID, "get detailed report")
	}
	return c.JSON(http.StatusOK, toReportResponses(report))
}

// GetOverview handles GET /api/v1/analytics/overview
func (h *AnalyticsHandler) GetOverview(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	overview, err := h.analyticsService.GetOverview(profileID, filtersFromQuery(c))
	if err != nil {
		return handleServiceError(c, err, profileID, "get analytics overview")
	}

	return c.JSON(http.StatusOK, OverviewResponse{
		Filters: overview.Filters,
		Stats: AnalyticsStatsResponse{
			CurrentMonthTotal: overview.Stats.CurrentMonthTotal.StringFixed(2),
			LastMonthTotal:    overview.Stats.LastMonthTotal.StringFixed(2),
			AverageMonthly:    overview.Stats.AverageMonthly.StringFixed(2),
			TotalBills:        overview.Stats.TotalBills,
		},
		Trend:      toTrendResponses(overview.Trend),
		Categories: toCategoryResponses(overview.Categories),
		Report:     toReportResponses(overview.Report),
	})
}

func statusParam(c echo.Context) domain.StatusFilter {
	if s := c.QueryParam("status"); s != "" {
		return domain.StatusFilter(s)
	}
	return domain.StatusAll
}

// filtersFromQuery starts from the reset state and applies each present parameter
func filtersFromQuery(c echo.Context) domain.AnalyticsFilters {
	filters := domain.DefaultAnalyticsFilters()
	if v := c.QueryParam("timeRange"); v != "" {
		filters = filters.WithTimeRange(v)
	}
	if v := c.QueryParam("category"); v != "" {
		filters = filters.WithCategory(v)
	}
	if v := c.QueryParam("status"); v != "" {
		filters = filters.WithStatus(domain.StatusFilter(v))
	}
	if v := c.QueryParam("selectedMonth"); v != "" {
		filters = filters.ToggleMonth(v)
	}
	return filters
}

func toCategoryResponses(amounts []domain.CategoryAmount) []CategoryAmountResponse {
	resp := make([]CategoryAmountResponse, len(amounts))
	for i, a := range amounts {
		resp[i] = CategoryAmountResponse{Category: a.Category, Amount: a.Amount.StringFixed(2)}
	}
	return resp
}

func toTrendResponses(points []domain.TrendPoint) []TrendPointResponse {
	resp := make([]TrendPointResponse, len(points))
	for i, p := range points {
		resp[i] = TrendPointResponse{Month: p.Month, MonthKey: p.MonthKey, Amount: p.Amount.StringFixed(2)}
	}
	return resp
}

func toReportResponses(rows []domain.MonthReport) []MonthReportResponse {
	resp := make([]MonthReportResponse, len(rows))
	for i, r := range rows {
		resp[i] = MonthReportResponse{
			MonthKey:     r.MonthKey,
			Count:        r.Count,
			PaidCount:    r.PaidCount,
			PendingCount: r.PendingCount,
			PaidTotal:    r.PaidTotal.StringFixed(2),
		}
	}
	return resp
}
