package handler

import (
	"net/http"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/middleware"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/service"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// BalanceHandler handles monthly credit and coverage requests
type BalanceHandler struct {
	balanceService *service.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(balanceService *service.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

type CreditRequest struct {
	Credit string `json:"credit"`
}

type CreditResponse struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Credit string `json:"credit"`
}

// CoverageRequest asks for coverage of the unpaid bills due in [start, end]
type CoverageRequest struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Credit string `json:"credit"`
}

type BillCoverageResponse struct {
	BillID       int32  `json:"billId"`
	Name         string `json:"name"`
	DueDate      string `json:"dueDate"`
	Amount       string `json:"amount"`
	IsCredit     bool   `json:"isCredit"`
	CreditBefore string `json:"creditBefore"`
	CreditAfter  string `json:"creditAfter"`
	Sufficient   bool   `json:"sufficient"`
	ShortBy      string `json:"shortBy"`
	Covered      bool   `json:"covered"`
}

type CoverageResponse struct {
	Bills          []BillCoverageResponse `json:"bills"`
	CoveredUntil   *string                `json:"coveredUntil"`
	BillsCovered   int                    `json:"billsCovered"`
	FinalRemaining string                 `json:"finalRemaining"`
}

type MonthBalanceResponse struct {
	Year        int               `json:"year"`
	Month       int               `json:"month"`
	Credit      string            `json:"credit"`
	UnpaidTotal string            `json:"unpaidTotal"`
	Difference  string            `json:"difference"`
	IsSurplus   bool              `json:"isSurplus"`
	State       string            `json:"state"`
	Coverage    *CoverageResponse `json:"coverage,omitempty"`
}

// GetCredit handles GET /api/v1/balance/:year/:month/credit
func (h *BalanceHandler) GetCredit(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	year, month, err := parseYearMonth(c)
	if err != nil {
		return invalidParam(c, err)
	}

	credit, err := h.balanceService.GetMonthlyCredit(profileID, year, month)
	if err != nil {
		return handleServiceError(c, err, profileID, "get monthly credit")
	}
	return c.JSON(http.StatusOK, CreditResponse{Year: year, Month: month, Credit: credit.StringFixed(2)})
}

// SetCredit handles PUT /api/v1/balance/:year/:month/credit
func (h *BalanceHandler) SetCredit(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	year, month, err := parseYearMonth(c)
	if err != nil {
		return invalidParam(c, err)
	}

	var req CreditRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	credit, err := parseAmount("credit", req.Credit)
	if err != nil {
		return invalidParam(c, err)
	}

	saved, err := h.balanceService.SetMonthlyCredit(profileID, year, month, credit)
	if err != nil {
		return handleServiceError(c, err, profileID, "set monthly credit")
	}

	log.Info().Int32("profile_id", profileID).Int("year", year).Int("month", month).Msg("Monthly credit updated")
	return c.JSON(http.StatusOK, CreditResponse{Year: saved.Year, Month: saved.Month, Credit: saved.Credit.StringFixed(2)})
}

// GetMonthBalance handles GET /api/v1/balance/:year/:month
func (h *BalanceHandler) GetMonthBalance(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	year, month, err := parseYearMonth(c)
	if err != nil {
		return invalidParam(c, err)
	}

	balance, err := h.balanceService.GetMonthBalance(profileID, year, month)
	if err != nil {
		return handleServiceError(c, err, profileID, "get month balance")
	}

	resp := MonthBalanceResponse{
		Year:        balance.Year,
		Month:       balance.Month,
		Credit:      balance.Credit.StringFixed(2),
		UnpaidTotal: balance.UnpaidTotal.StringFixed(2),
		Difference:  balance.Difference.StringFixed(2),
		IsSurplus:   balance.IsSurplus,
		State:       string(balance.State),
	}
	if balance.Coverage != nil {
		coverage := toCoverageResponse(balance.Coverage)
		resp.Coverage = &coverage
	}
	return c.JSON(http.StatusOK, resp)
}

// ComputeCoverage handles POST /api/v1/balance/coverage
func (h *BalanceHandler) ComputeCoverage(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	var req CoverageRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	start, err := parseDateParam("start", req.Start)
	if err != nil {
		return invalidParam(c, err)
	}
	end, err := parseDateParam("end", req.End)
	if err != nil {
		return invalidParam(c, err)
	}
	credit, err := parseAmount("credit", req.Credit)
	if err != nil {
		return invalidParam(c, err)
	}

	result, err := h.balanceService.ComputeRangeCoverage(profileID, start, end, credit)
	if err != nil {
		return handleServiceError(c, err, profileID, "compute coverage")
	}
	return c.JSON(http.StatusOK, toCoverageResponse(result))
}

func toCoverageResponse(r *domain.CoverageResult) CoverageResponse {
	bills := make([]BillCoverageResponse, len(r.Bills))
	for i, b := range r.Bills {
		bills[i] = BillCoverageResponse{
			BillID:       b.BillID,
			Name:         b.Name,
			DueDate:      util.FormatDate(b.DueDate),
			Amount:       b.Amount.StringFixed(2),
			IsCredit:     b.IsCredit,
			CreditBefore: b.CreditBefore.StringFixed(2),
			CreditAfter:  b.CreditAfter.StringFixed(2),
			Sufficient:   b.Sufficient,
			ShortBy:      b.ShortBy.StringFixed(2),
			Covered:      b.Covered,
		}
	}

	resp := CoverageResponse{
		Bills:          bills,
		BillsCovered:   r.BillsCovered,
		FinalRemaining: r.FinalRemaining.StringFixed(2),
	}
	if r.CoveredUntil != nil {
		until := util.FormatDate(*r.CoveredUntil)
		resp.CoveredUntil = &until
	}
	return resp
}
