package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/middleware"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/service"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// BillHandler handles bill HTTP requests
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// BillRequest is the create/update bill request body
type BillRequest struct {
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	DueDate      string `json:"dueDate"`
	Frequency    string `json:"frequency"`
	Category     string `json:"category"`
	Notes        string `json:"notes"`
	ReminderDays *int32 `json:"reminderDays,omitempty"`
	IsCredit     bool   `json:"isCredit"`
}

// SetPaidRequest is the mark paid/unpaid request body
type SetPaidRequest struct {
	IsPaid bool `json:"isPaid"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID           int32   `json:"id"`
	ProfileID    int32   `json:"profileId"`
	Name         string  `json:"name"`
	Amount       string  `json:"amount"`
	DueDate      string  `json:"dueDate"`
	Frequency    string  `json:"frequency"`
	Category     string  `json:"category"`
	Notes        string  `json:"notes"`
	ReminderDays int32   `json:"reminderDays"`
	Status       string  `json:"status"`
	IsPaid       bool    `json:"isPaid"`
	PaidDate     *string `json:"paidDate,omitempty"`
	IsCredit     bool    `json:"isCredit"`
	CreatedAt    string  `json:"createdAt"`
	LastModified string  `json:"lastModified"`
}

// CreateBill handles POST /api/v1/bills
func (h *BillHandler) CreateBill(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	input, err := bindBillRequest(c)
	if err != nil {
		return invalidParam(c, err)
	}

	bill, err := h.billService.CreateBill(profileID, input)
	if err != nil {
		return handleServiceError(c, err, profileID, "create bill")
	}

	log.Info().Int32("profile_id", profileID).Int32("bill_id", bill.ID).Msg("Bill created")
	return c.JSON(http.StatusCreated, toBillResponse(bill))
}

// GetBills handles GET /api/v1/bills, optionally narrowed by ?start=&end=
func (h *BillHandler) GetBills(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	startParam, endParam := c.QueryParam("start"), c.QueryParam("end")
	var (
		bills []*domain.Bill
		err   error
	)
	if startParam != "" || endParam != "" {
		start, parseErr := parseDateParam("start", startParam)
		if parseErr != nil {
			return invalidParam(c, parseErr)
		}
		end, parseErr := parseDateParam("end", endParam)
		if parseErr != nil {
			return invalidParam(c, parseErr)
		}
		bills, err = h.billService.GetBillsByDateRange(profileID, start, end)
	} else {
		bills, err = h.billService.ListBills(profileID)
	}
	if err != nil {
		return handleServiceError(c, err, profileID, "list bills")
	}

	return c.JSON(http.StatusOK, toBillResponses(bills))
}

// GetBillsByMonth handles GET /api/v1/bills/month/:year/:month
func (h *BillHandler) GetBillsByMonth(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	year, month, err := parseYearMonth(c)
	if err != nil {
		return invalidParam(c, err)
	}

	bills, err := h.billService.GetBillsByMonth(profileID, year, month)
	if err != nil {
		return handleServiceError(c, err, profileID, "list bills for month")
	}
	return c.JSON(http.StatusOK, toBillResponses(bills))
}

// GetBill handles GET /api/v1/bills/:id
func (h *BillHandler) GetBill(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	id, err := parseID(c, "id")
	if err != nil {
		return invalidParam(c, err)
	}

	bill, err := h.billService.GetBill(profileID, id)
	if err != nil {
		return handleServiceError(c, err, profileID, "get bill")
	}
	return c.JSON(http.StatusOK, toBillResponse(bill))
}

// UpdateBill handles PUT /api/v1/bills/:id
func (h *BillHandler) UpdateBill(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	id, err := parseID(c, "id")
	if err != nil {
		return invalidParam(c, err)
	}

	input, err := bindBillRequest(c)
	if err != nil {
		return invalidParam(c, err)
	}

	bill, err := h.billService.UpdateBill(profileID, id, input)
	if err != nil {
		return handleServiceError(c, err, profileID, "update bill")
	}
	return c.JSON(http.StatusOK, toBillResponse(bill))
}

// SetPaid handles PATCH /api/v1/bills/:id/paid
func (h *BillHandler) SetPaid(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	id, err := parseID(c, "id")
	if err != nil {
		return invalidParam(c, err)
	}

	var req SetPaidRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	bill, err := h.billService.SetPaid(profileID, id, req.IsPaid)
	if err != nil {
		return handleServiceError(c, err, profileID, "update paid state")
	}
	return c.JSON(http.StatusOK, toBillResponse(bill))
}

// DeleteBill handles DELETE /api/v1/bills/:id
func (h *BillHandler) DeleteBill(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	id, err := parseID(c, "id")
	if err != nil {
		return invalidParam(c, err)
	}

	if err := h.billService.DeleteBill(profileID, id); err != nil {
		return handleServiceError(c, err, profileID, "delete bill")
	}

	log.Info().Int32("profile_id", profileID).Int32("bill_id", id).Msg("Bill deleted")
	return c.NoContent(http.StatusNoContent)
}

func bindBillRequest(c echo.Context) (domain.CreateBillInput, error) {
	var req BillRequest
	if err := c.Bind(&req); err != nil {
		return domain.CreateBillInput{}, &paramError{Field: "body", Message: "Invalid request body"}
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return domain.CreateBillInput{}, err
	}
	dueDate, err := parseDateParam("dueDate", req.DueDate)
	if err != nil {
		return domain.CreateBillInput{}, err
	}

	return domain.CreateBillInput{
		Name:         req.Name,
		Amount:       amount,
		DueDate:      dueDate,
		Frequency:    domain.Frequency(req.Frequency),
		Category:     req.Category,
		Notes:        req.Notes,
		ReminderDays: req.ReminderDays,
		IsCredit:     req.IsCredit,
	}, nil
}

func toBillResponse(b *domain.Bill) BillResponse {
	resp := BillResponse{
		ID:           b.ID,
		ProfileID:    b.ProfileID,
		Name:         b.Name,
		Amount:       b.Amount.StringFixed(2),
		DueDate:      util.FormatDate(b.DueDate),
		Frequency:    string(b.Frequency),
		Category:     b.Category,
		Notes:        b.Notes,
		ReminderDays: b.ReminderDays,
		Status:       string(b.Status),
		IsPaid:       b.IsPaid,
		IsCredit:     b.IsCredit,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
		LastModified: b.LastModified.Format(time.RFC3339),
	}
	if b.PaidDate != nil {
		paid := util.FormatDate(*b.PaidDate)
		resp.PaidDate = &paid
	}
	return resp
}

func toBillResponses(bills []*domain.Bill) []BillResponse {
	resp := make([]BillResponse, len(bills))
	for i, b := range bills {
		resp[i] = toBillResponse(b)
	}
	return resp
}
