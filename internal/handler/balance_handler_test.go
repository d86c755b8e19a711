package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/service"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newBalanceHandler() (*BalanceHandler, *testutil.MockBillRepository) {
	billRepo := testutil.NewMockBillRepository()
	settingRepo := testutil.NewMockSettingRepository()
	return NewBalanceHandler(service.NewBalanceService(billRepo, settingRepo)), billRepo
}

func TestCredit_SetThenGet(t *testing.T) {
	h, _ := newBalanceHandler()

	c, rec := newContext(http.MethodPut, "/api/v1/balance/2024/3/credit", `{"credit": "500"}`)
	setProfile(c, 1)
	setParams(c, "year", "2024", "month", "3")
	if err := h.SetCredit(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	c, rec = newContext(http.MethodGet, "/api/v1/balance/2024/3/credit", "")
	setProfile(c, 1)
	setParams(c, "year", "2024", "month", "3")
	if err := h.GetCredit(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var resp CreditResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Credit != "500.00" {
		t.Errorf("Expected credit '500.00', got %s", resp.Credit)
	}
}

func TestGetCredit_DefaultsToZero(t *testing.T) {
	h, _ := newBalanceHandler()

	c, rec := newContext(http.MethodGet, "/api/v1/balance/2024/4/credit", "")
	setProfile(c, 1)
	setParams(c, "year", "2024", "month", "4")
	if err := h.GetCredit(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var resp CreditResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Credit != "0.00" {
		t.Errorf("Expected credit '0.00', got %s", resp.Credit)
	}
}

func TestSetCredit_Negative(t *testing.T) {
	h, _ := newBalanceHandler()

	c, rec := newContext(http.MethodPut, "/api/v1/balance/2024/3/credit", `{"credit": "-1"}`)
	setProfile(c, 1)
	setParams(c, "year", "2024", "month", "3")
	if err := h.SetCredit(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestComputeCoverage_StopsAtFirstShortfall(t *testing.T) {
	h, billRepo := newBalanceHandler()
	for i, amount := range []int64{100, 300, 50} {
		billRepo.AddBill(&domain.Bill{
			ProfileID: 1,
			Name:      "Bill",
			Amount:    decimal.NewFromInt(amount),
			DueDate:   time.Date(2024, 3, 1+i*10, 0, 0, 0, 0, time.UTC),
			Frequency: domain.FrequencyMonthly,
		})
	}

	body := `{"start": "2024-03-01", "end": "2024-03-31", "credit": "250"}`
	c, rec := newContext(http.MethodPost, "/api/v1/balance/coverage", body)
	setProfile(c, 1)
	if err := h.ComputeCoverage(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp CoverageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.BillsCovered != 1 {
		t.Errorf("Expected 1 bill covered, got %d", resp.BillsCovered)
	}
	if resp.CoveredUntil == nil || *resp.CoveredUntil != "2024-03-01" {
		t.Errorf("Expected coverage until 2024-03-01, got %v", resp.CoveredUntil)
	}
	if resp.FinalRemaining != "150.00" {
		t.Errorf("Expected 150.00 remaining, got %s", resp.FinalRemaining)
	}
	if len(resp.Bills) != 3 {
		t.Fatalf("Expected 3 display rows, got %d", len(resp.Bills))
	}
	if resp.Bills[1].Sufficient || resp.Bills[1].ShortBy != "150.00" {
		t.Errorf("Expected second bill short by 150.00, got %+v", resp.Bills[1])
	}
	if resp.Bills[2].Covered {
		t.Error("Expected bills after the shortfall to stay uncovered")
	}
}

func TestComputeCoverage_InvalidDate(t *testing.T) {
	h, _ := newBalanceHandler()

	body := `{"start": "03/01/2024", "end": "2024-03-31", "credit": "250"}`
	c, rec := newContext(http.MethodPost, "/api/v1/balance/coverage", body)
	setProfile(c, 1)
	if err := h.ComputeCoverage(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetMonthBalance_Empty(t *testing.T) {
	h, _ := newBalanceHandler()

	c, rec := newContext(http.MethodGet, "/api/v1/balance/2024/3", "")
	setProfile(c, 1)
	setParams(c, "year", "2024", "month", "3")
	if err := h.GetMonthBalance(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var resp MonthBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.State != string(domain.BalanceStateEmpty) {
		t.Errorf("Expected empty state, got %s", resp.State)
	}
	if resp.Coverage != nil {
		t.Error("Expected no coverage for an empty month")
	}
}
