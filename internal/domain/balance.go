package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillCoverage is the running-balance view of one unpaid bill
type BillCoverage struct {
	BillID       int32           `json:"billId"`
	Name         string          `json:"name"`
	DueDate      time.Time       `json:"dueDate"`
	Amount       decimal.Decimal `json:"amount"`
	IsCredit     bool            `json:"isCredit"`
	CreditBefore decimal.Decimal `json:"creditBefore"`
	CreditAfter  decimal.Decimal `json:"creditAfter"`
	Sufficient   bool            `json:"sufficient"`
	ShortBy      decimal.Decimal `json:"shortBy"`
	Covered      bool            `json:"covered"`
}

type CoverageResult struct {
	Bills          []BillCoverage  `json:"bills"`
	CoveredUntil   *time.Time      `json:"coveredUntil"`
	BillsCovered   int             `json:"billsCovered"`
	FinalRemaining decimal.Decimal `json:"finalRemaining"`
}

type BalanceState string

const (
	// BalanceStateEmpty means no unpaid bills and no credit: nothing to show
	BalanceStateEmpty          BalanceState = "empty"
	BalanceStateNothingToCover BalanceState = "nothing_to_cover"
	BalanceStateCovered        BalanceState = "covered"
	BalanceStateInsufficient   BalanceState = "insufficient"
)

type MonthBalance struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Credit      decimal.Decimal `json:"credit"`
	UnpaidTotal decimal.Decimal `json:"unpaidTotal"`
	Difference  decimal.Decimal `json:"difference"`
	IsSurplus   bool            `json:"isSurplus"`
	State       BalanceState    `json:"state"`
	Coverage    *CoverageResult `json:"coverage,omitempty"`
}
