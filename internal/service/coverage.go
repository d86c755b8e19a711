package service

import (
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputeCoverage walks unpaid bills in the order given (ascending due date)
// and spends startingCredit on them. Credits add to the balance and are always
// covered. The first expense the balance cannot pay stops coverage: it and
// every later bill are uncovered and CoveredUntil no longer advances.
//
// Display rows are produced for every bill. Their running balance continues
// past the stop point and is never clamped, so a short bill reports a negative
// CreditAfter and a positive ShortBy.
func ComputeCoverage(unpaid []*domain.Bill, startingCredit decimal.Decimal) *domain.CoverageResult {
	result := &domain.CoverageResult{
		Bills: make([]domain.BillCoverage, 0, len(unpaid)),
	}

	remaining := startingCredit
	display := startingCredit
	stopped := false

	for _, b := range unpaid {
		row := domain.BillCoverage{
			BillID:       b.ID,
			Name:         b.Name,
			DueDate:      b.DueDate,
			Amount:       b.Amount,
			IsCredit:     b.IsCredit,
			CreditBefore: display,
			ShortBy:      decimal.Zero,
		}

		if b.IsCredit {
			display = display.Add(b.Amount)
		} else {
			display = display.Sub(b.Amount)
		}
		row.CreditAfter = display
		row.Sufficient = !display.IsNegative()
		if !row.Sufficient {
			row.ShortBy = display.Neg()
		}

		if !stopped {
			switch {
			case b.IsCredit:
				remaining = remaining.Add(b.Amount)
				row.Covered = true
			case remaining.GreaterThanOrEqual(b.Amount):
				remaining = remaining.Sub(b.Amount)
				row.Covered = true
			default:
				stopped = true
			}
			if row.Covered {
				due := b.DueDate
				result.CoveredUntil = &due
				result.BillsCovered++
			}
		}

		result.Bills = append(result.Bills, row)
	}

	result.FinalRemaining = remaining
	return result
}

// UnpaidTotal sums unpaid bills with credits counted negatively
func UnpaidTotal(bills []*domain.Bill) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		if b.IsPaid {
			continue
		}
		total = total.Add(b.SignedAmount())
	}
	return total
}
