package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/util"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// BalanceService stores monthly credits and runs coverage over a month's unpaid bills
type BalanceService struct {
	billRepo       domain.BillRepository
	settingRepo    domain.SettingRepository
	eventPublisher websocket.EventPublisher
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(billRepo domain.BillRepository, settingRepo domain.SettingRepository) *BalanceService {
	return &BalanceService{
		billRepo:    billRepo,
		settingRepo: settingRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BalanceService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BalanceService) publishEvent(profileID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(profileID, event)
	}
}

// MonthlyCredit is the credit entered for one month
type MonthlyCredit struct {
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Credit decimal.Decimal `json:"credit"`
}

// GetMonthlyCredit returns the stored credit, or zero when none was entered
func (s *BalanceService) GetMonthlyCredit(profileID int32, year, month int) (decimal.Decimal, error) {
	if err := validateYearMonth(year, month); err != nil {
		return decimal.Zero, err
	}

	setting, err := s.settingRepo.Get(domain.MonthlyCreditKey(profileID, year, month))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	credit, err := decimal.NewFromString(setting.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt monthly credit %q: %w", setting.Value, err)
	}
	return credit, nil
}

// SetMonthlyCredit stores the credit carried into a month
func (s *BalanceService) SetMonthlyCredit(profileID int32, year, month int, credit decimal.Decimal) (*MonthlyCredit, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}
	if credit.IsNegative() {
		return nil, domain.ErrInvalidCredit
	}

	if err := s.settingRepo.Save(domain.MonthlyCreditKey(profileID, year, month), credit.String()); err != nil {
		return nil, err
	}

	result := &MonthlyCredit{Year: year, Month: month, Credit: credit}
	s.publishEvent(profileID, websocket.CreditUpdated(result))
	return result, nil
}

// GetMonthBalance combines the month's credit with its unpaid bills
func (s *BalanceService) GetMonthBalance(profileID int32, year, month int) (*domain.MonthBalance, error) {
	credit, err := s.GetMonthlyCredit(profileID, year, month)
	if err != nil {
		return nil, err
	}

	start, end := util.MonthBoundaries(year, month)
	bills, err := s.billRepo.ListByDateRange(profileID, start, end)
	if err != nil {
		return nil, err
	}
	unpaid := filterUnpaid(bills)

	unpaidTotal := UnpaidTotal(unpaid)
	difference := credit.Sub(unpaidTotal)
	balance := &domain.MonthBalance{
		Year:        year,
		Month:       month,
		Credit:      credit,
		UnpaidTotal: unpaidTotal,
		Difference:  difference,
		IsSurplus:   !difference.IsNegative(),
	}

	switch {
	case len(unpaid) == 0 && credit.IsZero():
		balance.State = domain.BalanceStateEmpty
	case len(unpaid) == 0:
		balance.State = domain.BalanceStateNothingToCover
	default:
		balance.Coverage = ComputeCoverage(unpaid, credit)
		if balance.Coverage.BillsCovered == len(unpaid) {
			balance.State = domain.BalanceStateCovered
		} else {
			balance.State = domain.BalanceStateInsufficient
		}
	}

	return balance, nil
}

// ComputeRangeCoverage runs coverage over the unpaid bills due in [start, end]
func (s *BalanceService) ComputeRangeCoverage(profileID int32, start, end time.Time, startingCredit decimal.Decimal) (*domain.CoverageResult, error) {
	if startingCredit.IsNegative() {
		return nil, domain.ErrInvalidCredit
	}
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, domain.ErrInvalidDate
	}

	bills, err := s.billRepo.ListByDateRange(profileID, util.DateOnly(start), util.DateOnly(end))
	if err != nil {
		return nil, err
	}
	return ComputeCoverage(filterUnpaid(bills), startingCredit), nil
}

// filterUnpaid keeps unpaid bills without disturbing their order
func filterUnpaid(bills []*domain.Bill) []*domain.Bill {
	unpaid := make([]*domain.Bill, 0, len(bills))
	for _, b := range bills {
		if !b.IsPaid {
			unpaid = append(unpaid, b)
		}
	}
	return unpaid
}
