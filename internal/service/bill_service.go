package service

import (
	"strings"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/util"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/websocket"
)

// BillService handles bill CRUD and the month/range lookups the UI needs
type BillService struct {
	billRepo       domain.BillRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewBillService creates a new BillService
func NewBillService(billRepo domain.BillRepository) *BillService {
	return &BillService{
		billRepo: billRepo,
		now:      time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BillService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *BillService) publishEvent(profileID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(profileID, event)
	}
}

// CreateBill validates input, applies defaults and stores a new pending bill
func (s *BillService) CreateBill(profileID int32, input domain.CreateBillInput) (*domain.Bill, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateBillFields(name, input.Amount.IsNegative(), input.DueDate, input.Notes); err != nil {
		return nil, err
	}

	frequency, err := normalizeFrequency(input.Frequency)
	if err != nil {
		return nil, err
	}

	reminderDays := int32(domain.DefaultReminderDays)
	if input.ReminderDays != nil {
		if *input.ReminderDays < 0 {
			return nil, domain.ErrInvalidReminderDays
		}
		reminderDays = *input.ReminderDays
	}

	bill := &domain.Bill{
		ProfileID:    profileID,
		Name:         name,
		Amount:       input.Amount,
		DueDate:      util.DateOnly(input.DueDate),
		Frequency:    frequency,
		Category:     normalizeCategory(input.Category),
		Notes:        input.Notes,
		ReminderDays: reminderDays,
		Status:       domain.BillStatusPending,
		IsPaid:       false,
		IsCredit:     input.IsCredit,
	}

	created, err := s.billRepo.Create(bill)
	if err != nil {
		return nil, err
	}

	s.publishEvent(profileID, websocket.BillCreated(created))
	return created, nil
}

// GetBill returns one bill of the profile
func (s *BillService) GetBill(profileID int32, id int32) (*domain.Bill, error) {
	return s.billRepo.GetByID(profileID, id)
}

// UpdateBill replaces the editable fields of a bill. Paid state, id, profile and
// creation time are kept.
func (s *BillService) UpdateBill(profileID int32, id int32, input domain.CreateBillInput) (*domain.Bill, error) {
	existing, err := s.billRepo.GetByID(profileID, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if err := validateBillFields(name, input.Amount.IsNegative(), input.DueDate, input.Notes); err != nil {
		return nil, err
	}

	frequency, err := normalizeFrequency(input.Frequency)
	if err != nil {
		return nil, err
	}

	reminderDays := existing.ReminderDays
	if input.ReminderDays != nil {
		if *input.ReminderDays < 0 {
			return nil, domain.ErrInvalidReminderDays
		}
		reminderDays = *input.ReminderDays
	}

	data := &domain.UpdateBillData{
		Name:         name,
		Amount:       input.Amount,
		DueDate:      util.DateOnly(input.DueDate),
		Frequency:    frequency,
		Category:     normalizeCategory(input.Category),
		Notes:        input.Notes,
		ReminderDays: reminderDays,
		IsCredit:     input.IsCredit,
	}

	updated, err := s.billRepo.Update(profileID, id, data)
	if err != nil {
		return nil, err
	}

	s.publishEvent(profileID, websocket.BillUpdated(updated))
	return updated, nil
}

// DeleteBill removes a bill
func (s *BillService) DeleteBill(profileID int32, id int32) error {
	if err := s.billRepo.Delete(profileID, id); err != nil {
		return err
	}
	s.publishEvent(profileID, websocket.BillDeleted(map[string]int32{"id": id}))
	return nil
}

// SetPaid marks a bill paid (stamping today's date) or unpaid (clearing it)
func (s *BillService) SetPaid(profileID int32, id int32, isPaid bool) (*domain.Bill, error) {
	var paidDate *time.Time
	if isPaid {
		today := util.DateOnly(s.now())
		paidDate = &today
	}

	updated, err := s.billRepo.SetPaid(profileID, id, isPaid, paidDate)
	if err != nil {
		return nil, err
	}

	s.publishEvent(profileID, websocket.BillPaid(updated))
	return updated, nil
}

// ListBills returns every bill of the profile ordered by due date
func (s *BillService) ListBills(profileID int32) ([]*domain.Bill, error) {
	return s.billRepo.ListByProfile(profileID)
}

// GetBillsByMonth returns the bills due in the given month
func (s *BillService) GetBillsByMonth(profileID int32, year, month int) ([]*domain.Bill, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}
	start, end := util.MonthBoundaries(year, month)
	return s.billRepo.ListByDateRange(profileID, start, end)
}

// GetBillsByDateRange returns bills due within [start, end], both inclusive
func (s *BillService) GetBillsByDateRange(profileID int32, start, end time.Time) ([]*domain.Bill, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, domain.ErrInvalidDate
	}
	return s.billRepo.ListByDateRange(profileID, util.DateOnly(start), util.DateOnly(end))
}

func validateBillFields(name string, negativeAmount bool, dueDate time.Time, notes string) error {
	if name == "" {
		return domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return domain.ErrNameTooLong
	}
	if negativeAmount {
		return domain.ErrInvalidAmount
	}
	if dueDate.IsZero() {
		return domain.ErrInvalidDate
	}
	if len(notes) > domain.MaxNotesLength {
		return domain.ErrNotesTooLong
	}
	return nil
}

func normalizeFrequency(f domain.Frequency) (domain.Frequency, error) {
	if f == "" {
		return domain.FrequencyMonthly, nil
	}
	if !f.IsValid() {
		return "", domain.ErrInvalidFrequency
	}
	return f, nil
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return domain.UncategorizedCategory
	}
	return category
}

func validateYearMonth(year, month int) error {
	if year < domain.MinYear || year > domain.MaxYear || month < 1 || month > 12 {
		return domain.ErrInvalidMonth
	}
	return nil
}
