package service

import (
	"strings"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/metrics"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/util"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/websocket"
)

// TemplateService snapshots a profile's bills into templates and projects
// templates onto concrete months
type TemplateService struct {
	templateRepo   domain.TemplateRepository
	billRepo       domain.BillRepository
	eventPublisher websocket.EventPublisher
	metrics        *metrics.Metrics
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templateRepo domain.TemplateRepository, billRepo domain.BillRepository) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		billRepo:     billRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TemplateService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics enables template application counters
func (s *TemplateService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

func (s *TemplateService) publishEvent(profileID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(profileID, event)
	}
}

// TemplateAppliedPayload is published after a template is applied
type TemplateAppliedPayload struct {
	TemplateID int32                     `json:"templateId"`
	Year       int                       `json:"year"`
	Month      int                       `json:"month,omitempty"`
	BillIDs    []int32                   `json:"billIds,omitempty"`
	Months     []domain.MonthApplyResult `json:"months,omitempty"`
}

// SaveTemplate snapshots every current bill of the profile into a new template
func (s *TemplateService) SaveTemplate(profileID int32, name string) (*domain.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	bills, err := s.billRepo.ListByProfile(profileID)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, domain.ErrNoBillsToSnapshot
	}

	specs := make([]domain.TemplateBill, 0, len(bills))
	for _, b := range bills {
		specs = append(specs, domain.TemplateBill{
			Name:         b.Name,
			Amount:       b.Amount,
			Frequency:    b.Frequency,
			Category:     b.Category,
			Notes:        b.Notes,
			ReminderDays: b.ReminderDays,
			DayOfMonth:   b.DueDate.Day(),
			IsCredit:     b.IsCredit,
		})
	}

	created, err := s.templateRepo.Create(&domain.Template{
		ProfileID:   profileID,
		Name:        name,
		Bills:       specs,
		CreatedDate: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(profileID, websocket.TemplateCreated(created))
	return created, nil
}

// ListTemplates returns the profile's templates
func (s *TemplateService) ListTemplates(profileID int32) ([]*domain.Template, error) {
	return s.templateRepo.ListByProfile(profileID)
}

// GetTemplate returns one template of the profile
func (s *TemplateService) GetTemplate(profileID int32, id int32) (*domain.Template, error) {
	return s.templateRepo.GetByID(profileID, id)
}

// DeleteTemplate removes a template. Bills already created from it are kept.
func (s *TemplateService) DeleteTemplate(profileID int32, id int32) error {
	if err := s.templateRepo.Delete(profileID, id); err != nil {
		return err
	}
	s.publishEvent(profileID, websocket.TemplateDeleted(map[string]int32{"id": id}))
	return nil
}

// ApplyTemplateToMonth creates the template's bills in the given month,
// skipping any whose (name, day) already exists there. It returns the ids of
// the bills it created; re-applying the same template yields none.
func (s *TemplateService) ApplyTemplateToMonth(profileID int32, templateID int32, year, month int) ([]int32, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}

	tmpl, err := s.templateRepo.GetByID(profileID, templateID)
	if err != nil {
		return nil, err
	}

	ids, err := s.applyToMonth(profileID, tmpl, year, month)
	if err != nil {
		return nil, err
	}

	s.publishEvent(profileID, websocket.TemplateApplied(TemplateAppliedPayload{
		TemplateID: templateID,
		Year:       year,
		Month:      month,
		BillIDs:    ids,
	}))
	return ids, nil
}

// ApplyTemplateToYear applies the template to months 1..12 in order. A missing
// template fails before any month is touched.
func (s *TemplateService) ApplyTemplateToYear(profileID int32, templateID int32, year int) ([]domain.MonthApplyResult, error) {
	if err := validateYearMonth(year, 1); err != nil {
		return nil, err
	}

	tmpl, err := s.templateRepo.GetByID(profileID, templateID)
	if err != nil {
		return nil, err
	}

	results := make([]domain.MonthApplyResult, 0, 12)
	for month := 1; month <= 12; month++ {
		ids, err := s.applyToMonth(profileID, tmpl, year, month)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.MonthApplyResult{Month: month, Added: len(ids)})
	}

	s.publishEvent(profileID, websocket.TemplateApplied(TemplateAppliedPayload{
		TemplateID: templateID,
		Year:       year,
		Months:     results,
	}))
	return results, nil
}

type billSlot struct {
	name string
	day  int
}

func (s *TemplateService) applyToMonth(profileID int32, tmpl *domain.Template, year, month int) ([]int32, error) {
	start, end := util.MonthBoundaries(year, month)
	existing, err := s.billRepo.ListByDateRange(profileID, start, end)
	if err != nil {
		return nil, err
	}

	taken := make(map[billSlot]struct{}, len(existing)+len(tmpl.Bills))
	for _, b := range existing {
		taken[billSlot{name: b.Name, day: b.DueDate.Day()}] = struct{}{}
	}

	ids := make([]int32, 0, len(tmpl.Bills))
	skipped := 0
	for _, entry := range tmpl.Bills {
		dueDate := util.CalculateActualDate(year, time.Month(month), entry.DayOfMonth)
		slot := billSlot{name: entry.Name, day: dueDate.Day()}
		if _, ok := taken[slot]; ok {
			skipped++
			continue
		}

		frequency := entry.Frequency
		if !frequency.IsValid() {
			frequency = domain.FrequencyMonthly
		}

		created, err := s.billRepo.Create(&domain.Bill{
			ProfileID:    profileID,
			Name:         entry.Name,
			Amount:       entry.Amount,
			DueDate:      dueDate,
			Frequency:    frequency,
			Category:     normalizeCategory(entry.Category),
			Notes:        entry.Notes,
			ReminderDays: entry.ReminderDays,
			Status:       domain.BillStatusPending,
			IsPaid:       false,
			IsCredit:     entry.IsCredit,
		})
		if err != nil {
			return nil, err
		}

		taken[slot] = struct{}{}
		ids = append(ids, created.ID)
	}

	s.metrics.TemplateApplied(len(ids), skipped)
	return ids, nil
}
