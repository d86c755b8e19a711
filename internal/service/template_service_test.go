package service

import (
	"errors"
	"testing"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTemplateService() (*TemplateService, *testutil.MockTemplateRepository, *testutil.MockBillRepository) {
	templateRepo := testutil.NewMockTemplateRepository()
	billRepo := testutil.NewMockBillRepository()
	return NewTemplateService(templateRepo, billRepo), templateRepo, billRepo
}

func sampleTemplate(profileID int32) *domain.Template {
	return &domain.Template{
		ProfileID: profileID,
		Name:      "Household",
		Bills: []domain.TemplateBill{
			{Name: "Rent", Amount: decimal.NewFromInt(1200), Frequency: domain.FrequencyMonthly, Category: "Rent/Mortgage", ReminderDays: 5, DayOfMonth: 1},
			{Name: "Internet", Amount: decimal.NewFromInt(60), Frequency: domain.FrequencyMonthly, Category: "Internet", Notes: "fiber", ReminderDays: 3, DayOfMonth: 15},
			{Name: "Salary", Amount: decimal.NewFromInt(3000), Frequency: domain.FrequencyMonthly, Category: "", ReminderDays: 0, DayOfMonth: 25, IsCredit: true},
		},
	}
}

func TestSaveTemplate_SnapshotsBills(t *testing.T) {
	service, _, billRepo := setupTemplateService()
	profileID := int32(1)

	billRepo.AddBill(expense(profileID, "Rent", 1200, date(2026, 3, 1)))
	billRepo.AddBill(credit(expense(profileID, "Salary", 3000, date(2026, 3, 25))))
	billRepo.AddBill(expense(2, "Other profile", 10, date(2026, 3, 5)))

	tmpl, err := service.SaveTemplate(profileID, "  March  ")

	require.NoError(t, err)
	assert.Equal(t, "March", tmpl.Name)
	assert.Equal(t, profileID, tmpl.ProfileID)
	require.Len(t, tmpl.Bills, 2)
	assert.Equal(t, "Rent", tmpl.Bills[0].Name)
	assert.Equal(t, 1, tmpl.Bills[0].DayOfMonth)
	assert.Equal(t, 25, tmpl.Bills[1].DayOfMonth)
	assert.True(t, tmpl.Bills[1].IsCredit)
	assert.False(t, tmpl.CreatedDate.IsZero())
}

func TestSaveTemplate_EmptyName(t *testing.T) {
	service, _, billRepo := setupTemplateService()
	billRepo.AddBill(expense(1, "Rent", 1200, date(2026, 3, 1)))

	_, err := service.SaveTemplate(1, "   ")

	assert.Equal(t, domain.ErrNameRequired, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSaveTemplate_NoBills(t *testing.T) {
	service, _, _ := setupTemplateService()

	_, err := service.SaveTemplate(1, "Empty")

	assert.Equal(t, domain.ErrNoBillsToSnapshot, err)
}

func TestApplyTemplateToMonth_CreatesPendingBills(t *testing.T) {
	service, templateRepo, billRepo := setupTemplateService()
	profileID := int32(1)
	tmpl := templateRepo.AddTemplate(sampleTemplate(profileID))

	ids, err := service.ApplyTemplateToMonth(profileID, tmpl.ID, 2026, 4)

	require.NoError(t, err)
	require.Len(t, ids, 3)

	internet := billRepo.Bills[ids[1]]
	assert.Equal(t, "Internet", internet.Name)
	assert.Equal(t, date(2026, 4, 15), internet.DueDate)
	assert.True(t, internet.Amount.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "fiber", internet.Notes)
	assert.Equal(t, int32(3), internet.ReminderDays)
	assert.Equal(t, domain.BillStatusPending, internet.Status)
	assert.False(t, internet.IsPaid)

	salary := billRepo.Bills[ids[2]]
	assert.True(t, salary.IsCredit)
	assert.Equal(t, domain.UncategorizedCategory, salary.Category)
}

func TestApplyTemplateToMonth_Idempotent(t *testing.T) {
	service, templateRepo, billRepo := setupTemplateService()
	tmpl := templateRepo.AddTemplate(sampleTemplate(1))

	first, err := service.ApplyTemplateToMonth(1, tmpl.ID, 2026, 4)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := service.ApplyTemplateToMonth(1, tmpl.ID, 2026, 4)
	require.NoError(t, err)
	assert.Empty(t, second)

	count, _ := billRepo.CountByProfile(1)
	assert.Equal(t, 3, count)
}

func TestApplyTemplateToMonth_SkipsExistingSameNameAndDay(t *testing.T) {
	service, templateRepo, billRepo := setupTemplateService()
	tmpl := templateRepo.AddTemplate(sampleTemplate(1))

	// Manually entered rent on the same day, different amount
	billRepo.AddBill(expense(1, "Rent", 999, date(2026, 4, 1)))
	// Same name but a different day is not a duplicate
	billRepo.AddBill(expense(1, "Internet", 60, date(2026, 4, 16)))

	ids, err := service.ApplyTemplateToMonth(1, tmpl.ID, 2026, 4)

	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestApplyTemplateToMonth_FetchesExistingBillsOnce(t *testing.T) {
	service, templateRepo, billRepo := setupTemplateService()
	tmpl := templateRepo.AddTemplate(sampleTemplate(1))

	_, err := service.ApplyTemplateToMonth(1, tmpl.ID, 2026, 4)

	require.NoError(t, err)
	assert.Equal(t, 1, billRepo.ListByDateRangeCalls)
}

func TestApplyTemplateToMonth_RepeatedSpecCreatesOneBill(t *testing.T) {
	service, templateRepo, _ := setupTemplateService()
	tmpl := templateRepo.AddTemplate(&domain.Template{
		ProfileID: 1,
		Name:      "Twice",
		Bills: []domain.TemplateBill{
			{Name: "Gym", Amount: decimal.NewFromInt(30), DayOfMonth: 10},
			{Name: "Gym", Amount: decimal.NewFromInt(30), DayOfMonth: 10},
		},
	})

	ids, err := service.ApplyTemplateToMonth(1, tmpl.ID, 2026, 4)

	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestApplyTemplateToMonth_ClampsDayToMonthEnd(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		wantDue time.Time
	}{
		{"february non-leap", 2025, 2, date(2025, 2, 28)},
		{"february leap", 2024, 2, date(2024, 2, 29)},
		{"april", 2026, 4, date(2026, 4, 30)},
		{"january", 2026, 1, date(2026, 1, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, templateRepo, billRepo := setupTemplateService()
			tmpl := templateRepo.AddTemplate(&domain.Template{
				ProfileID: 1,
				Name:      "Month end",
				Bills:     []domain.TemplateBill{{Name: "Card", Amount: decimal.NewFromInt(100), DayOfMonth: 31}},
			})

			ids, err := service.ApplyTemplateToMonth(1, tmpl.ID, tt.year, tt.month)
			require.NoError(t, err)
			require.Len(t, ids, 1)
			assert.Equal(t, tt.wantDue, billRepo.Bills[ids[0]].DueDate)

			// Re-applying a clamped month is still a no-op
			again, err := service.ApplyTemplateToMonth(1, tmpl.ID, tt.year, tt.month)
			require.NoError(t, err)
			assert.Empty(t, again)
		})
	}
}

func TestApplyTemplateToMonth_NotFound(t *testing.T) {
	service, templateRepo, _ := setupTemplateService()
	tmpl := templateRepo.AddTemplate(sampleTemplate(1))

	_, err := service.ApplyTemplateToMonth(1, 999, 2026, 4)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// Another profile's template is invisible
	_, err = service.ApplyTemplateToMonth(2, tmpl.ID, 2026, 4)
	assert.True(t, errors.Is(err, domain.ErrTemplateNotFound))
}

func TestApplyTemplateToMonth_InvalidMonth(t *testing.T) {
	service, templateRepo, _ := setupTemplateService()
	tmpl := templateRepo.AddTemplate(sampleTemplate(1))

	_, err := service.ApplyTemplateToMonth(1, tmpl.ID, 2026, 13)
	assert.Equal(t, domain.ErrInvalidMonth, err)

	_, err = service.ApplyTemplateToMonth(1, tmpl.ID, 2026, 0)
	assert.Equal(t, domain.ErrInvalidMonth, err)
}

func TestApplyTemplateToMonth_PublishesEvent(t *testing.T) {
	service, templateRepo, _ := setupTemplateService()
	publisher := &recordingPublisher{}
	service.SetEventPublisher(publisher)
	tmpl := templateRepo.AddTemplate(sampleTemplate(1))

	_, err := service.ApplyTemplateToMonth(1, tmpl.ID, 2026, 4)

	require.NoError(t, err)
	assert.Equal(t, []string{"template.applied"}, publisher.types())
}

func TestApplyTemplateToYear_FillsEveryMonth(t *testing.T) {
	service, templateRepo, billRepo := setupTemplateService()
	tmpl := templateRepo.AddTemplate(sampleTemplate(1))

	results, err := service.ApplyTemplateToYear(1, tmpl.ID, 2026)

	require.NoError(t, err)
	require.Len(t, results, 12)
	total := 0
	for i, r := range results {
		assert.Equal(t, i+1, r.Month)
		assert.Equal(t, 3, r.Added)
		total += r.Added
	}
	assert.Equal(t, 12*len(tmpl.Bills), total)

	count, _ := billRepo.CountByProfile(1)
	assert.Equal(t, 36, count)
}

func TestApplyTemplateToYear_PartiallyFilledYear(t *testing.T) {
	service, templateRepo, _ := setupTemplateService()
	tmpl := templateRepo.AddTemplate(sampleTemplate(1))

	_, err := service.ApplyTemplateToMonth(1, tmpl.ID, 2026, 6)
	require.NoError(t, err)

	results, err := service.ApplyTemplateToYear(1, tmpl.ID, 2026)

	require.NoError(t, err)
	assert.Equal(t, 0, results[5].Added)
	assert.Equal(t, 3, results[0].Added)
}

func TestApplyTemplateToYear_MissingTemplateCreatesNothing(t *testing.T) {
	service, _, billRepo := setupTemplateService()

	results, err := service.ApplyTemplateToYear(1, 42, 2026)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Nil(t, results)
	assert.Equal(t, 0, billRepo.CreateCalls)
}

func TestDeleteTemplate_KeepsCreatedBills(t *testing.T) {
	service, templateRepo, billRepo := setupTemplateService()
	tmpl := templateRepo.AddTemplate(sampleTemplate(1))
	_, err := service.ApplyTemplateToMonth(1, tmpl.ID, 2026, 4)
	require.NoError(t, err)

	require.NoError(t, service.DeleteTemplate(1, tmpl.ID))

	_, err = service.GetTemplate(1, tmpl.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	count, _ := billRepo.CountByProfile(1)
	assert.Equal(t, 3, count)
}
