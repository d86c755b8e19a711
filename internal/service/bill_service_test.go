package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBillService() (*BillService, *testutil.MockBillRepository) {
	billRepo := testutil.NewMockBillRepository()
	service := NewBillService(billRepo)
	service.now = fixedClock(date(2026, 3, 15))
	return service, billRepo
}

func validBillInput() domain.CreateBillInput {
	return domain.CreateBillInput{
		Name:      "Electric",
		Amount:    decimal.NewFromInt(80),
		DueDate:   date(2026, 3, 20),
		Frequency: domain.FrequencyMonthly,
		Category:  "Electric",
	}
}

func TestCreateBill_AppliesDefaults(t *testing.T) {
	service, _ := setupBillService()
	input := validBillInput()
	input.Name = "  Electric  "
	input.Category = ""
	input.Frequency = ""

	bill, err := service.CreateBill(1, input)

	require.NoError(t, err)
	assert.NotZero(t, bill.ID)
	assert.Equal(t, "Electric", bill.Name)
	assert.Equal(t, domain.UncategorizedCategory, bill.Category)
	assert.Equal(t, domain.FrequencyMonthly, bill.Frequency)
	assert.Equal(t, int32(domain.DefaultReminderDays), bill.ReminderDays)
	assert.Equal(t, domain.BillStatusPending, bill.Status)
	assert.False(t, bill.IsPaid)
	assert.Nil(t, bill.PaidDate)
}

func TestCreateBill_ExplicitZeroReminderDays(t *testing.T) {
	service, _ := setupBillService()
	input := validBillInput()
	zero := int32(0)
	input.ReminderDays = &zero

	bill, err := service.CreateBill(1, input)

	require.NoError(t, err)
	assert.Equal(t, int32(0), bill.ReminderDays)
}

func TestCreateBill_Validation(t *testing.T) {
	negative := int32(-1)
	tests := []struct {
		name    string
		mutate  func(in *domain.CreateBillInput)
		wantErr error
	}{
		{"empty name", func(in *domain.CreateBillInput) { in.Name = " " }, domain.ErrNameRequired},
		{"long name", func(in *domain.CreateBillInput) { in.Name = strings.Repeat("x", domain.MaxNameLength+1) }, domain.ErrNameTooLong},
		{"negative amount", func(in *domain.CreateBillInput) { in.Amount = decimal.NewFromInt(-5) }, domain.ErrInvalidAmount},
		{"missing date", func(in *domain.CreateBillInput) { in.DueDate = time.Time{} }, domain.ErrInvalidDate},
		{"bad frequency", func(in *domain.CreateBillInput) { in.Frequency = "daily" }, domain.ErrInvalidFrequency},
		{"negative reminder", func(in *domain.CreateBillInput) { in.ReminderDays = &negative }, domain.ErrInvalidReminderDays},
		{"long notes", func(in *domain.CreateBillInput) { in.Notes = strings.Repeat("n", domain.MaxNotesLength+1) }, domain.ErrNotesTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, billRepo := setupBillService()
			input := validBillInput()
			tt.mutate(&input)

			_, err := service.CreateBill(1, input)

			assert.Equal(t, tt.wantErr, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Empty(t, billRepo.Bills)
		})
	}
}

func TestCreateBill_PublishesEvent(t *testing.T) {
	service, _ := setupBillService()
	publisher := &recordingPublisher{}
	service.SetEventPublisher(publisher)

	_, err := service.CreateBill(4, validBillInput())

	require.NoError(t, err)
	require.Equal(t, 1, publisher.count())
	assert.Equal(t, int32(4), publisher.events[0].profileID)
	assert.Equal(t, "bill.created", publisher.events[0].event.Type)
}

func TestUpdateBill_KeepsPaidStateAndReminder(t *testing.T) {
	service, billRepo := setupBillService()
	existing := billRepo.AddBill(paid(expense(1, "Water", 30, date(2026, 3, 5))))
	existing.ReminderDays = 7

	input := validBillInput()
	input.Name = "Water & Sewer"
	input.Amount = decimal.NewFromInt(45)

	updated, err := service.UpdateBill(1, existing.ID, input)

	require.NoError(t, err)
	assert.Equal(t, "Water & Sewer", updated.Name)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(45)))
	assert.True(t, updated.IsPaid)
	assert.Equal(t, int32(7), updated.ReminderDays)
}

func TestUpdateBill_NotFound(t *testing.T) {
	service, billRepo := setupBillService()
	other := billRepo.AddBill(expense(2, "Water", 30, date(2026, 3, 5)))

	_, err := service.UpdateBill(1, other.ID, validBillInput())

	assert.True(t, errors.Is(err, domain.ErrBillNotFound))
}

func TestSetPaid_Toggle(t *testing.T) {
	service, billRepo := setupBillService()
	bill := billRepo.AddBill(expense(1, "Water", 30, date(2026, 3, 5)))

	paidBill, err := service.SetPaid(1, bill.ID, true)
	require.NoError(t, err)
	assert.True(t, paidBill.IsPaid)
	assert.Equal(t, domain.BillStatusPaid, paidBill.Status)
	require.NotNil(t, paidBill.PaidDate)
	assert.Equal(t, date(2026, 3, 15), *paidBill.PaidDate)

	unpaid, err := service.SetPaid(1, bill.ID, false)
	require.NoError(t, err)
	assert.False(t, unpaid.IsPaid)
	assert.Equal(t, domain.BillStatusPending, unpaid.Status)
	assert.Nil(t, unpaid.PaidDate)
}

func TestDeleteBill(t *testing.T) {
	service, billRepo := setupBillService()
	bill := billRepo.AddBill(expense(1, "Water", 30, date(2026, 3, 5)))

	require.NoError(t, service.DeleteBill(1, bill.ID))
	assert.Empty(t, billRepo.Bills)

	err := service.DeleteBill(1, bill.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetBillsByMonth(t *testing.T) {
	service, billRepo := setupBillService()
	billRepo.AddBill(expense(1, "Last day", 10, date(2026, 2, 28)))
	billRepo.AddBill(expense(1, "First", 10, date(2026, 3, 1)))
	billRepo.AddBill(expense(1, "Last", 10, date(2026, 3, 31)))
	billRepo.AddBill(expense(1, "April", 10, date(2026, 4, 1)))

	bills, err := service.GetBillsByMonth(1, 2026, 3)

	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, "First", bills[0].Name)
	assert.Equal(t, "Last", bills[1].Name)

	_, err = service.GetBillsByMonth(1, 2026, 13)
	assert.Equal(t, domain.ErrInvalidMonth, err)
}

func TestGetBillsByDateRange_Invalid(t *testing.T) {
	service, _ := setupBillService()

	_, err := service.GetBillsByDateRange(1, date(2026, 3, 2), date(2026, 3, 1))

	assert.Equal(t, domain.ErrInvalidDate, err)
}
