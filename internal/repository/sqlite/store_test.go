package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "billkeeper.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newBill(profileID int32, name string, amount string, due time.Time) *domain.Bill {
	return &domain.Bill{
		ProfileID:    profileID,
		Name:         name,
		Amount:       decimal.RequireFromString(amount),
		DueDate:      due,
		Frequency:    domain.FrequencyMonthly,
		Category:     domain.UncategorizedCategory,
		ReminderDays: domain.DefaultReminderDays,
		Status:       domain.BillStatusPending,
	}
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billkeeper.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	var tables int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('profiles', 'bills', 'templates', 'settings')`,
	).Scan(&tables))
	assert.Equal(t, 4, tables)
}

func TestBillRepository(t *testing.T) {
	db := openTestDB(t)
	profiles := NewProfileRepository(db)
	repo := NewBillRepository(db)

	profile, err := profiles.Create("Personal")
	require.NoError(t, err)
	other, err := profiles.Create("Business")
	require.NoError(t, err)

	t.Run("Create round-trips every field", func(t *testing.T) {
		bill := newBill(profile.ID, "Electric", "80.55", day(2026, 3, 20))
		bill.Notes = "meter 42"
		bill.IsCredit = true

		created, err := repo.Create(bill)
		require.NoError(t, err)

		assert.NotZero(t, created.ID)
		assert.Equal(t, "Electric", created.Name)
		assert.True(t, created.Amount.Equal(decimal.RequireFromString("80.55")))
		assert.Equal(t, day(2026, 3, 20), created.DueDate)
		assert.Equal(t, domain.FrequencyMonthly, created.Frequency)
		assert.Equal(t, "meter 42", created.Notes)
		assert.Equal(t, int32(3), created.ReminderDays)
		assert.True(t, created.IsCredit)
		assert.False(t, created.IsPaid)
		assert.Nil(t, created.PaidDate)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("GetByID is scoped to the profile", func(t *testing.T) {
		created, err := repo.Create(newBill(profile.ID, "Water", "30", day(2026, 3, 5)))
		require.NoError(t, err)

		_, err = repo.GetByID(other.ID, created.ID)
		assert.True(t, errors.Is(err, domain.ErrBillNotFound))
	})

	t.Run("SetPaid and back", func(t *testing.T) {
		created, err := repo.Create(newBill(profile.ID, "Gas", "45", day(2026, 3, 8)))
		require.NoError(t, err)

		paidOn := day(2026, 3, 7)
		paid, err := repo.SetPaid(profile.ID, created.ID, true, &paidOn)
		require.NoError(t, err)
		assert.True(t, paid.IsPaid)
		assert.Equal(t, domain.BillStatusPaid, paid.Status)
		require.NotNil(t, paid.PaidDate)
		assert.Equal(t, paidOn, *paid.PaidDate)

		unpaid, err := repo.SetPaid(profile.ID, created.ID, false, nil)
		require.NoError(t, err)
		assert.False(t, unpaid.IsPaid)
		assert.Equal(t, domain.BillStatusPending, unpaid.Status)
		assert.Nil(t, unpaid.PaidDate)
	})

	t.Run("Update and Delete report missing rows", func(t *testing.T) {
		_, err := repo.Update(profile.ID, 9999, &domain.UpdateBillData{Name: "x", DueDate: day(2026, 1, 1)})
		assert.True(t, errors.Is(err, domain.ErrBillNotFound))

		err = repo.Delete(profile.ID, 9999)
		assert.True(t, errors.Is(err, domain.ErrBillNotFound))
	})

	t.Run("Update overwrites editable fields", func(t *testing.T) {
		created, err := repo.Create(newBill(profile.ID, "Phone", "20", day(2026, 3, 12)))
		require.NoError(t, err)

		updated, err := repo.Update(profile.ID, created.ID, &domain.UpdateBillData{
			Name:         "Mobile",
			Amount:       decimal.RequireFromString("25.10"),
			DueDate:      day(2026, 3, 14),
			Frequency:    domain.FrequencyYearly,
			Category:     "Phone",
			ReminderDays: 5,
		})
		require.NoError(t, err)

		assert.Equal(t, "Mobile", updated.Name)
		assert.Equal(t, "25.1", updated.Amount.String())
		assert.Equal(t, day(2026, 3, 14), updated.DueDate)
		assert.Equal(t, domain.FrequencyYearly, updated.Frequency)
		assert.Equal(t, int32(5), updated.ReminderDays)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	})
}

func TestBillRepository_RangeOrdering(t *testing.T) {
	db := openTestDB(t)
	profile, err := NewProfileRepository(db).Create("Personal")
	require.NoError(t, err)
	repo := NewBillRepository(db)

	for _, b := range []*domain.Bill{
		newBill(profile.ID, "Feb", "1", day(2026, 2, 28)),
		newBill(profile.ID, "Late", "1", day(2026, 3, 31)),
		newBill(profile.ID, "First same day", "1", day(2026, 3, 10)),
		newBill(profile.ID, "Second same day", "1", day(2026, 3, 10)),
		newBill(profile.ID, "Early", "1", day(2026, 3, 1)),
		newBill(profile.ID, "April", "1", day(2026, 4, 1)),
	} {
		_, err := repo.Create(b)
		require.NoError(t, err)
	}

	bills, err := repo.ListByDateRange(profile.ID, day(2026, 3, 1), day(2026, 3, 31))
	require.NoError(t, err)

	names := make([]string, len(bills))
	for i, b := range bills {
		names[i] = b.Name
	}
	assert.Equal(t, []string{"Early", "First same day", "Second same day", "Late"}, names)

	count, err := repo.CountByProfile(profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	all, err := repo.ListByProfile(profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Feb", all[0].Name)
	assert.Equal(t, "April", all[5].Name)
}

func TestTemplateRepository(t *testing.T) {
	db := openTestDB(t)
	profile, err := NewProfileRepository(db).Create("Personal")
	require.NoError(t, err)
	repo := NewTemplateRepository(db)

	created, err := repo.Create(&domain.Template{
		ProfileID: profile.ID,
		Name:      "Monthly basics",
		Bills: []domain.TemplateBill{
			{Name: "Rent", Amount: decimal.RequireFromString("1200"), Frequency: domain.FrequencyMonthly, Category: "Rent/Mortgage", DayOfMonth: 1},
			{Name: "Refund", Amount: decimal.RequireFromString("15.5"), Frequency: domain.FrequencyMonthly, DayOfMonth: 31, IsCredit: true},
		},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(profile.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Monthly basics", got.Name)
	require.Len(t, got.Bills, 2)
	assert.Equal(t, 31, got.Bills[1].DayOfMonth)
	assert.True(t, got.Bills[1].IsCredit)
	assert.True(t, got.Bills[1].Amount.Equal(decimal.RequireFromString("15.5")))

	list, err := repo.ListByProfile(profile.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(profile.ID, created.ID))
	_, err = repo.GetByID(profile.ID, created.ID)
	assert.True(t, errors.Is(err, domain.ErrTemplateNotFound))
}

func TestProfileRepository_DeleteCascades(t *testing.T) {
	db := openTestDB(t)
	profiles := NewProfileRepository(db)
	bills := NewBillRepository(db)
	templates := NewTemplateRepository(db)

	profile, err := profiles.Create("Business")
	require.NoError(t, err)
	_, err = bills.Create(newBill(profile.ID, "Office", "800", day(2026, 3, 1)))
	require.NoError(t, err)
	_, err = templates.Create(&domain.Template{ProfileID: profile.ID, Name: "T"})
	require.NoError(t, err)

	renamed, err := profiles.Rename(profile.ID, "Company")
	require.NoError(t, err)
	assert.Equal(t, "Company", renamed.Name)

	require.NoError(t, profiles.Delete(profile.ID))

	billCount, err := bills.CountByProfile(profile.ID)
	require.NoError(t, err)
	assert.Zero(t, billCount)
	templateCount, err := templates.CountByProfile(profile.ID)
	require.NoError(t, err)
	assert.Zero(t, templateCount)

	err = profiles.Delete(profile.ID)
	assert.True(t, errors.Is(err, domain.ErrProfileNotFound))
}

func TestSettingRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettingRepository(db)

	_, err := repo.Get("missing")
	assert.True(t, errors.Is(err, domain.ErrSettingNotFound))

	require.NoError(t, repo.Save(domain.MonthlyCreditKey(2, 2026, 3), "100"))
	require.NoError(t, repo.Save(domain.MonthlyCreditKey(2, 2026, 3), "150.25"))
	require.NoError(t, repo.Save(domain.MonthlyCreditKey(21, 2026, 3), "75"))
	// "_" must not act as a wildcard: "monthlyCredit_2_" must not match this key
	require.NoError(t, repo.Save("monthlyCredit_2X2026", "5"))

	s, err := repo.Get(domain.MonthlyCreditKey(2, 2026, 3))
	require.NoError(t, err)
	assert.Equal(t, "150.25", s.Value)

	require.NoError(t, repo.DeleteByPrefix(domain.MonthlyCreditKeyPrefix(2)))

	_, err = repo.Get(domain.MonthlyCreditKey(2, 2026, 3))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = repo.Get(domain.MonthlyCreditKey(21, 2026, 3))
	assert.NoError(t, err)
	_, err = repo.Get("monthlyCredit_2X2026")
	assert.NoError(t, err)
}
