package service

import (
	"errors"
	"testing"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileFixture struct {
	service      *ProfileService
	profileRepo  *testutil.MockProfileRepository
	billRepo     *testutil.MockBillRepository
	templateRepo *testutil.MockTemplateRepository
	settingRepo  *testutil.MockSettingRepository
}

func setupProfileService() profileFixture {
	f := profileFixture{
		profileRepo:  testutil.NewMockProfileRepository(),
		billRepo:     testutil.NewMockBillRepository(),
		templateRepo: testutil.NewMockTemplateRepository(),
		settingRepo:  testutil.NewMockSettingRepository(),
	}
	f.service = NewProfileService(f.profileRepo, f.billRepo, f.templateRepo, f.settingRepo)
	return f
}

func TestCreateProfile_TrimsAndRejectsDuplicates(t *testing.T) {
	f := setupProfileService()

	p, err := f.service.CreateProfile("  Household ")
	require.NoError(t, err)
	assert.Equal(t, "Household", p.Name)

	_, err = f.service.CreateProfile("HOUSEHOLD")
	assert.Equal(t, domain.ErrDuplicateName, err)

	_, err = f.service.CreateProfile("")
	assert.Equal(t, domain.ErrNameRequired, err)
}

func TestRenameProfile(t *testing.T) {
	f := setupProfileService()
	f.profileRepo.AddProfile(1, "Personal")
	f.profileRepo.AddProfile(2, "Business")

	// Changing only the case of its own name is allowed
	renamed, err := f.service.RenameProfile(1, "personal")
	require.NoError(t, err)
	assert.Equal(t, "personal", renamed.Name)

	_, err = f.service.RenameProfile(1, "business")
	assert.Equal(t, domain.ErrDuplicateName, err)

	_, err = f.service.RenameProfile(99, "Ghost")
	assert.True(t, errors.Is(err, domain.ErrProfileNotFound))
}

func TestDeleteProfile_RefusesLastProfile(t *testing.T) {
	f := setupProfileService()
	f.profileRepo.AddProfile(1, "Personal")

	err := f.service.DeleteProfile(1)

	assert.Equal(t, domain.ErrLastProfile, err)
	assert.Len(t, f.profileRepo.Profiles, 1)
}

func TestDeleteProfile_Cascades(t *testing.T) {
	f := setupProfileService()
	f.profileRepo.AddProfile(1, "Personal")
	f.profileRepo.AddProfile(2, "Business")

	f.billRepo.AddBill(expense(2, "Office rent", 800, date(2026, 3, 1)))
	f.billRepo.AddBill(expense(1, "Home rent", 900, date(2026, 3, 1)))
	f.templateRepo.AddTemplate(&domain.Template{ProfileID: 2, Name: "Office"})
	require.NoError(t, f.settingRepo.Save(domain.MonthlyCreditKey(2, 2026, 3), "100"))
	require.NoError(t, f.settingRepo.Save(domain.MonthlyCreditKey(1, 2026, 3), "50"))
	require.NoError(t, f.settingRepo.Save(domain.MonthlyCreditKey(21, 2026, 3), "75"))
	require.NoError(t, f.settingRepo.Save(domain.CategoriesSettingKey, `["A"]`))

	require.NoError(t, f.service.DeleteProfile(2))

	_, err := f.profileRepo.GetByID(2)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	billCount, _ := f.billRepo.CountByProfile(2)
	assert.Equal(t, 0, billCount)
	otherBills, _ := f.billRepo.CountByProfile(1)
	assert.Equal(t, 1, otherBills)

	templateCount, _ := f.templateRepo.CountByProfile(2)
	assert.Equal(t, 0, templateCount)

	_, err = f.settingRepo.Get(domain.MonthlyCreditKey(2, 2026, 3))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	// Profile 21's key shares the "2" digit but not the prefix
	_, err = f.settingRepo.Get(domain.MonthlyCreditKey(21, 2026, 3))
	assert.NoError(t, err)
	_, err = f.settingRepo.Get(domain.MonthlyCreditKey(1, 2026, 3))
	assert.NoError(t, err)
	_, err = f.settingRepo.Get(domain.CategoriesSettingKey)
	assert.NoError(t, err)
}

func TestListProfiles_IncludesStats(t *testing.T) {
	f := setupProfileService()
	f.profileRepo.AddProfile(1, "Personal")
	f.profileRepo.AddProfile(2, "Business")
	f.billRepo.AddBill(expense(1, "A", 1, date(2026, 3, 1)))
	f.billRepo.AddBill(expense(1, "B", 1, date(2026, 3, 2)))
	f.templateRepo.AddTemplate(&domain.Template{ProfileID: 1, Name: "T"})

	profiles, err := f.service.ListProfiles()

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Personal", profiles[0].Name)
	assert.Equal(t, domain.ProfileStats{BillCount: 2, TemplateCount: 1}, profiles[0].Stats)
	assert.Equal(t, domain.ProfileStats{}, profiles[1].Stats)
}

func TestEnsureDefaultProfile(t *testing.T) {
	f := setupProfileService()

	first, err := f.service.EnsureDefaultProfile("Personal")
	require.NoError(t, err)
	assert.Equal(t, "Personal", first.Name)

	again, err := f.service.EnsureDefaultProfile("Something else")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, f.profileRepo.Profiles, 1)
}
