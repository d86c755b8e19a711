package service

import (
	"testing"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCategories_SeedsDefaults(t *testing.T) {
	settingRepo := testutil.NewMockSettingRepository()
	service := NewCategoryService(settingRepo)

	categories, err := service.GetCategories()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategories, categories)
	_, ok := settingRepo.Settings[domain.CategoriesSettingKey]
	assert.True(t, ok, "defaults should be persisted on first read")
}

func TestAddCategory(t *testing.T) {
	settingRepo := testutil.NewMockSettingRepository()
	service := NewCategoryService(settingRepo)
	require.NoError(t, settingRepo.Save(domain.CategoriesSettingKey, `["Water","Electric"]`))

	categories, err := service.AddCategory("  Pets ")

	require.NoError(t, err)
	assert.Equal(t, []string{"Electric", "Pets", "Water"}, categories)

	stored, err := service.GetCategories()
	require.NoError(t, err)
	assert.Equal(t, categories, stored)
}

func TestAddCategory_Invalid(t *testing.T) {
	settingRepo := testutil.NewMockSettingRepository()
	service := NewCategoryService(settingRepo)
	require.NoError(t, settingRepo.Save(domain.CategoriesSettingKey, `["Water"]`))

	_, err := service.AddCategory("water")
	assert.Equal(t, domain.ErrDuplicateName, err)

	_, err = service.AddCategory("   ")
	assert.Equal(t, domain.ErrNameRequired, err)
}

func TestRemoveAndResetCategories(t *testing.T) {
	settingRepo := testutil.NewMockSettingRepository()
	service := NewCategoryService(settingRepo)
	require.NoError(t, settingRepo.Save(domain.CategoriesSettingKey, `["Pets","Water"]`))

	categories, err := service.RemoveCategory("Pets")
	require.NoError(t, err)
	assert.Equal(t, []string{"Water"}, categories)

	categories, err = service.ResetCategories()
	require.NoError(t, err)
	assert.Len(t, categories, len(domain.DefaultCategories))
}

func TestGetCategories_CorruptSetting(t *testing.T) {
	settingRepo := testutil.NewMockSettingRepository()
	service := NewCategoryService(settingRepo)
	require.NoError(t, settingRepo.Save(domain.CategoriesSettingKey, `not json`))

	_, err := service.GetCategories()

	assert.Error(t, err)
}
