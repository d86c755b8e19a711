package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
)

// CategoryService manages the category list shared by all profiles. The list
// is stored as a JSON array under a single setting.
type CategoryService struct {
	settingRepo domain.SettingRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(settingRepo domain.SettingRepository) *CategoryService {
	return &CategoryService{settingRepo: settingRepo}
}

// GetCategories returns the category list, seeding the defaults on first use
func (s *CategoryService) GetCategories() ([]string, error) {
	setting, err := s.settingRepo.Get(domain.CategoriesSettingKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		defaults := append([]string(nil), domain.DefaultCategories...)
		if err := s.save(defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}

	var categories []string
	if err := json.Unmarshal([]byte(setting.Value), &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// AddCategory appends a category and keeps the list sorted
func (s *CategoryService) AddCategory(name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	categories, err := s.GetCategories()
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if strings.EqualFold(c, name) {
			return nil, domain.ErrDuplicateName
		}
	}

	categories = append(categories, name)
	sort.Strings(categories)
	if err := s.save(categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// RemoveCategory drops a category from the list. Bills keep their category text.
func (s *CategoryService) RemoveCategory(name string) ([]string, error) {
	categories, err := s.GetCategories()
	if err != nil {
		return nil, err
	}

	filtered := make([]string, 0, len(categories))
	for _, c := range categories {
		if c != name {
			filtered = append(filtered, c)
		}
	}
	if err := s.save(filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

// ResetCategories restores the default list
func (s *CategoryService) ResetCategories() ([]string, error) {
	defaults := append([]string(nil), domain.DefaultCategories...)
	if err := s.save(defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

func (s *CategoryService) save(categories []string) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}
	return s.settingRepo.Save(domain.CategoriesSettingKey, string(data))
}
