package service

import (
	"strings"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/websocket"
)

// ProfileService handles profile lifecycle. Profiles partition every other entity.
type ProfileService struct {
	profileRepo    domain.ProfileRepository
	billRepo       domain.BillRepository
	templateRepo   domain.TemplateRepository
	settingRepo    domain.SettingRepository
	eventPublisher websocket.EventPublisher
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	profileRepo domain.ProfileRepository,
	billRepo domain.BillRepository,
	templateRepo domain.TemplateRepository,
	settingRepo domain.SettingRepository,
) *ProfileService {
	return &ProfileService{
		profileRepo:  profileRepo,
		billRepo:     billRepo,
		templateRepo: templateRepo,
		settingRepo:  settingRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ProfileService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// GetProfile retrieves a profile by ID
func (s *ProfileService) GetProfile(id int32) (*domain.Profile, error) {
	return s.profileRepo.GetByID(id)
}

// CreateProfile creates a profile with a unique (case-insensitive) name
func (s *ProfileService) CreateProfile(name string) (*domain.Profile, error) {
	name, err := s.checkName(name, 0)
	if err != nil {
		return nil, err
	}
	return s.profileRepo.Create(name)
}

// RenameProfile renames a profile; the new name must not clash with another profile
func (s *ProfileService) RenameProfile(id int32, name string) (*domain.Profile, error) {
	if _, err := s.profileRepo.GetByID(id); err != nil {
		return nil, err
	}

	name, err := s.checkName(name, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.profileRepo.Rename(id, name)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(id, websocket.ProfileUpdated(updated))
	}
	return updated, nil
}

// DeleteProfile removes a profile together with its bills, templates and
// monthly credits. The last remaining profile cannot be deleted.
func (s *ProfileService) DeleteProfile(id int32) error {
	if _, err := s.profileRepo.GetByID(id); err != nil {
		return err
	}

	profiles, err := s.profileRepo.List()
	if err != nil {
		return err
	}
	if len(profiles) <= 1 {
		return domain.ErrLastProfile
	}

	if err := s.billRepo.DeleteByProfile(id); err != nil {
		return err
	}
	if err := s.templateRepo.DeleteByProfile(id); err != nil {
		return err
	}
	if err := s.settingRepo.DeleteByPrefix(domain.MonthlyCreditKeyPrefix(id)); err != nil {
		return err
	}
	return s.profileRepo.Delete(id)
}

// ListProfiles returns every profile with its bill and template counts
func (s *ProfileService) ListProfiles() ([]*domain.ProfileWithStats, error) {
	profiles, err := s.profileRepo.List()
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ProfileWithStats, 0, len(profiles))
	for _, p := range profiles {
		billCount, err := s.billRepo.CountByProfile(p.ID)
		if err != nil {
			return nil, err
		}
		templateCount, err := s.templateRepo.CountByProfile(p.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &domain.ProfileWithStats{
			Profile: *p,
			Stats: domain.ProfileStats{
				BillCount:     billCount,
				TemplateCount: templateCount,
			},
		})
	}
	return result, nil
}

// EnsureDefaultProfile creates a profile named name when none exist and
// returns the first profile
func (s *ProfileService) EnsureDefaultProfile(name string) (*domain.Profile, error) {
	profiles, err := s.profileRepo.List()
	if err != nil {
		return nil, err
	}
	if len(profiles) > 0 {
		return profiles[0], nil
	}
	return s.CreateProfile(name)
}

// checkName trims and validates name. excludeID skips the profile being renamed.
func (s *ProfileService) checkName(name string, excludeID int32) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}

	profiles, err := s.profileRepo.List()
	if err != nil {
		return "", err
	}
	for _, p := range profiles {
		if p.ID != excludeID && strings.EqualFold(p.Name, name) {
			return "", domain.ErrDuplicateName
		}
	}
	return name, nil
}
