package testutil

import (
	"sort"
	"strings"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
)

// sortBills orders bills by due date, then id, matching the stores
func sortBills(bills []*domain.Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		if !bills[i].DueDate.Equal(bills[j].DueDate) {
			return bills[i].DueDate.Before(bills[j].DueDate)
		}
		return bills[i].ID < bills[j].ID
	})
}

// MockBillRepository is a mock implementation of domain.BillRepository
type MockBillRepository struct {
	Bills  map[int32]*domain.Bill
	NextID int32
	// CreateCalls counts successful Create calls
	CreateCalls int
	// ListByDateRangeCalls counts range lookups, used to assert batch fetching
	ListByDateRangeCalls int
	CreateFn             func(bill *domain.Bill) (*domain.Bill, error)
	ListByProfileFn      func(profileID int32) ([]*domain.Bill, error)
}

// NewMockBillRepository creates a new MockBillRepository
func NewMockBillRepository() *MockBillRepository {
	return &MockBillRepository{
		Bills:  make(map[int32]*domain.Bill),
		NextID: 1,
	}
}

// Create creates a new bill
func (m *MockBillRepository) Create(bill *domain.Bill) (*domain.Bill, error) {
	if m.CreateFn != nil {
		return m.CreateFn(bill)
	}
	now := time.Now()
	stored := *bill
	stored.ID = m.NextID
	stored.CreatedAt = now
	stored.LastModified = now
	m.NextID++
	m.Bills[stored.ID] = &stored
	m.CreateCalls++
	out := stored
	return &out, nil
}

// GetByID retrieves a bill by ID within a profile
func (m *MockBillRepository) GetByID(profileID int32, id int32) (*domain.Bill, error) {
	b, ok := m.Bills[id]
	if !ok || b.ProfileID != profileID {
		return nil, domain.ErrBillNotFound
	}
	out := *b
	return &out, nil
}

// Update replaces the editable fields of a bill
func (m *MockBillRepository) Update(profileID int32, id int32, data *domain.UpdateBillData) (*domain.Bill, error) {
	b, ok := m.Bills[id]
	if !ok || b.ProfileID != profileID {
		return nil, domain.ErrBillNotFound
	}
	b.Name = data.Name
	b.Amount = data.Amount
	b.DueDate = data.DueDate
	b.Frequency = data.Frequency
	b.Category = data.Category
	b.Notes = data.Notes
	b.ReminderDays = data.ReminderDays
	b.IsCredit = data.IsCredit
	b.LastModified = time.Now()
	out := *b
	return &out, nil
}

// SetPaid updates the paid state of a bill
func (m *MockBillRepository) SetPaid(profileID int32, id int32, isPaid bool, paidDate *time.Time) (*domain.Bill, error) {
	b, ok := m.Bills[id]
	if !ok || b.ProfileID != profileID {
		return nil, domain.ErrBillNotFound
	}
	b.IsPaid = isPaid
	b.PaidDate = paidDate
	if isPaid {
		b.Status = domain.BillStatusPaid
	} else {
		b.Status = domain.BillStatusPending
	}
	b.LastModified = time.Now()
	out := *b
	return &out, nil
}

// Delete removes a bill
func (m *MockBillRepository) Delete(profileID int32, id int32) error {
	b, ok := m.Bills[id]
	if !ok || b.ProfileID != profileID {
		return domain.ErrBillNotFound
	}
	delete(m.Bills, id)
	return nil
}

// ListByProfile returns every bill of a profile
func (m *MockBillRepository) ListByProfile(profileID int32) ([]*domain.Bill, error) {
	if m.ListByProfileFn != nil {
		return m.ListByProfileFn(profileID)
	}
	var result []*domain.Bill
	for _, b := range m.Bills {
		if b.ProfileID == profileID {
			out := *b
			result = append(result, &out)
		}
	}
	sortBills(result)
	return result, nil
}

// ListByDateRange returns bills due within [start, end]
func (m *MockBillRepository) ListByDateRange(profileID int32, start, end time.Time) ([]*domain.Bill, error) {
	m.ListByDateRangeCalls++
	var result []*domain.Bill
	for _, b := range m.Bills {
		if b.ProfileID != profileID {
			continue
		}
		if b.DueDate.Before(start) || b.DueDate.After(end) {
			continue
		}
		out := *b
		result = append(result, &out)
	}
	sortBills(result)
	return result, nil
}

// CountByProfile counts a profile's bills
func (m *MockBillRepository) CountByProfile(profileID int32) (int, error) {
	count := 0
	for _, b := range m.Bills {
		if b.ProfileID == profileID {
			count++
		}
	}
	return count, nil
}

// DeleteByProfile removes every bill of a profile
func (m *MockBillRepository) DeleteByProfile(profileID int32) error {
	for id, b := range m.Bills {
		if b.ProfileID == profileID {
			delete(m.Bills, id)
		}
	}
	return nil
}

// AddBill adds a bill to the mock repository (helper for tests)
func (m *MockBillRepository) AddBill(bill *domain.Bill) *domain.Bill {
	if bill.ID == 0 {
		bill.ID = m.NextID
		m.NextID++
	} else if bill.ID >= m.NextID {
		m.NextID = bill.ID + 1
	}
	if bill.Status == "" {
		bill.Status = domain.BillStatusPending
		if bill.IsPaid {
			bill.Status = domain.BillStatusPaid
		}
	}
	m.Bills[bill.ID] = bill
	return bill
}

// MockTemplateRepository is a mock implementation of domain.TemplateRepository
type MockTemplateRepository struct {
	Templates map[int32]*domain.Template
	NextID    int32
	GetByIDFn func(profileID int32, id int32) (*domain.Template, error)
}

// NewMockTemplateRepository creates a new MockTemplateRepository
func NewMockTemplateRepository() *MockTemplateRepository {
	return &MockTemplateRepository{
		Templates: make(map[int32]*domain.Template),
		NextID:    1,
	}
}

// Create stores a new template
func (m *MockTemplateRepository) Create(template *domain.Template) (*domain.Template, error) {
	template.ID = m.NextID
	m.NextID++
	if template.CreatedDate.IsZero() {
		template.CreatedDate = time.Now()
	}
	m.Templates[template.ID] = template
	return template, nil
}

// GetByID retrieves a template by ID within a profile
func (m *MockTemplateRepository) GetByID(profileID int32, id int32) (*domain.Template, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(profileID, id)
	}
	t, ok := m.Templates[id]
	if !ok || t.ProfileID != profileID {
		return nil, domain.ErrTemplateNotFound
	}
	return t, nil
}

// ListByProfile returns a profile's templates ordered by id
func (m *MockTemplateRepository) ListByProfile(profileID int32) ([]*domain.Template, error) {
	var result []*domain.Template
	for _, t := range m.Templates {
		if t.ProfileID == profileID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Delete removes a template
func (m *MockTemplateRepository) Delete(profileID int32, id int32) error {
	t, ok := m.Templates[id]
	if !ok || t.ProfileID != profileID {
		return domain.ErrTemplateNotFound
	}
	delete(m.Templates, id)
	return nil
}

// CountByProfile counts a profile's templates
func (m *MockTemplateRepository) CountByProfile(profileID int32) (int, error) {
	count := 0
	for _, t := range m.Templates {
		if t.ProfileID == profileID {
			count++
		}
	}
	return count, nil
}

// DeleteByProfile removes every template of a profile
func (m *MockTemplateRepository) DeleteByProfile(profileID int32) error {
	for id, t := range m.Templates {
		if t.ProfileID == profileID {
			delete(m.Templates, id)
		}
	}
	return nil
}

// AddTemplate adds a template to the mock repository (helper for tests)
func (m *MockTemplateRepository) AddTemplate(template *domain.Template) *domain.Template {
	if template.ID == 0 {
		template.ID = m.NextID
		m.NextID++
	} else if template.ID >= m.NextID {
		m.NextID = template.ID + 1
	}
	m.Templates[template.ID] = template
	return template
}

// MockProfileRepository is a mock implementation of domain.ProfileRepository
type MockProfileRepository struct {
	Profiles map[int32]*domain.Profile
	NextID   int32
	DeleteFn func(id int32) error
}

// NewMockProfileRepository creates a new MockProfileRepository
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		Profiles: make(map[int32]*domain.Profile),
		NextID:   1,
	}
}

// Create creates a new profile
func (m *MockProfileRepository) Create(name string) (*domain.Profile, error) {
	p := &domain.Profile{ID: m.NextID, Name: name, CreatedDate: time.Now()}
	m.NextID++
	m.Profiles[p.ID] = p
	return p, nil
}

// GetByID retrieves a profile by ID
func (m *MockProfileRepository) GetByID(id int32) (*domain.Profile, error) {
	p, ok := m.Profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

// List returns every profile ordered by id
func (m *MockProfileRepository) List() ([]*domain.Profile, error) {
	result := make([]*domain.Profile, 0, len(m.Profiles))
	for _, p := range m.Profiles {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Rename changes a profile's name
func (m *MockProfileRepository) Rename(id int32, name string) (*domain.Profile, error) {
	p, ok := m.Profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.Name = name
	return p, nil
}

// Delete removes a profile
func (m *MockProfileRepository) Delete(id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(id)
	}
	if _, ok := m.Profiles[id]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(m.Profiles, id)
	return nil
}

// AddProfile adds a profile to the mock repository (helper for tests)
func (m *MockProfileRepository) AddProfile(id int32, name string) *domain.Profile {
	p := &domain.Profile{ID: id, Name: name, CreatedDate: time.Now()}
	m.Profiles[id] = p
	if id >= m.NextID {
		m.NextID = id + 1
	}
	return p
}

// MockSettingRepository is a mock implementation of domain.SettingRepository
type MockSettingRepository struct {
	Settings map[string]*domain.Setting
	SaveFn   func(key, value string) error
}

// NewMockSettingRepository creates a new MockSettingRepository
func NewMockSettingRepository() *MockSettingRepository {
	return &MockSettingRepository{
		Settings: make(map[string]*domain.Setting),
	}
}

// Get retrieves a setting by key
func (m *MockSettingRepository) Get(key string) (*domain.Setting, error) {
	s, ok := m.Settings[key]
	if !ok {
		return nil, domain.ErrSettingNotFound
	}
	return s, nil
}

// Save upserts a setting
func (m *MockSettingRepository) Save(key, value string) error {
	if m.SaveFn != nil {
		return m.SaveFn(key, value)
	}
	m.Settings[key] = &domain.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return nil
}

// DeleteByPrefix removes every setting whose key starts with prefix
func (m *MockSettingRepository) DeleteByPrefix(prefix string) error {
	for key := range m.Settings {
		if strings.HasPrefix(key, prefix) {
			delete(m.Settings, key)
		}
	}
	return nil
}
