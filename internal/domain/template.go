package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TemplateBill is a month-agnostic bill spec. DayOfMonth is taken from the
// source bill's due date when the template is saved.
type TemplateBill struct {
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Frequency    Frequency       `json:"frequency"`
	Category     string          `json:"category"`
	Notes        string          `json:"notes"`
	ReminderDays int32           `json:"reminderDays"`
	DayOfMonth   int             `json:"dayOfMonth"`
	IsCredit     bool            `json:"isCredit"`
}

type Template struct {
	ID          int32          `json:"id"`
	ProfileID   int32          `json:"profileId"`
	Name        string         `json:"name"`
	Bills       []TemplateBill `json:"bills"`
	CreatedDate time.Time      `json:"createdDate"`
}

// MonthApplyResult reports how many bills a template added to one month
type MonthApplyResult struct {
	Month int `json:"month"`
	Added int `json:"added"`
}

type TemplateRepository interface {
	Create(template *Template) (*Template, error)
	GetByID(profileID int32, id int32) (*Template, error)
	ListByProfile(profileID int32) ([]*Template, error)
	Delete(profileID int32, id int32) error
	CountByProfile(profileID int32) (int, error)
	DeleteByProfile(profileID int32) error
}
