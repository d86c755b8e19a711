package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyOnce      Frequency = "once"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiWeekly  Frequency = "bi-weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// IsValid reports whether f is one of the supported frequencies
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyOnce, FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

type BillStatus string

const (
	BillStatusPending BillStatus = "pending"
	BillStatusPaid    BillStatus = "paid"
)

const (
	UncategorizedCategory = "Uncategorized"
	DefaultReminderDays   = 3
)

type Bill struct {
	ID           int32           `json:"id"`
	ProfileID    int32           `json:"profileId"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"dueDate"`
	Frequency    Frequency       `json:"frequency"`
	Category     string          `json:"category"`
	Notes        string          `json:"notes"`
	ReminderDays int32           `json:"reminderDays"`
	Status       BillStatus      `json:"status"`
	IsPaid       bool            `json:"isPaid"`
	PaidDate     *time.Time      `json:"paidDate,omitempty"`
	IsCredit     bool            `json:"isCredit"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastModified time.Time       `json:"lastModified"`
}

// SignedAmount returns the amount as it counts against an outstanding balance:
// credits reduce the balance, expenses add to it.
func (b *Bill) SignedAmount() decimal.Decimal {
	if b.IsCredit {
		return b.Amount.Neg()
	}
	return b.Amount
}

type CreateBillInput struct {
	Name         string
	Amount       decimal.Decimal
	DueDate      time.Time
	Frequency    Frequency
	Category     string
	Notes        string
	ReminderDays *int32
	IsCredit     bool
}

type UpdateBillData struct {
	Name         string
	Amount       decimal.Decimal
	DueDate      time.Time
	Frequency    Frequency
	Category     string
	Notes        string
	ReminderDays int32
	IsCredit     bool
}

type BillRepository interface {
	Create(bill *Bill) (*Bill, error)
	GetByID(profileID int32, id int32) (*Bill, error)
	Update(profileID int32, id int32, data *UpdateBillData) (*Bill, error)
	SetPaid(profileID int32, id int32, isPaid bool, paidDate *time.Time) (*Bill, error)
	Delete(profileID int32, id int32) error
	// ListByProfile returns every bill of the profile ordered by due date, then id
	ListByProfile(profileID int32) ([]*Bill, error)
	// ListByDateRange returns bills due within [start, end] ordered by due date, then id
	ListByDateRange(profileID int32, start, end time.Time) ([]*Bill, error)
	CountByProfile(profileID int32) (int, error)
	DeleteByProfile(profileID int32) error
}
