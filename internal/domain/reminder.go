package domain

import "github.com/shopspring/decimal"

type ReminderKind string

const (
	ReminderDueToday ReminderKind = "due_today"
	ReminderUpcoming ReminderKind = "upcoming"
	ReminderOverdue  ReminderKind = "overdue"
)

type Reminder struct {
	BillID    int32           `json:"billId"`
	ProfileID int32           `json:"profileId"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   string          `json:"dueDate"`
	Kind      ReminderKind    `json:"kind"`
	// DaysUntilDue is negative for overdue bills
	DaysUntilDue int `json:"daysUntilDue"`
}
