package domain

import (
	"fmt"
	"time"
)

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const CategoriesSettingKey = "categories"

// MonthlyCreditKey returns the setting key holding the credit for a profile's month
func MonthlyCreditKey(profileID int32, year, month int) string {
	return fmt.Sprintf("monthlyCredit_%d_%d_%d", profileID, year, month)
}

// MonthlyCreditKeyPrefix matches every monthly credit stored for a profile
func MonthlyCreditKeyPrefix(profileID int32) string {
	return fmt.Sprintf("monthlyCredit_%d_", profileID)
}

// DefaultCategories is the category list seeded on first use
var DefaultCategories = []string{
	"Rent/Mortgage",
	"Utilities",
	"Electric",
	"Water",
	"Gas",
	"Internet",
	"Phone",
	"Insurance",
	"Car Insurance",
	"Health Insurance",
	"Home Insurance",
	"Subscriptions",
	"Streaming Services",
	"Gym Membership",
	"Credit Card",
	"Loan Payment",
	"Groceries",
	"Transportation",
	"Healthcare",
	"Education",
	"Entertainment",
	"Other",
}

type SettingRepository interface {
	Get(key string) (*Setting, error)
	Save(key, value string) error
	DeleteByPrefix(prefix string) error
}
