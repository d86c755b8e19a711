package service

import (
	"sort"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/util"
)

// ReminderService classifies unpaid bills by how close they are to their due date
type ReminderService struct {
	billRepo domain.BillRepository
}

// NewReminderService creates a new ReminderService
func NewReminderService(billRepo domain.BillRepository) *ReminderService {
	return &ReminderService{billRepo: billRepo}
}

// DueReminders returns a reminder for every unpaid bill that is overdue, due
// today, or due within its reminder window. A reminder window of 0 falls back
// to the default of 3 days.
func (s *ReminderService) DueReminders(profileID int32, today time.Time) ([]domain.Reminder, error) {
	bills, err := s.billRepo.ListByProfile(profileID)
	if err != nil {
		return nil, err
	}

	today = util.DateOnly(today)
	reminders := make([]domain.Reminder, 0)
	for _, b := range bills {
		if b.IsPaid {
			continue
		}

		days := util.DaysBetween(today, b.DueDate)
		window := int(b.ReminderDays)
		if window <= 0 {
			window = domain.DefaultReminderDays
		}

		var kind domain.ReminderKind
		switch {
		case days < 0:
			kind = domain.ReminderOverdue
		case days == 0:
			kind = domain.ReminderDueToday
		case days <= window:
			kind = domain.ReminderUpcoming
		default:
			continue
		}

		reminders = append(reminders, domain.Reminder{
			BillID:       b.ID,
			ProfileID:    profileID,
			Name:         b.Name,
			Amount:       b.Amount,
			DueDate:      util.FormatDate(b.DueDate),
			Kind:         kind,
			DaysUntilDue: days,
		})
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].DueDate < reminders[j].DueDate
	})
	return reminders, nil
}
