package service

import (
	"sync"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func expense(profileID int32, name string, amount int64, due time.Time) *domain.Bill {
	return &domain.Bill{
		ProfileID:    profileID,
		Name:         name,
		Amount:       decimal.NewFromInt(amount),
		DueDate:      due,
		Frequency:    domain.FrequencyMonthly,
		Category:     "Utilities",
		ReminderDays: domain.DefaultReminderDays,
		Status:       domain.BillStatusPending,
	}
}

func paid(b *domain.Bill) *domain.Bill {
	b.IsPaid = true
	b.Status = domain.BillStatusPaid
	return b
}

func credit(b *domain.Bill) *domain.Bill {
	b.IsCredit = true
	return b
}

type publishedEvent struct {
	profileID int32
	event     websocket.Event
}

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(profileID int32, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{profileID: profileID, event: event})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.event.Type)
	}
	return types
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}
