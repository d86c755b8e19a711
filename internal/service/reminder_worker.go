package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/metrics"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/util"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// ReminderWorker periodically scans every profile for due bills and pushes
// reminder.due events to connected clients. A reminder is sent at most once
// per bill, kind and day.
type ReminderWorker struct {
	reminderService *ReminderService
	profileRepo     domain.ProfileRepository
	publisher       websocket.EventPublisher
	metrics         *metrics.Metrics
	logger          zerolog.Logger
	interval        time.Duration
	now             func() time.Time

	// sent holds reminders already published today
	sent    map[string]struct{}
	sentDay string

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	running  bool
}

// ReminderWorkerConfig holds configuration for the reminder worker
type ReminderWorkerConfig struct {
	Interval time.Duration // How often to scan for due bills
}

// DefaultReminderWorkerConfig returns sensible defaults
func DefaultReminderWorkerConfig() ReminderWorkerConfig {
	return ReminderWorkerConfig{
		Interval: 1 * time.Hour,
	}
}

// NewReminderWorker creates a new reminder worker
func NewReminderWorker(
	reminderService *ReminderService,
	profileRepo domain.ProfileRepository,
	publisher websocket.EventPublisher,
	logger zerolog.Logger,
	config ReminderWorkerConfig,
) *ReminderWorker {
	if config.Interval <= 0 {
		config.Interval = DefaultReminderWorkerConfig().Interval
	}
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}

	return &ReminderWorker{
		reminderService: reminderService,
		profileRepo:     profileRepo,
		publisher:       publisher,
		logger:          logger.With().Str("component", "reminder_worker").Logger(),
		interval:        config.Interval,
		now:             time.Now,
		sent:            make(map[string]struct{}),
		stopCh:          make(chan struct{}),
		doneCh:          make(chan struct{}),
	}
}

// SetMetrics enables the reminders counter
func (w *ReminderWorker) SetMetrics(m *metrics.Metrics) {
	w.metrics = m
}

// Start begins the periodic scan
func (w *ReminderWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().
		Dur("interval", w.interval).
		Msg("Starting reminder worker")

	go w.run(ctx)
}

// Stop gracefully stops the reminder worker
func (w *ReminderWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping reminder worker")
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
	w.logger.Info().Msg("Reminder worker stopped")
}

// IsRunning returns whether the worker is currently running
func (w *ReminderWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *ReminderWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Run immediately on startup
	w.ScanAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return
		case <-w.stopCh:
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return
		case <-ticker.C:
			w.ScanAll(ctx)
		}
	}
}

// ScanAll publishes new reminders for every profile and returns how many were sent
func (w *ReminderWorker) ScanAll(ctx context.Context) int {
	startTime := time.Now()

	profiles, err := w.profileRepo.List()
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to list profiles for reminder scan")
		return 0
	}

	today := util.DateOnly(w.now())
	w.resetSentIfNewDay(today)

	published := 0
	for _, p := range profiles {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Context cancelled, stopping reminder scan")
			return published
		case <-w.stopCh:
			w.logger.Info().Msg("Stop signal received, stopping reminder scan")
			return published
		default:
		}

		reminders, err := w.reminderService.DueReminders(p.ID, today)
		if err != nil {
			w.logger.Error().
				Err(err).
				Int32("profile_id", p.ID).
				Msg("Failed to compute reminders for profile")
			continue
		}

		for _, r := range reminders {
			if !w.markSent(r) {
				continue
			}
			w.publisher.Publish(p.ID, websocket.ReminderDue(r))
			w.metrics.ReminderEmitted(string(r.Kind))
			published++
		}
	}

	w.logger.Info().
		Int("profiles", len(profiles)).
		Int("published", published).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed reminder scan")
	return published
}

func (w *ReminderWorker) resetSentIfNewDay(today time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	day := util.FormatDate(today)
	if w.sentDay != day {
		w.sent = make(map[string]struct{})
		w.sentDay = day
	}
}

// markSent records r and reports whether it had not been sent yet today
func (w *ReminderWorker) markSent(r domain.Reminder) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := fmt.Sprintf("%d:%d:%s", r.ProfileID, r.BillID, r.Kind)
	if _, ok := w.sent[key]; ok {
		return false
	}
	w.sent[key] = struct{}{}
	return true
}
