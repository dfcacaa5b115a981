package alerting

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/owade/polysniper/internal/persistence"
)

// MultiAlerter fans one engine event out to every configured channel, so a
// filled snipe order reaches the console and Telegram in one call.
type MultiAlerter struct {
	mu       sync.RWMutex
	channels []Alerter
	logger   *slog.Logger
}

// NewMultiAlerter creates a fan-out alerter over the given channels.
func NewMultiAlerter(logger *slog.Logger, channels ...Alerter) *MultiAlerter {
	if logger == nil {
		logger = slog.Default()
	}
	return &MultiAlerter{
		channels: channels,
		logger:   logger,
	}
}

// Name returns the name of the alerter.
func (m *MultiAlerter) Name() string {
	return "multi"
}

// AddAlerter registers another delivery channel.
func (m *MultiAlerter) AddAlerter(channel Alerter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, channel)
}

func (m *MultiAlerter) snapshot() []Alerter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	channels := make([]Alerter, len(m.channels))
	copy(channels, m.channels)
	return channels
}

// Alert delivers to every channel concurrently. One slow or failing channel
// must not delay the others; failures are logged per channel and the joined
// error is returned.
func (m *MultiAlerter) Alert(ctx context.Context, severity Severity, message string, fields ...any) error {
	channels := m.snapshot()
	if len(channels) == 0 {
		return nil
	}

	var (
		wg    sync.WaitGroup
		errMu sync.Mutex
		errs  []error
	)

	for _, channel := range channels {
		wg.Add(1)
		go func(a Alerter) {
			defer wg.Done()
			if err := a.Alert(ctx, severity, message, fields...); err != nil {
				m.logger.Error("alert delivery failed",
					"channel", a.Name(),
					"severity", severity.String(),
					"error", err,
				)
				errMu.Lock()
				errs = append(errs, err)
				errMu.Unlock()
			}
		}(channel)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// AlertEvent delivers an engine event at its conventional severity.
func (m *MultiAlerter) AlertEvent(ctx context.Context, event AlertEvent, message string, fields ...any) error {
	return m.Alert(ctx, EventSeverity(event), message, fields...)
}

// SendDailySummary forwards the end-of-day report to every channel that
// knows how to render one. Channels without a summary format are skipped.
func (m *MultiAlerter) SendDailySummary(ctx context.Context, summary persistence.DailySummary) error {
	var errs []error
	for _, channel := range m.snapshot() {
		sender, ok := channel.(DailySummarySender)
		if !ok {
			continue
		}
		if err := sender.SendDailySummary(ctx, summary); err != nil {
			m.logger.Error("daily summary delivery failed",
				"channel", channel.Name(),
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
