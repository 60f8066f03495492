// Package watchdog runs the two monitoring loops: threshold alert checks on
// a short interval and unconditional status reports on a long one.
package watchdog

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/hostwatch/internal/alert"
	"codeberg.org/mutker/hostwatch/internal/errors"
	"codeberg.org/mutker/hostwatch/internal/logger"
	"codeberg.org/mutker/hostwatch/internal/metrics"
	"codeberg.org/mutker/hostwatch/internal/notify"
)

const (
	startedTitle = "Monitoring Started"
	stoppedTitle = "Monitoring Stopped"
	statusTitle  = "Regular Status Update"

	// stopTimeout bounds the farewell notification sent after the run
	// context is already cancelled.
	stopTimeout = 10 * time.Second
)

type Config struct {
	Threshold      float64
	AlertInterval  time.Duration
	StatusInterval time.Duration
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Threshold <= 0 || c.Threshold > 100 {
		return errFactory.WithData(errors.ErrInvalidThreshold, c.Threshold)
	}
	if c.AlertInterval <= 0 || c.StatusInterval <= 0 {
		return errFactory.New(errors.ErrInvalidInterval)
	}

	return nil
}

// Monitor owns the sampling pipeline and the two loops. The rate tracker is
// the only mutable state shared between them; it serializes itself.
type Monitor struct {
	cfg      Config
	provider metrics.Provider
	resolver metrics.TemperatureResolver
	notifier notify.Notifier
	tracker  *metrics.RateTracker
}

func New(cfg Config, provider metrics.Provider, resolver metrics.TemperatureResolver, notifier notify.Notifier) *Monitor {
	return &Monitor{
		cfg:      cfg,
		provider: provider,
		resolver: resolver,
		notifier: notifier,
		tracker:  metrics.NewRateTracker(),
	}
}

// Run sends the startup notification, supervises both loops until ctx is
// cancelled, joins them, and sends a best-effort farewell.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.cfg.Validate(); err != nil {
		return err
	}

	logger.Info().
		Float64("threshold", m.cfg.Threshold).
		Dur("alert_interval", m.cfg.AlertInterval).
		Dur("status_interval", m.cfg.StatusInterval).
		Msg("Starting system monitoring")

	m.send(ctx, startedTitle)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.loop(ctx, "alert", m.cfg.AlertInterval, m.alertTick)
	}()
	go func() {
		defer wg.Done()
		m.loop(ctx, "status", m.cfg.StatusInterval, m.statusTick)
	}()
	wg.Wait()

	farewellCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	m.send(farewellCtx, stoppedTitle)

	return nil
}

// loop runs tick on every interval until cancellation. Tick errors are
// classified and logged; the loop itself never terminates on one.
func (m *Monitor) loop(ctx context.Context, name string, interval time.Duration, tick func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Str("loop", name).Msg("loop stopped")
			return
		case <-ticker.C:
			if err := tick(ctx); err != nil {
				if errors.IsTransient(err) {
					logger.Warn().Err(err).Str("loop", name).Msg("tick failed; retrying next interval")
				} else {
					logger.Error().Err(err).Str("loop", name).Msg("unexpected tick failure; retrying next interval")
				}
			}
		}
	}
}

func (m *Monitor) alertTick(ctx context.Context) error {
	snap := m.snapshot(ctx)

	var failed int
	for _, reason := range alert.Evaluate(snap, m.cfg.Threshold) {
		logger.Warn().
			Str("kind", string(reason.Kind)).
			Float64("value", reason.Value).
			Float64("threshold", m.cfg.Threshold).
			Msg("threshold exceeded")

		if err := m.notifier.Notify(ctx, reason.Title(), snap, notify.SeverityAlert); err != nil {
			failed++
		}
	}

	if failed > 0 {
		return errors.New().WithData(errors.ErrAlertTick, struct{ Failed int }{Failed: failed})
	}

	return nil
}

func (m *Monitor) statusTick(ctx context.Context) error {
	snap := m.snapshot(ctx)

	if err := m.notifier.Notify(ctx, statusTitle, snap, notify.SeverityInfo); err != nil {
		return errors.New().Wrap(errors.ErrStatusTick, err)
	}

	return nil
}

// snapshot assembles the per-tick immutable value: raw sample, resolved
// temperature, derived network rates.
func (m *Monitor) snapshot(ctx context.Context) metrics.Snapshot {
	sample := m.provider.Sample(ctx)
	snap := metrics.Snapshot{Sample: sample}

	if temp, ok := m.resolver.Resolve(); ok {
		snap.CPUTemperature = temp
	}

	if sample.NetOK {
		snap.SendRate, snap.RecvRate, snap.RatesOK = m.tracker.Observe(sample.Net, sample.Timestamp)
	}

	return snap
}

// send delivers a lifecycle notification. Failures are logged by the
// notifier and dropped: startup and shutdown messages are best-effort.
func (m *Monitor) send(ctx context.Context, title string) {
	snap := m.snapshot(ctx)
	if err := m.notifier.Notify(ctx, title, snap, notify.SeverityInfo); err != nil {
		logger.Warn().Err(err).Str("title", title).Msg("lifecycle notification failed")
	}
}
