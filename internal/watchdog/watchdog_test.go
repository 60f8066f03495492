package watchdog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/hostwatch/internal/errors"
	"codeberg.org/mutker/hostwatch/internal/metrics"
	"codeberg.org/mutker/hostwatch/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	sample metrics.Sample
}

func (p *fakeProvider) Sample(context.Context) metrics.Sample {
	s := p.sample
	s.Timestamp = time.Now()
	return s
}

type fakeResolver struct {
	value string
	ok    bool
}

func (r *fakeResolver) Resolve() (string, bool) { return r.value, r.ok }

type sentMessage struct {
	title    string
	severity notify.Severity
	snap     metrics.Snapshot
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, title string, snap metrics.Snapshot, severity notify.Severity) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{title: title, severity: severity, snap: snap})
	return n.err
}

func (n *fakeNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

func (n *fakeNotifier) titles() []string {
	var titles []string
	for _, msg := range n.messages() {
		titles = append(titles, msg.title)
	}
	return titles
}

func newTestMonitor(cfg Config, sample metrics.Sample, notifier *fakeNotifier) *Monitor {
	return New(cfg, &fakeProvider{sample: sample}, &fakeResolver{value: "45.0°C", ok: true}, notifier)
}

func baseSample() metrics.Sample {
	return metrics.Sample{
		CPUPercent:    10,
		MemoryPercent: 20,
		SwapPercent:   0,
		Net:           metrics.Counters{BytesSent: 100, BytesRecv: 200},
		NetOK:         true,
		Disks:         map[string]metrics.DiskUsage{"/": {Percent: 30}},
		Mounts:        []string{"/"},
	}
}

func TestAlertTickHighMemory(t *testing.T) {
	notifier := &fakeNotifier{}
	sample := baseSample()
	sample.MemoryPercent = 85

	m := newTestMonitor(Config{Threshold: 80, AlertInterval: time.Second, StatusInterval: time.Hour}, sample, notifier)

	require.NoError(t, m.alertTick(context.Background()))

	msgs := notifier.messages()
	require.Len(t, msgs, 1, "exactly one alert for one fired reason")
	assert.Equal(t, "High RAM Usage Alert", msgs[0].title)
	assert.Equal(t, notify.SeverityAlert, msgs[0].severity)
	assert.Equal(t, "45.0°C", msgs[0].snap.CPUTemperature)
}

func TestAlertTickQuietUnderThreshold(t *testing.T) {
	notifier := &fakeNotifier{}

	m := newTestMonitor(Config{Threshold: 80, AlertInterval: time.Second, StatusInterval: time.Hour}, baseSample(), notifier)

	require.NoError(t, m.alertTick(context.Background()))
	assert.Empty(t, notifier.messages(), "no notification when nothing exceeds the threshold")
}

func TestAlertTickMultipleReasons(t *testing.T) {
	notifier := &fakeNotifier{}
	sample := baseSample()
	sample.CPUPercent = 90
	sample.MemoryPercent = 95
	sample.Disks = map[string]metrics.DiskUsage{"/": {Percent: 85}, "/home": {Percent: 99}}
	sample.Mounts = []string{"/", "/home"}

	m := newTestMonitor(Config{Threshold: 80, AlertInterval: time.Second, StatusInterval: time.Hour}, sample, notifier)

	require.NoError(t, m.alertTick(context.Background()))

	assert.Equal(t, []string{
		"High RAM Usage Alert",
		"High CPU Usage Alert",
		"High Disk Usage Alert for /",
	}, notifier.titles())
}

func TestStatusTick(t *testing.T) {
	notifier := &fakeNotifier{}

	m := newTestMonitor(Config{Threshold: 80, AlertInterval: time.Second, StatusInterval: time.Hour}, baseSample(), notifier)

	require.NoError(t, m.statusTick(context.Background()))

	msgs := notifier.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Regular Status Update", msgs[0].title)
	assert.Equal(t, notify.SeverityInfo, msgs[0].severity)
}

func TestStatusTickFailureIsTransient(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New().WithData(errors.ErrNotifyStatus, 500)}

	m := newTestMonitor(Config{Threshold: 80, AlertInterval: time.Second, StatusInterval: time.Hour}, baseSample(), notifier)

	err := m.statusTick(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
}

func TestSnapshotRatesNeedTwoSamples(t *testing.T) {
	m := newTestMonitor(Config{Threshold: 80, AlertInterval: time.Second, StatusInterval: time.Hour}, baseSample(), &fakeNotifier{})

	first := m.snapshot(context.Background())
	assert.False(t, first.RatesOK, "first tick has no network baseline")

	time.Sleep(time.Millisecond) // ensure a non-zero elapsed interval
	second := m.snapshot(context.Background())
	assert.True(t, second.RatesOK)
}

func TestRunLifecycle(t *testing.T) {
	notifier := &fakeNotifier{}
	sample := baseSample()
	sample.MemoryPercent = 85

	m := newTestMonitor(Config{
		Threshold:      80,
		AlertInterval:  20 * time.Millisecond,
		StatusInterval: 30 * time.Millisecond,
	}, sample, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		require.NoError(t, m.Run(ctx))
	}()

	time.Sleep(110 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	titles := notifier.titles()
	require.NotEmpty(t, titles)
	assert.Equal(t, "Monitoring Started", titles[0])
	assert.Equal(t, "Monitoring Stopped", titles[len(titles)-1])

	var alerts, statuses int
	for _, title := range titles {
		switch title {
		case "High RAM Usage Alert":
			alerts++
		case "Regular Status Update":
			statuses++
		}
	}
	assert.GreaterOrEqual(t, alerts, 2, "alert loop should have ticked repeatedly")
	assert.GreaterOrEqual(t, statuses, 2, "status loop should have ticked independently")
}

func TestRunSurvivesNotifierFailures(t *testing.T) {
	notifier := &fakeNotifier{err: fmt.Errorf("backend down")}
	sample := baseSample()
	sample.MemoryPercent = 85

	m := newTestMonitor(Config{
		Threshold:      80,
		AlertInterval:  15 * time.Millisecond,
		StatusInterval: time.Hour,
	}, sample, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	time.Sleep(80 * time.Millisecond)
	cancel()
	<-done

	var attempts int
	for _, title := range notifier.titles() {
		if title == "High RAM Usage Alert" {
			attempts++
		}
	}
	assert.GreaterOrEqual(t, attempts, 3, "the loop must keep retrying after failed sends")
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	m := newTestMonitor(Config{Threshold: 0, AlertInterval: time.Second, StatusInterval: time.Second}, baseSample(), &fakeNotifier{})

	err := m.Run(context.Background())
	require.Error(t, err)
	assert.False(t, errors.IsTransient(err))
}
