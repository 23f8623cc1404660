package connectivity

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/burn-ops-service/internal/pkg/metrics"
)

type fakeProber struct {
	healthy atomic.Bool
	calls   atomic.Int32
}

func (p *fakeProber) Health(ctx context.Context) error {
	p.calls.Add(1)
	if p.healthy.Load() {
		return nil
	}
	return errors.New("unreachable")
}

func newTestMonitor(prober repository.Prober, interval time.Duration) *Monitor {
	return NewMonitor(prober, interval, time.Second, metrics.New("test", prometheus.NewRegistry()), zap.NewNop())
}

func TestMonitor_ReportEmitsOnlyTransitions(t *testing.T) {
	m := newTestMonitor(nil, 0)
	events, unsubscribe := m.Subscribe()
	defer unsubscribe()

	assert.False(t, m.IsOnline())
	assert.False(t, m.Report(false, "device"), "offline -> offline is not a transition")
	assert.True(t, m.Report(true, "device"))
	assert.False(t, m.Report(true, "device"))
	assert.True(t, m.Report(false, "probe"))

	require.Len(t, events, 2)
	first := <-events
	second := <-events
	assert.Equal(t, domain.Online, first.State)
	assert.Equal(t, "device", first.Source)
	assert.Equal(t, domain.Offline, second.State)
	assert.Equal(t, "probe", second.Source)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.metrics.ConnectivityOnline))
}

func TestMonitor_SlowSubscriberDoesNotBlock(t *testing.T) {
	m := newTestMonitor(nil, 0)
	_, unsubscribe := m.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			m.Report(i%2 == 0, "device")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Report blocked on a full subscriber")
	}
}

func TestMonitor_UnsubscribeClosesChannel(t *testing.T) {
	m := newTestMonitor(nil, 0)
	events, unsubscribe := m.Subscribe()

	unsubscribe()
	unsubscribe()

	_, ok := <-events
	assert.False(t, ok)
	assert.True(t, m.Report(true, "device"), "reporting after unsubscribe must not panic")
}

func TestMonitor_RunProbes(t *testing.T) {
	prober := &fakeProber{}
	prober.healthy.Store(true)

	m := newTestMonitor(prober, 20*time.Millisecond)
	events, unsubscribe := m.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	select {
	case ev := <-events:
		assert.Equal(t, domain.Online, ev.State)
		assert.Equal(t, "probe", ev.Source)
	case <-time.After(time.Second):
		t.Fatal("no online event from probe")
	}

	prober.healthy.Store(false)
	select {
	case ev := <-events:
		assert.Equal(t, domain.Offline, ev.State)
	case <-time.After(time.Second):
		t.Fatal("no offline event from probe")
	}

	assert.GreaterOrEqual(t, prober.calls.Load(), int32(2))
}
