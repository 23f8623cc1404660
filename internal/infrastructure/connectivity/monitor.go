package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/burn-ops-service/internal/pkg/metrics"
	"go.uber.org/zap"
)

const subscriberBuffer = 8

// Monitor - наблюдаемый сигнал связи. События публикуются только при смене состояния.
type Monitor struct {
	mu          sync.RWMutex
	online      bool
	subscribers map[int]chan domain.ConnectivityEvent
	nextID      int

	prober   repository.Prober
	interval time.Duration
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewMonitor создает монитор. prober может быть nil: тогда состояние меняется
// только через Report.
func NewMonitor(prober repository.Prober, interval, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *Monitor {
	return &Monitor{
		subscribers: make(map[int]chan domain.ConnectivityEvent),
		prober:      prober,
		interval:    interval,
		timeout:     timeout,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

var _ repository.ConnectivitySignal = (*Monitor)(nil)

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Subscribe возвращает канал переходов. Медленный подписчик не блокирует монитор:
// событие, не поместившееся в буфер, отбрасывается.
func (m *Monitor) Subscribe() (<-chan domain.ConnectivityEvent, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan domain.ConnectivityEvent, subscriberBuffer)
	m.subscribers[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if sub, ok := m.subscribers[id]; ok {
				delete(m.subscribers, id)
				close(sub)
			}
		})
	}
	return ch, unsubscribe
}

// Report фиксирует наблюдение. Возвращает true, если состояние изменилось.
func (m *Monitor) Report(online bool, source string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.online == online {
		return false
	}
	m.online = online

	state := domain.Offline
	gauge := 0.0
	if online {
		state = domain.Online
		gauge = 1
	}
	if m.metrics != nil {
		m.metrics.ConnectivityOnline.Set(gauge)
	}

	event := domain.ConnectivityEvent{State: state, Source: source, At: m.now().UTC()}
	m.logger.Info("connectivity changed",
		zap.String("state", string(state)),
		zap.String("source", source))

	for id, ch := range m.subscribers {
		select {
		case ch <- event:
		default:
			m.logger.Warn("connectivity subscriber is slow, event dropped", zap.Int("subscriber", id))
		}
	}
	return true
}

// Run опрашивает prober с заданным интервалом до отмены контекста
func (m *Monitor) Run(ctx context.Context) {
	if m.prober == nil || m.interval <= 0 {
		<-ctx.Done()
		return
	}

	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.prober.Health(probeCtx)
	if err != nil && ctx.Err() != nil {
		return
	}
	if err != nil {
		m.logger.Debug("connectivity probe failed", zap.Error(err))
	}
	m.Report(err == nil, "probe")
}
