package backend

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthProber periodically pings every registered backend and updates
// the registry health table. It owns all transitions except the
// router's healthy-to-degraded fast path, and it is the only component
// that can recover a backend or mark it unavailable.
type HealthProber struct {
	registry *Registry
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	failures map[string]int
}

func NewHealthProber(registry *Registry, interval, timeout time.Duration, logger *zap.Logger) *HealthProber {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthProber{
		registry: registry,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		failures: make(map[string]int),
	}
}

// Start launches the probe loop. It is a no-op if already running.
func (p *HealthProber) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go p.loop(loopCtx, done)
}

// Stop halts the probe loop and waits for it to exit.
func (p *HealthProber) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// loop owns the done channel it is handed; Stop may clear p.done
// before the goroutine is scheduled.
func (p *HealthProber) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.ProbeOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProbeOnce(ctx)
		}
	}
}

// ProbeOnce pings every backend once and applies health transitions:
// success recovers to healthy, one failure degrades, two consecutive
// failures mark unavailable.
func (p *HealthProber) ProbeOnce(ctx context.Context) {
	for _, b := range p.registry.Ordered() {
		name := b.Name()

		pingCtx, cancel := context.WithTimeout(ctx, p.timeout)
		err := b.Ping(pingCtx)
		cancel()

		if err == nil {
			p.mu.Lock()
			p.failures[name] = 0
			p.mu.Unlock()
			if p.registry.Health(name) != HealthHealthy {
				p.logger.Info("backend recovered", zap.String("backend", name))
			}
			p.registry.SetHealth(name, HealthHealthy)
			continue
		}

		p.mu.Lock()
		p.failures[name]++
		count := p.failures[name]
		p.mu.Unlock()

		status := HealthDegraded
		if count >= 2 {
			status = HealthUnavailable
		}
		p.registry.SetHealth(name, status)

		if errors.Is(err, context.DeadlineExceeded) {
			p.logger.Warn("backend probe timeout",
				zap.String("backend", name),
				zap.Int("consecutive_failures", count),
				zap.String("health", string(status)),
			)
		} else {
			p.logger.Warn("backend probe failed",
				zap.String("backend", name),
				zap.Int("consecutive_failures", count),
				zap.String("health", string(status)),
				zap.Error(err),
			)
		}
	}
}
