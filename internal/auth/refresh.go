package auth

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Start runs the expiry check once and then on every interval tick until
// Close is called or ctx is done. A second Start while running is a no-op.
func (m *Manager) Start(ctx context.Context) {
	m.loopMu.Lock()
	defer m.loopMu.Unlock()
	if m.stop != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	m.stop = cancel
	m.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.checkExpiry(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.checkExpiry(ctx)
			}
		}
	}(m.done)

	m.log.Info("token refresh loop started",
		zap.Duration("interval", m.interval),
		zap.Duration("threshold", m.threshold),
	)
}

// Close stops the refresh loop and waits for it to exit.
func (m *Manager) Close() {
	m.loopMu.Lock()
	stop, done := m.stop, m.done
	m.stop, m.done = nil, nil
	m.loopMu.Unlock()

	if stop == nil {
		return
	}
	stop()
	<-done
}

func (m *Manager) checkExpiry(ctx context.Context) {
	s := m.Session()
	if !s.Authenticated() || s.TokenExpiry.IsZero() {
		return
	}
	remaining := s.TokenExpiry.Sub(m.now())
	if remaining >= m.threshold {
		return
	}
	m.log.Debug("token close to expiry", zap.Duration("remaining", remaining))
	m.RefreshAccessToken(ctx)
}
