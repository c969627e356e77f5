// Package health tracks reachability of the session bridge so that load
// balancers can route around a gateway whose sidecar is down.
package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Pinger must return nil when the dependency is reachable.
type Pinger interface {
	HealthPing(ctx context.Context) error
}

// Monitor polls a Pinger and caches the result as a single health flag.
type Monitor struct {
	pinger  Pinger
	healthy atomic.Bool
	log     zerolog.Logger
}

func NewMonitor(pinger Pinger, log zerolog.Logger) *Monitor {
	return &Monitor{pinger: pinger, log: log}
}

// IsHealthy returns the cached flag. It never blocks on the dependency.
func (m *Monitor) IsHealthy() bool { return m.healthy.Load() }

// Start polls until ctx is cancelled, logging transitions.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var prev, started bool
	eval := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := m.pinger.HealthPing(pingCtx)
		cancel()
		cur := err == nil
		m.healthy.Store(cur)
		if !started || cur != prev {
			if cur {
				m.log.Info().Msg("bridge health: UP")
			} else {
				m.log.Error().Err(err).Msg("bridge health: DOWN")
			}
			prev = cur
			started = true
		}
	}

	eval()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			eval()
		}
	}
}

// HTTPPinger checks a dependency by fetching a URL and expecting a 2xx.
type HTTPPinger struct {
	URL    string
	Client *http.Client
}

func (p HTTPPinger) HealthPing(ctx context.Context) error {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// StatusError reports a non-2xx health response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return http.StatusText(e.Code)
}
