// Package connectivity answers "are we online right now". The answer is
// best-effort: a live probe when possible, the last successfully-observed
// value otherwise. The oracle never fails its caller.
package connectivity

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/config"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/logger"

	"github.com/rs/zerolog"
)

// Prober performs one reachability check. online is meaningful only when err
// is nil; a non-nil err means the probe itself was inconclusive (timed out,
// cancelled) and the cached value should be used instead.
type Prober interface {
	Probe(ctx context.Context) (online bool, err error)
}

// HTTPProber checks reachability with a bounded HEAD request against the
// remote's health endpoint.
type HTTPProber struct {
	url    string
	client *http.Client
}

func NewHTTPProber(cfg config.ConnectivityConfig) *HTTPProber {
	return &HTTPProber{
		url: cfg.ProbeURL,
		client: &http.Client{
			Timeout: cfg.ProbeTimeout,
		},
	}
}

func (p *HTTPProber) Probe(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return false, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			// Inconclusive; caller falls back to the last-known value.
			return false, err
		}
		// Definitive network failure: we are offline.
		return false, nil
	}
	resp.Body.Close()

	return true, nil
}

// Oracle caches the last observed connectivity state and fans network-state
// changes out to subscribers.
type Oracle struct {
	prober Prober

	mu        sync.RWMutex
	lastKnown bool
	subs      []chan bool

	log zerolog.Logger
}

func NewOracle(prober Prober) *Oracle {
	return &Oracle{
		prober: prober,
		log:    logger.Component("connectivity"),
	}
}

// IsOnline reports current reachability. Total: a failed probe degrades to
// the cached value, never to an error.
func (o *Oracle) IsOnline(ctx context.Context) bool {
	online, err := o.prober.Probe(ctx)
	if err != nil {
		o.mu.RLock()
		cached := o.lastKnown
		o.mu.RUnlock()

		o.log.Debug().Err(err).Bool("last_known", cached).Msg("Probe inconclusive, using cached state")
		return cached
	}

	o.update(online)
	return online
}

// Notify feeds an asynchronous network-state-changed event into the cache.
// Purely an optimization; correctness does not depend on these events.
func (o *Oracle) Notify(online bool) {
	o.update(online)
}

// Subscribe returns a channel receiving connectivity transitions. Slow
// subscribers miss events rather than block the oracle.
func (o *Oracle) Subscribe() <-chan bool {
	ch := make(chan bool, 1)

	o.mu.Lock()
	o.subs = append(o.subs, ch)
	o.mu.Unlock()

	return ch
}

func (o *Oracle) update(online bool) {
	o.mu.Lock()
	changed := o.lastKnown != online
	o.lastKnown = online
	subs := o.subs
	o.mu.Unlock()

	if !changed {
		return
	}

	o.log.Info().Bool("online", online).Msg("Connectivity state changed")

	for _, ch := range subs {
		select {
		case ch <- online:
		default:
		}
	}
}
