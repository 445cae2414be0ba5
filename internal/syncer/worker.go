package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/config"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/connectivity"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/gateway"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/logger"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"

	"github.com/rs/zerolog"
)

// AutoSync triggers a sync cycle when the device comes back online, and
// optionally on a fixed interval. The user-triggered sync path stays
// authoritative; this worker just saves the user a tap after a network
// outage. Single-flight is enforced by the Syncer itself.
type AutoSync struct {
	cfg    config.SyncConfig
	syncer *Syncer
	gw     *gateway.Gateway
	oracle *connectivity.Oracle
	log    zerolog.Logger
}

func NewAutoSync(cfg config.SyncConfig, s *Syncer, gw *gateway.Gateway, oracle *connectivity.Oracle) *AutoSync {
	return &AutoSync{
		cfg:    cfg,
		syncer: s,
		gw:     gw,
		oracle: oracle,
		log:    logger.Component("autosync"),
	}
}

// Start blocks until ctx is cancelled.
func (w *AutoSync) Start(ctx context.Context) error {
	w.log.Info().
		Bool("on_reconnect", w.cfg.AutoSyncOnReconnect).
		Dur("interval", w.cfg.Interval).
		Msg("Starting auto-sync worker")

	events := w.oracle.Subscribe()

	var tick <-chan time.Time
	if w.cfg.Interval > 0 {
		ticker := time.NewTicker(w.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Auto-sync worker stopping")
			return ctx.Err()
		case online := <-events:
			if online && w.cfg.AutoSyncOnReconnect {
				w.log.Info().Msg("Back online, running sync")
				w.runOnce(ctx)
			}
		case <-tick:
			if w.oracle.IsOnline(ctx) {
				w.runOnce(ctx)
			}
		}
	}
}

func (w *AutoSync) runOnce(ctx context.Context) {
	session, err := w.gw.Session()
	if err != nil {
		// Nobody is logged in; nothing to sync for.
		return
	}

	_, pushRes, err := w.syncer.Sync(ctx, session.SchoolID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSyncInProgress) {
			w.log.Debug().Msg("Sync already running, skipping")
			return
		}
		w.log.Error().Err(err).Msg("Auto-sync failed")
		return
	}

	if pushRes != nil && len(pushRes.Failures) > 0 {
		w.log.Warn().Int("failed", len(pushRes.Failures)).Msg("Auto-sync left records queued")
	}
}
