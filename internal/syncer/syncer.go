// Package syncer owns the two sync directions: pulling authoritative
// entities into the cache and pushing queued attendance marks out. At most
// one sync runs at a time per device process.
package syncer

import (
	"context"
	"sync"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/localstore"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/logger"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/remote"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"

	"github.com/rs/zerolog"
)

type Syncer struct {
	puller *Puller
	pusher *Pusher
	local  *localstore.Store

	// Guards pull and push. Concurrent pushes could race on the synced
	// flags, so a second sync attempt is rejected, not queued.
	mu sync.Mutex

	log zerolog.Logger
}

func New(local *localstore.Store, rs remote.Store) *Syncer {
	return &Syncer{
		puller: NewPuller(local, rs),
		pusher: NewPusher(local, rs),
		local:  local,
		log:    logger.Component("syncer"),
	}
}

// Pull runs a single pull for schoolID.
func (s *Syncer) Pull(ctx context.Context, schoolID string) (*model.PullResult, error) {
	if !s.mu.TryLock() {
		return nil, apperrors.ErrSyncInProgress
	}
	defer s.mu.Unlock()

	return s.puller.Pull(ctx, schoolID)
}

// Push drains the unsynced attendance queue.
func (s *Syncer) Push(ctx context.Context) (*model.PushResult, error) {
	if !s.mu.TryLock() {
		return nil, apperrors.ErrSyncInProgress
	}
	defer s.mu.Unlock()

	return s.pusher.Push(ctx)
}

// Sync runs a full cycle: pull, then push. A pull failure aborts the cycle
// before any push.
func (s *Syncer) Sync(ctx context.Context, schoolID string) (*model.PullResult, *model.PushResult, error) {
	if !s.mu.TryLock() {
		return nil, nil, apperrors.ErrSyncInProgress
	}
	defer s.mu.Unlock()

	pullRes, err := s.puller.Pull(ctx, schoolID)
	if err != nil {
		return pullRes, nil, err
	}

	pushRes, err := s.pusher.Push(ctx)
	return pullRes, pushRes, err
}

// UnsyncedCount reports the queued attendance backlog.
func (s *Syncer) UnsyncedCount(ctx context.Context) (int, error) {
	return s.local.CountUnsynced(ctx)
}
