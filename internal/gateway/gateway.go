// Package gateway routes every read and write to the local cache or the
// remote authority, based on connectivity and a per-entity policy. It never
// retries on its own; retries belong to the synchronizers or the caller.
package gateway

import (
	"sync"
	"time"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/connectivity"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/localstore"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/logger"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/remote"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"

	"github.com/rs/zerolog"
)

// Session is the logged-in school context. Created by Login, destroyed by
// Logout.
type Session struct {
	SchoolID   string    `json:"school_id"`
	SchoolName string    `json:"school_name"`
	Email      string    `json:"email"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

type Gateway struct {
	local  *localstore.Store
	remote remote.Store
	oracle *connectivity.Oracle
	log    zerolog.Logger

	mu      sync.RWMutex
	session *Session
}

func New(local *localstore.Store, rs remote.Store, oracle *connectivity.Oracle) *Gateway {
	return &Gateway{
		local:  local,
		remote: rs,
		oracle: oracle,
		log:    logger.Component("gateway"),
	}
}

// Session returns the active session.
func (g *Gateway) Session() (*Session, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.session == nil {
		return nil, apperrors.ErrNotLoggedIn
	}
	s := *g.session
	return &s, nil
}

// Logout tears the session down. Local data stays; it belongs to the device,
// not the session.
func (g *Gateway) Logout() {
	g.mu.Lock()
	g.session = nil
	g.mu.Unlock()

	g.log.Info().Msg("Session ended")
}

func (g *Gateway) setSession(s *Session) {
	g.mu.Lock()
	g.session = s
	g.mu.Unlock()
}
