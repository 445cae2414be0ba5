package gateway

import (
	"context"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"
)

// GetClasses is local-first: the cache answers unless it has nothing for the
// school and we happen to be online, in which case the remote list is
// returned as-is. Persisting it locally is the pull synchronizer's job, not
// a read side effect.
func (g *Gateway) GetClasses(ctx context.Context, schoolID string) ([]model.Class, error) {
	classes, err := g.local.GetClasses(ctx, schoolID)
	if err == nil && len(classes) > 0 {
		return classes, nil
	}

	if !g.oracle.IsOnline(ctx) {
		// No cached data and no network: empty, not an error.
		return classes, nil
	}

	return g.remote.GetClasses(ctx, schoolID)
}

// AddClass creates a class remotely; the authority assigns the id. There is
// no offline queue for classes.
func (g *Gateway) AddClass(ctx context.Context, schoolID, name string) (*model.Class, error) {
	if name == "" {
		return nil, apperrors.ValidationError{Field: "name", Value: name, Message: "class name is required"}
	}
	if !g.oracle.IsOnline(ctx) {
		return nil, apperrors.ErrNoConnection
	}

	// The cache copy arrives with the next pull; the gateway does not write
	// authoritative entities locally.
	return g.remote.CreateClass(ctx, schoolID, name)
}

// DeleteClass removes the class remotely and drops the cached copy. Pull is
// upsert-only, so the local row would otherwise outlive the remote one.
func (g *Gateway) DeleteClass(ctx context.Context, id string) error {
	if !g.oracle.IsOnline(ctx) {
		return apperrors.ErrNoConnection
	}

	if err := g.remote.DeleteClass(ctx, id); err != nil {
		return err
	}

	return g.local.DeleteClass(ctx, id)
}
