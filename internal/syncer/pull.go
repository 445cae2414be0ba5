package syncer

import (
	"context"
	"fmt"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/localstore"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/logger"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/remote"

	"github.com/rs/zerolog"
)

// Puller copies the authoritative entities for one school into the local
// cache: school, then classes, then students. Every row is an independent
// idempotent upsert, so an interrupted pull is safe to rerun and readers
// concurrent with a pull see at worst a partially refreshed list, never a
// corrupted record.
type Puller struct {
	local  *localstore.Store
	remote remote.Store
	log    zerolog.Logger
}

func NewPuller(local *localstore.Store, rs remote.Store) *Puller {
	return &Puller{
		local:  local,
		remote: rs,
		log:    logger.Component("pull"),
	}
}

// Pull fails fast on the first remote fetch error; upserts already applied
// by completed steps stay committed. Attendance and teacher identity are
// never touched.
func (p *Puller) Pull(ctx context.Context, schoolID string) (*model.PullResult, error) {
	p.log.Info().Str("school_id", schoolID).Msg("Starting pull")

	school, err := p.remote.GetSchoolByID(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch school %s: %w", schoolID, err)
	}
	if err := p.local.UpsertSchool(ctx, school); err != nil {
		return nil, err
	}

	classes, err := p.remote.GetClasses(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch classes: %w", err)
	}
	result := &model.PullResult{}
	for i := range classes {
		if err := p.local.UpsertClass(ctx, &classes[i]); err != nil {
			return result, err
		}
		result.Classes++
	}

	students, err := p.remote.GetStudents(ctx, schoolID, nil)
	if err != nil {
		return result, fmt.Errorf("failed to fetch students: %w", err)
	}
	for i := range students {
		if err := p.local.UpsertStudent(ctx, &students[i]); err != nil {
			return result, err
		}
		result.Students++
	}

	p.log.Info().
		Int("classes", result.Classes).
		Int("students", result.Students).
		Msg("Pull completed")

	return result, nil
}
