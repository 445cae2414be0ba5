package syncer

import (
	"context"
	"time"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/localstore"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/logger"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/remote"

	"github.com/rs/zerolog"
)

// Pusher drains unsynced attendance marks to the remote store. Records are
// grouped by class so the owning school and its teacher identity are
// resolved once per group. A record is flagged synced only after its own
// remote upsert succeeded; anything that failed stays queued for the next
// push.
type Pusher struct {
	local  *localstore.Store
	remote remote.Store
	log    zerolog.Logger
}

func NewPusher(local *localstore.Store, rs remote.Store) *Pusher {
	return &Pusher{
		local:  local,
		remote: rs,
		log:    logger.Component("push"),
	}
}

func (p *Pusher) Push(ctx context.Context) (*model.PushResult, error) {
	records, err := p.local.ListUnsynced(ctx)
	if err != nil {
		return nil, err
	}

	result := &model.PushResult{}
	if len(records) == 0 {
		p.log.Debug().Msg("Nothing to push")
		return result, nil
	}

	p.log.Info().Int("pending", len(records)).Msg("Starting push")

	groups := make(map[string][]model.AttendanceRecord)
	for _, rec := range records {
		groups[rec.ClassID] = append(groups[rec.ClassID], rec)
	}

	var confirmed []string
	for classID, group := range groups {
		class, err := p.local.GetClassByID(ctx, classID)
		if err != nil {
			// Unknown class: leave the whole group queued rather than push
			// records we cannot attribute to a school.
			p.log.Warn().
				Str("class_id", classID).
				Int("records", len(group)).
				Msg("Class missing locally, skipping group")
			for _, rec := range group {
				result.Failures = append(result.Failures, model.PushFailure{
					RecordID:  rec.ID,
					StudentID: rec.StudentID,
					ClassID:   rec.ClassID,
					Date:      rec.Date,
					Reason:    "class not found in local cache",
				})
			}
			continue
		}

		// Fallback attribution for records marked before a teacher identity
		// existed; marks made after carry their own snapshot.
		fallbackName, err := p.local.GetTeacherName(ctx, class.SchoolID)
		if err != nil {
			fallbackName = ""
		}

		for _, rec := range group {
			name := rec.TeacherName
			if name == "" {
				name = fallbackName
			}

			up := remote.AttendanceUpsert{
				StudentID:   rec.StudentID,
				ClassID:     rec.ClassID,
				Date:        rec.Date,
				Status:      rec.Status,
				TeacherName: name,
				UpdatedAt:   rec.UpdatedAt.UTC().Format(time.RFC3339),
			}

			if err := p.remote.UpsertAttendance(ctx, up); err != nil {
				p.log.Error().
					Err(err).
					Str("student_id", rec.StudentID).
					Str("date", rec.Date).
					Msg("Remote upsert failed")
				result.Failures = append(result.Failures, model.PushFailure{
					RecordID:  rec.ID,
					StudentID: rec.StudentID,
					ClassID:   rec.ClassID,
					Date:      rec.Date,
					Reason:    err.Error(),
				})
				continue
			}

			confirmed = append(confirmed, rec.ID)
			result.Pushed++
		}
	}

	if err := p.local.MarkSynced(ctx, confirmed); err != nil {
		// The remote writes landed but the flags did not flip; the next push
		// redoes them, which the remote upsert absorbs.
		return result, err
	}

	p.log.Info().
		Int("pushed", result.Pushed).
		Int("failed", len(result.Failures)).
		Msg("Push completed")

	return result, nil
}
