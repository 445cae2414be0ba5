package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"

	"github.com/google/uuid"
)

// GetAttendance reads a class's records for one day, local-first. A remote
// fallback result is returned to the caller but never written into the
// cache, so it cannot masquerade as an unsynced local mark.
func (g *Gateway) GetAttendance(ctx context.Context, classID, date string) ([]model.AttendanceRecord, error) {
	records, err := g.local.GetAttendance(ctx, classID, date)
	if err == nil && len(records) > 0 {
		return records, nil
	}

	if !g.oracle.IsOnline(ctx) {
		return records, nil
	}

	return g.remote.GetAttendance(ctx, classID, date)
}

// GetAllAttendance reads a class's full history with the same policy.
func (g *Gateway) GetAllAttendance(ctx context.Context, classID string) ([]model.AttendanceRecord, error) {
	records, err := g.local.GetAllAttendance(ctx, classID)
	if err == nil && len(records) > 0 {
		return records, nil
	}

	if !g.oracle.IsOnline(ctx) {
		return records, nil
	}

	return g.remote.GetAllAttendance(ctx, classID)
}

// MarkAttendance writes the mark into the local cache, online or not, with
// synced=0. Re-marking the same (student, day) overwrites the status and
// re-queues the record. The teacher name is snapshotted now, so a later
// identity change cannot retroactively re-attribute the mark.
func (g *Gateway) MarkAttendance(ctx context.Context, req model.MarkAttendanceRequest) (*model.AttendanceRecord, error) {
	if req.StudentID == "" {
		return nil, apperrors.ValidationError{Field: "student_id", Value: req.StudentID, Message: "student is required"}
	}
	if req.ClassID == "" {
		return nil, apperrors.ValidationError{Field: "class_id", Value: req.ClassID, Message: "class is required"}
	}
	if !req.Status.Valid() {
		return nil, apperrors.ValidationError{Field: "status", Value: req.Status, Message: "status must be present, absent or late"}
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.ValidationError{Field: "date", Value: req.Date, Message: err.Error()}
	}

	rec := model.AttendanceRecord{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		ClassID:     req.ClassID,
		Date:        date,
		Status:      req.Status,
		UpdatedAt:   time.Now().UTC(),
		TeacherName: g.teacherNameForClass(ctx, req.ClassID),
		Synced:      false,
	}

	if err := g.local.UpsertAttendance(ctx, &rec); err != nil {
		return nil, err
	}

	// The upsert keeps the existing id when the (student, day) pair already
	// had a row; read the stored record back so the caller sees it.
	stored, err := g.local.GetAttendanceByStudentDate(ctx, rec.StudentID, rec.Date)
	if err != nil {
		return &rec, nil
	}
	return stored, nil
}

// UnsyncedCount reports how many marks still await a confirmed push.
func (g *Gateway) UnsyncedCount(ctx context.Context) (int, error) {
	return g.local.CountUnsynced(ctx)
}

// teacherNameForClass resolves the device teacher for the class's school.
// Missing class or identity yields "", never an error; attribution is
// best-effort.
func (g *Gateway) teacherNameForClass(ctx context.Context, classID string) string {
	class, err := g.local.GetClassByID(ctx, classID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			g.log.Warn().Err(err).Str("class_id", classID).Msg("Class lookup failed while resolving teacher")
		}
		return ""
	}

	name, err := g.local.GetTeacherName(ctx, class.SchoolID)
	if err != nil {
		return ""
	}
	return name
}
