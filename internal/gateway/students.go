package gateway

import (
	"context"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"
)

// GetStudents is local-first with the same remote fallback as GetClasses.
// classID narrows the roster to one class when non-nil.
func (g *Gateway) GetStudents(ctx context.Context, schoolID string, classID *string) ([]model.Student, error) {
	students, err := g.local.GetStudents(ctx, schoolID, classID)
	if err == nil && len(students) > 0 {
		return students, nil
	}

	if !g.oracle.IsOnline(ctx) {
		return students, nil
	}

	return g.remote.GetStudents(ctx, schoolID, classID)
}

func (g *Gateway) AddStudent(ctx context.Context, student *model.Student) (*model.Student, error) {
	if student.Name == "" {
		return nil, apperrors.ValidationError{Field: "name", Value: student.Name, Message: "student name is required"}
	}
	if student.SchoolID == "" {
		return nil, apperrors.ValidationError{Field: "school_id", Value: student.SchoolID, Message: "school is required"}
	}
	if !g.oracle.IsOnline(ctx) {
		return nil, apperrors.ErrNoConnection
	}

	return g.remote.CreateStudent(ctx, student)
}

// UploadStudents registers an already-parsed roster batch with the authority.
func (g *Gateway) UploadStudents(ctx context.Context, schoolID string, rows []model.StudentBatchRow) ([]model.Student, error) {
	if len(rows) == 0 {
		return nil, apperrors.ValidationError{Field: "students", Value: len(rows), Message: "batch is empty"}
	}
	for _, row := range rows {
		if row.Name == "" {
			return nil, apperrors.ValidationError{Field: "name", Value: row.Name, Message: "every student needs a name"}
		}
	}
	if !g.oracle.IsOnline(ctx) {
		return nil, apperrors.ErrNoConnection
	}

	return g.remote.CreateStudents(ctx, schoolID, rows)
}

func (g *Gateway) UpdateStudent(ctx context.Context, student *model.Student) error {
	if student.ID == "" {
		return apperrors.ValidationError{Field: "id", Value: student.ID, Message: "student id is required"}
	}
	if !g.oracle.IsOnline(ctx) {
		return apperrors.ErrNoConnection
	}

	return g.remote.UpdateStudent(ctx, student)
}

// DeleteStudent removes the student remotely and drops the cached copy, since
// pulls upsert and would never clear it.
func (g *Gateway) DeleteStudent(ctx context.Context, id string) error {
	if !g.oracle.IsOnline(ctx) {
		return apperrors.ErrNoConnection
	}

	if err := g.remote.DeleteStudent(ctx, id); err != nil {
		return err
	}

	return g.local.DeleteStudent(ctx, id)
}
