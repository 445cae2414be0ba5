// Package remote talks to the authoritative store. The authority owns
// identity generation for schools, classes and students; the device stores
// whatever ids it hands back.
package remote

import (
	"context"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
)

// AttendanceUpsert is the payload for the authority's upsert-attendance
// operation, keyed remotely on (student_id, date). Retrying the same record
// is safe.
type AttendanceUpsert struct {
	StudentID   string                 `json:"student_id"`
	ClassID     string                 `json:"class_id"`
	Date        string                 `json:"date"`
	Status      model.AttendanceStatus `json:"status"`
	TeacherName string                 `json:"teacher_name,omitempty"`
	UpdatedAt   string                 `json:"updated_at"`
}

type Store interface {
	GetSchools(ctx context.Context) ([]model.School, error)
	GetSchoolByID(ctx context.Context, id string) (*model.School, error)
	GetSchoolByEmail(ctx context.Context, email string) (*model.School, error)

	GetClasses(ctx context.Context, schoolID string) ([]model.Class, error)
	CreateClass(ctx context.Context, schoolID, name string) (*model.Class, error)
	DeleteClass(ctx context.Context, id string) error

	GetStudents(ctx context.Context, schoolID string, classID *string) ([]model.Student, error)
	CreateStudent(ctx context.Context, student *model.Student) (*model.Student, error)
	CreateStudents(ctx context.Context, schoolID string, rows []model.StudentBatchRow) ([]model.Student, error)
	UpdateStudent(ctx context.Context, student *model.Student) error
	DeleteStudent(ctx context.Context, id string) error

	GetAttendance(ctx context.Context, classID, date string) ([]model.AttendanceRecord, error)
	GetAllAttendance(ctx context.Context, classID string) ([]model.AttendanceRecord, error)
	UpsertAttendance(ctx context.Context, up AttendanceUpsert) error
}
