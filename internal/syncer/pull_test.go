package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/localstore"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/remote"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *localstore.Store {
	t.Helper()

	local, err := localstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })
	require.NoError(t, local.Migrate(context.Background()))
	return local
}

func seedRemote(mem *remote.Memory) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	classID := "c1"

	mem.SeedSchool(model.School{
		ID: "s1", Name: "Hilltop Primary", Email: "admin@hilltop.example",
		Password: "secret", CreatedAt: created,
	})
	mem.SeedClass(model.Class{ID: "c1", SchoolID: "s1", Name: "5A", CreatedAt: created})
	mem.SeedStudent(model.Student{ID: "st1", Name: "Ada", ClassID: &classID, SchoolID: "s1"})
}

func TestPullCopiesSchoolClassesStudents(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedRemote(mem)
	ctx := context.Background()

	result, err := NewPuller(local, mem).Pull(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Classes)
	assert.Equal(t, 1, result.Students)

	school, err := local.GetSchoolByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Hilltop Primary", school.Name)

	classes, err := local.GetClasses(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "c1", classes[0].ID)

	students, err := local.GetStudents(ctx, "s1", nil)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "st1", students[0].ID)
}

func TestPullIsIdempotent(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedRemote(mem)
	ctx := context.Background()

	puller := NewPuller(local, mem)
	_, err := puller.Pull(ctx, "s1")
	require.NoError(t, err)

	firstClasses, err := local.GetClasses(ctx, "s1")
	require.NoError(t, err)
	firstStudents, err := local.GetStudents(ctx, "s1", nil)
	require.NoError(t, err)

	_, err = puller.Pull(ctx, "s1")
	require.NoError(t, err)

	secondClasses, err := local.GetClasses(ctx, "s1")
	require.NoError(t, err)
	secondStudents, err := local.GetStudents(ctx, "s1", nil)
	require.NoError(t, err)

	assert.Equal(t, firstClasses, secondClasses)
	assert.Equal(t, firstStudents, secondStudents)
}

func TestPullUnknownSchoolFailsFast(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedRemote(mem)
	ctx := context.Background()

	_, err := NewPuller(local, mem).Pull(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = local.GetSchoolByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPullAbortsAfterClassFetchFailure(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedRemote(mem)
	mem.FailClassFetches(true)
	ctx := context.Background()

	_, err := NewPuller(local, mem).Pull(ctx, "s1")
	require.Error(t, err)

	// The completed school step stays committed.
	_, err = local.GetSchoolByID(ctx, "s1")
	assert.NoError(t, err)

	// Later steps were never attempted.
	students, err := local.GetStudents(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestPullAbortsAfterStudentFetchFailure(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedRemote(mem)
	mem.FailStudentFetches(true)
	ctx := context.Background()

	result, err := NewPuller(local, mem).Pull(ctx, "s1")
	require.Error(t, err)

	// Classes were applied before the failing step.
	assert.Equal(t, 1, result.Classes)
	classes, err := local.GetClasses(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, classes, 1)
}

func TestPullDoesNotTouchAttendance(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedRemote(mem)
	ctx := context.Background()

	rec := model.AttendanceRecord{
		ID: "a1", StudentID: "st1", ClassID: "c1", Date: "2024-01-01",
		Status: model.StatusPresent, UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, local.UpsertAttendance(ctx, &rec))

	_, err := NewPuller(local, mem).Pull(ctx, "s1")
	require.NoError(t, err)

	count, err := local.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
