package localstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	// One connection per store keeps each test on its own private memory DB.
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	// A second migration must not fail or reset data.
	ctx := context.Background()
	require.NoError(t, store.UpsertSchool(ctx, &model.School{
		ID: "s1", Name: "Hilltop", Email: "hilltop@example.com", Password: "pw",
		CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, store.Migrate(ctx))

	school, err := store.GetSchoolByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Hilltop", school.Name)
}

func TestUpsertSchoolOverwritesByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertSchool(ctx, &model.School{
		ID: "s1", Name: "Old Name", Email: "old@example.com", Password: "pw", CreatedAt: created,
	}))
	require.NoError(t, store.UpsertSchool(ctx, &model.School{
		ID: "s1", Name: "New Name", Email: "new@example.com", Password: "pw2", CreatedAt: created,
	}))

	school, err := store.GetSchoolByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "s1", school.ID)
	assert.Equal(t, "New Name", school.Name)

	_, err = store.GetSchoolByEmail(ctx, "old@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpsertClassAndQueryBySchool(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertClass(ctx, &model.Class{ID: "c1", SchoolID: "s1", Name: "5A", CreatedAt: created}))
	require.NoError(t, store.UpsertClass(ctx, &model.Class{ID: "c2", SchoolID: "s1", Name: "5B", CreatedAt: created}))
	require.NoError(t, store.UpsertClass(ctx, &model.Class{ID: "c3", SchoolID: "s2", Name: "6A", CreatedAt: created}))

	classes, err := store.GetClasses(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, classes, 2)

	// Overwrite keeps the row count stable.
	require.NoError(t, store.UpsertClass(ctx, &model.Class{ID: "c1", SchoolID: "s1", Name: "5A renamed", CreatedAt: created}))
	classes, err = store.GetClasses(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, classes, 2)
}

func TestGetStudentsFiltersByClass(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	classID := "c1"
	require.NoError(t, store.UpsertStudent(ctx, &model.Student{ID: "st1", Name: "Ada", ClassID: &classID, SchoolID: "s1"}))
	require.NoError(t, store.UpsertStudent(ctx, &model.Student{ID: "st2", Name: "Ben", SchoolID: "s1"}))

	all, err := store.GetStudents(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inClass, err := store.GetStudents(ctx, "s1", &classID)
	require.NoError(t, err)
	require.Len(t, inClass, 1)
	assert.Equal(t, "st1", inClass[0].ID)
}

func TestAttendanceUpsertKeepsOneRecordPerStudentDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := model.AttendanceRecord{
		ID: "a1", StudentID: "st1", ClassID: "c1", Date: "2024-01-01",
		Status: model.StatusPresent, UpdatedAt: time.Now().UTC(), Synced: false,
	}
	require.NoError(t, store.UpsertAttendance(ctx, &first))

	// Re-mark with a different status and id for the same pair.
	second := first
	second.ID = "a2"
	second.Status = model.StatusLate
	require.NoError(t, store.UpsertAttendance(ctx, &second))

	records, err := store.GetAttendance(ctx, "c1", "2024-01-01")
	require.NoError(t, err)
	require.Len(t, records, 1)

	// The original row survives with the new status.
	assert.Equal(t, "a1", records[0].ID)
	assert.Equal(t, model.StatusLate, records[0].Status)
	assert.False(t, records[0].Synced)
}

func TestAttendanceRemarkResetsSyncedFlag(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := model.AttendanceRecord{
		ID: "a1", StudentID: "st1", ClassID: "c1", Date: "2024-01-01",
		Status: model.StatusPresent, UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.UpsertAttendance(ctx, &rec))
	require.NoError(t, store.MarkSynced(ctx, []string{"a1"}))

	count, err := store.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// A new local mark re-queues the record.
	rec.Status = model.StatusAbsent
	require.NoError(t, store.UpsertAttendance(ctx, &rec))

	count, err = store.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkSyncedFlipsOnlyGivenIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"a1", "a2", "a3"} {
		rec := model.AttendanceRecord{
			ID: id, StudentID: "st" + id, ClassID: "c1",
			Date:   fmt.Sprintf("2024-01-0%d", i+1),
			Status: model.StatusPresent, UpdatedAt: time.Now().UTC(),
		}
		require.NoError(t, store.UpsertAttendance(ctx, &rec))
	}

	require.NoError(t, store.MarkSynced(ctx, []string{"a1", "a3"}))

	pending, err := store.ListUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "a2", pending[0].ID)
}

func TestMarkSyncedWithNoIDsIsNoop(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.MarkSynced(context.Background(), nil))
}

func TestTeacherIdentityOnePerSchool(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertTeacherIdentity(ctx, &model.TeacherIdentity{ID: "t1", SchoolID: "s1", Name: "Ms. Okello"}))
	require.NoError(t, store.UpsertTeacherIdentity(ctx, &model.TeacherIdentity{ID: "t2", SchoolID: "s1", Name: "Mr. Ssali"}))

	name, err := store.GetTeacherName(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Mr. Ssali", name)

	// Absent identity is empty, not an error.
	name, err = store.GetTeacherName(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, name)
}
