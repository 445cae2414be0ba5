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

func queueMark(t *testing.T, local *localstore.Store, id, studentID, classID, date string) {
	t.Helper()

	rec := model.AttendanceRecord{
		ID: id, StudentID: studentID, ClassID: classID, Date: date,
		Status: model.StatusPresent, UpdatedAt: time.Now().UTC(), Synced: false,
	}
	require.NoError(t, local.UpsertAttendance(context.Background(), &rec))
}

func seedLocalClass(t *testing.T, local *localstore.Store) {
	t.Helper()

	require.NoError(t, local.UpsertClass(context.Background(), &model.Class{
		ID: "c1", SchoolID: "s1", Name: "5A", CreatedAt: time.Now().UTC(),
	}))
}

func TestPushEmptyQueueIsNoop(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()

	result, err := NewPusher(local, mem).Push(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Pushed)
	assert.Empty(t, result.Failures)
}

func TestPushDrainsQueueAndMarksSynced(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedLocalClass(t, local)
	queueMark(t, local, "a1", "st1", "c1", "2024-01-01")
	queueMark(t, local, "a2", "st2", "c1", "2024-01-01")
	ctx := context.Background()

	result, err := NewPusher(local, mem).Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Pushed)
	assert.Empty(t, result.Failures)

	count, err := local.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, ok := mem.AttendanceFor("st1", "2024-01-01")
	assert.True(t, ok)
	_, ok = mem.AttendanceFor("st2", "2024-01-01")
	assert.True(t, ok)
}

func TestPushMarksOnlyConfirmedRecords(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedLocalClass(t, local)
	queueMark(t, local, "a1", "st1", "c1", "2024-01-01")
	queueMark(t, local, "a2", "st2", "c1", "2024-01-01")
	mem.FailUpsertFor("st2", "2024-01-01")
	ctx := context.Background()

	pusher := NewPusher(local, mem)
	result, err := pusher.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pushed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "a2", result.Failures[0].RecordID)

	pending, err := local.ListUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "a2", pending[0].ID)

	// The failed record is retried and drained once the remote recovers.
	mem.ClearFailures()
	result, err = pusher.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pushed)

	count, err := local.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPushIsIdempotentOnRetry(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedLocalClass(t, local)
	queueMark(t, local, "a1", "st1", "c1", "2024-01-01")
	ctx := context.Background()

	pusher := NewPusher(local, mem)
	_, err := pusher.Push(ctx)
	require.NoError(t, err)

	// Re-queue the same pair and push again: the remote keeps one record.
	queueMark(t, local, "a1", "st1", "c1", "2024-01-01")
	_, err = pusher.Push(ctx)
	require.NoError(t, err)

	records, err := mem.GetAttendance(ctx, "c1", "2024-01-01")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPushSkipsGroupWithUnknownClass(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedLocalClass(t, local)
	queueMark(t, local, "a1", "st1", "c1", "2024-01-01")
	queueMark(t, local, "a2", "st2", "ghost", "2024-01-01")
	ctx := context.Background()

	result, err := NewPusher(local, mem).Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pushed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "a2", result.Failures[0].RecordID)

	// The skipped group keeps its retry opportunity.
	pending, err := local.ListUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "a2", pending[0].ID)
}

func TestPushTeacherAttribution(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedLocalClass(t, local)
	ctx := context.Background()

	require.NoError(t, local.UpsertTeacherIdentity(ctx, &model.TeacherIdentity{
		ID: "t1", SchoolID: "s1", Name: "Mr. Ssali",
	}))

	// One record with a mark-time snapshot, one without.
	snap := model.AttendanceRecord{
		ID: "a1", StudentID: "st1", ClassID: "c1", Date: "2024-01-01",
		Status: model.StatusPresent, UpdatedAt: time.Now().UTC(), TeacherName: "Ms. Okello",
	}
	require.NoError(t, local.UpsertAttendance(ctx, &snap))
	queueMark(t, local, "a2", "st2", "c1", "2024-01-01")

	_, err := NewPusher(local, mem).Push(ctx)
	require.NoError(t, err)

	withSnapshot, ok := mem.AttendanceFor("st1", "2024-01-01")
	require.True(t, ok)
	assert.Equal(t, "Ms. Okello", withSnapshot.TeacherName)

	withFallback, ok := mem.AttendanceFor("st2", "2024-01-01")
	require.True(t, ok)
	assert.Equal(t, "Mr. Ssali", withFallback.TeacherName)
}

func TestPushWithoutTeacherIdentityLeavesNameEmpty(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedLocalClass(t, local)
	queueMark(t, local, "a1", "st1", "c1", "2024-01-01")

	result, err := NewPusher(local, mem).Push(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pushed)

	rec, ok := mem.AttendanceFor("st1", "2024-01-01")
	require.True(t, ok)
	assert.Empty(t, rec.TeacherName)
}

// blockingStore parks the first attendance upsert until released, so a test
// can hold a sync mid-flight.
type blockingStore struct {
	remote.Store
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) UpsertAttendance(ctx context.Context, up remote.AttendanceUpsert) error {
	b.entered <- struct{}{}
	<-b.release
	return b.Store.UpsertAttendance(ctx, up)
}

func TestSyncerRejectsConcurrentSync(t *testing.T) {
	local := newLocal(t)
	mem := remote.NewMemory()
	seedLocalClass(t, local)
	queueMark(t, local, "a1", "st1", "c1", "2024-01-01")

	blocking := &blockingStore{
		Store:   mem,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	syn := New(local, blocking)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := syn.Push(ctx)
		done <- err
	}()

	<-blocking.entered

	_, err := syn.Push(ctx)
	assert.ErrorIs(t, err, apperrors.ErrSyncInProgress)

	close(blocking.release)
	require.NoError(t, <-done)

	// The lock is free again afterwards.
	_, err = syn.Push(ctx)
	assert.NoError(t, err)
}
