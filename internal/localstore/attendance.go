package localstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"
)

// UpsertAttendance records a mark. Conflict target is (student_id, date): an
// existing row for the pair keeps its id and is overwritten in place, so the
// at-most-one-record-per-student-per-day invariant holds without any
// insert-then-update branching.
func (s *Store) UpsertAttendance(ctx context.Context, rec *model.AttendanceRecord) error {
	query := `INSERT INTO attendance (id, student_id, class_id, date, status, updated_at, teacher_name, synced)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(student_id, date) DO UPDATE SET
				class_id = excluded.class_id,
				status = excluded.status,
				updated_at = excluded.updated_at,
				teacher_name = excluded.teacher_name,
				synced = excluded.synced`

	return s.exec(ctx, "upsert attendance", query,
		rec.ID, rec.StudentID, rec.ClassID, rec.Date, rec.Status,
		rec.UpdatedAt, rec.TeacherName, boolToInt(rec.Synced))
}

// GetAttendance returns the records for one class on one calendar day.
func (s *Store) GetAttendance(ctx context.Context, classID, date string) ([]model.AttendanceRecord, error) {
	query := `SELECT id, student_id, class_id, date, status, updated_at, teacher_name, synced
			  FROM attendance WHERE class_id = ? AND date = ?`

	return s.queryAttendance(ctx, query, classID, date)
}

// GetAllAttendance returns every record for a class across all dates.
func (s *Store) GetAllAttendance(ctx context.Context, classID string) ([]model.AttendanceRecord, error) {
	query := `SELECT id, student_id, class_id, date, status, updated_at, teacher_name, synced
			  FROM attendance WHERE class_id = ? ORDER BY date`

	return s.queryAttendance(ctx, query, classID)
}

// GetAttendanceByStudentDate fetches the single record for a (student, day)
// pair.
func (s *Store) GetAttendanceByStudentDate(ctx context.Context, studentID, date string) (*model.AttendanceRecord, error) {
	query := `SELECT id, student_id, class_id, date, status, updated_at, teacher_name, synced
			  FROM attendance WHERE student_id = ? AND date = ?`

	var rec model.AttendanceRecord
	var synced int
	err := s.db.QueryRowContext(ctx, query, studentID, date).Scan(
		&rec.ID, &rec.StudentID, &rec.ClassID, &rec.Date, &rec.Status,
		&rec.UpdatedAt, &rec.TeacherName, &synced)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Synced = synced != 0
	return &rec, nil
}

// ListUnsynced returns every record still waiting for a confirmed remote
// write.
func (s *Store) ListUnsynced(ctx context.Context) ([]model.AttendanceRecord, error) {
	query := `SELECT id, student_id, class_id, date, status, updated_at, teacher_name, synced
			  FROM attendance WHERE synced = 0`

	return s.queryAttendance(ctx, query)
}

func (s *Store) CountUnsynced(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance WHERE synced = 0`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkSynced flips the synced flag for exactly the given record ids. Only
// records whose remote upsert was confirmed belong here; everything else
// stays at synced=0 for the next push.
func (s *Store) MarkSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	query := `UPDATE attendance SET synced = 1 WHERE id IN (` +
		placeholders[:len(placeholders)-1] + `)`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return s.exec(ctx, "mark synced", query, args...)
}

func (s *Store) DeleteAttendance(ctx context.Context, id string) error {
	return s.exec(ctx, "delete attendance", `DELETE FROM attendance WHERE id = ?`, id)
}

func (s *Store) queryAttendance(ctx context.Context, query string, args ...interface{}) ([]model.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		var synced int
		err := rows.Scan(&rec.ID, &rec.StudentID, &rec.ClassID, &rec.Date,
			&rec.Status, &rec.UpdatedAt, &rec.TeacherName, &synced)
		if err != nil {
			return nil, err
		}
		rec.Synced = synced != 0
		records = append(records, rec)
	}

	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
