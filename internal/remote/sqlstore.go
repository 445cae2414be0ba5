package remote

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/config"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// SQLStore implements Store against the school's MySQL database directly,
// for deployments without the HTTP API in front.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(cfg *config.Config) (*SQLStore, error) {
	db, err := sql.Open("mysql", cfg.RemoteDSN())
	if err != nil {
		return nil, err
	}

	m := cfg.Remote.MySQL
	db.SetMaxOpenConns(m.MaxConnections)
	db.SetMaxIdleConns(m.MaxIdleConnections)
	db.SetConnMaxLifetime(m.ConnectionLifetime)

	if err := db.Ping(); err != nil {
		return nil, apperrors.NewRetryableError(err, "remote database unreachable")
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) GetSchools(ctx context.Context) ([]model.School, error) {
	query := `SELECT id, name, email, password, address, created_at FROM schools ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewRetryableError(err, "query schools")
	}
	defer rows.Close()

	var schools []model.School
	for rows.Next() {
		var school model.School
		err := rows.Scan(&school.ID, &school.Name, &school.Email, &school.Password,
			&school.Address, &school.CreatedAt)
		if err != nil {
			return nil, err
		}
		schools = append(schools, school)
	}

	return schools, rows.Err()
}

func (s *SQLStore) GetSchoolByID(ctx context.Context, id string) (*model.School, error) {
	query := `SELECT id, name, email, password, address, created_at FROM schools WHERE id = ?`
	return s.scanSchool(s.db.QueryRowContext(ctx, query, id))
}

func (s *SQLStore) GetSchoolByEmail(ctx context.Context, email string) (*model.School, error) {
	query := `SELECT id, name, email, password, address, created_at FROM schools WHERE email = ?`
	return s.scanSchool(s.db.QueryRowContext(ctx, query, email))
}

func (s *SQLStore) scanSchool(row *sql.Row) (*model.School, error) {
	var school model.School
	err := row.Scan(&school.ID, &school.Name, &school.Email, &school.Password,
		&school.Address, &school.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &school, nil
}

func (s *SQLStore) GetClasses(ctx context.Context, schoolID string) ([]model.Class, error) {
	query := `SELECT id, school_id, name, created_at FROM classes WHERE school_id = ? ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, schoolID)
	if err != nil {
		return nil, apperrors.NewRetryableError(err, "query classes")
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var class model.Class
		if err := rows.Scan(&class.ID, &class.SchoolID, &class.Name, &class.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}

	return classes, rows.Err()
}

func (s *SQLStore) CreateClass(ctx context.Context, schoolID, name string) (*model.Class, error) {
	class := model.Class{
		ID:        uuid.NewString(),
		SchoolID:  schoolID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	query := `INSERT INTO classes (id, school_id, name, created_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, class.ID, class.SchoolID, class.Name, class.CreatedAt); err != nil {
		return nil, err
	}
	return &class, nil
}

func (s *SQLStore) DeleteClass(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM classes WHERE id = ?`, id)
	return err
}

func (s *SQLStore) GetStudents(ctx context.Context, schoolID string, classID *string) ([]model.Student, error) {
	query := `SELECT id, name, grade, class_id, school_id FROM students WHERE school_id = ?`
	args := []interface{}{schoolID}
	if classID != nil {
		query += ` AND class_id = ?`
		args = append(args, *classID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewRetryableError(err, "query students")
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var student model.Student
		err := rows.Scan(&student.ID, &student.Name, &student.Grade,
			&student.ClassID, &student.SchoolID)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

func (s *SQLStore) CreateStudent(ctx context.Context, student *model.Student) (*model.Student, error) {
	created := *student
	created.ID = uuid.NewString()

	query := `INSERT INTO students (id, name, grade, class_id, school_id) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, created.ID, created.Name, created.Grade,
		created.ClassID, created.SchoolID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *SQLStore) CreateStudents(ctx context.Context, schoolID string, batchRows []model.StudentBatchRow) ([]model.Student, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `INSERT INTO students (id, name, grade, class_id, school_id) VALUES (?, ?, ?, ?, ?)`

	created := make([]model.Student, 0, len(batchRows))
	for _, row := range batchRows {
		student := model.Student{
			ID:       uuid.NewString(),
			Name:     row.Name,
			Grade:    row.Grade,
			ClassID:  row.ClassID,
			SchoolID: schoolID,
		}
		_, err := tx.ExecContext(ctx, query, student.ID, student.Name, student.Grade,
			student.ClassID, student.SchoolID)
		if err != nil {
			return nil, err
		}
		created = append(created, student)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *SQLStore) UpdateStudent(ctx context.Context, student *model.Student) error {
	query := `UPDATE students SET name = ?, grade = ?, class_id = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, student.Name, student.Grade, student.ClassID, student.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *SQLStore) DeleteStudent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	return err
}

func (s *SQLStore) GetAttendance(ctx context.Context, classID, date string) ([]model.AttendanceRecord, error) {
	query := `SELECT id, student_id, class_id, date, status, updated_at, teacher_name
			  FROM attendance WHERE class_id = ? AND date = ?`
	return s.queryAttendance(ctx, query, classID, date)
}

func (s *SQLStore) GetAllAttendance(ctx context.Context, classID string) ([]model.AttendanceRecord, error) {
	query := `SELECT id, student_id, class_id, date, status, updated_at, teacher_name
			  FROM attendance WHERE class_id = ? ORDER BY date`
	return s.queryAttendance(ctx, query, classID)
}

// UpsertAttendance relies on the remote UNIQUE(student_id, date) key: the
// last writer wins with its own updated_at, matching the single-authority
// conflict policy.
func (s *SQLStore) UpsertAttendance(ctx context.Context, up AttendanceUpsert) error {
	query := `INSERT INTO attendance (id, student_id, class_id, date, status, updated_at, teacher_name)
			  VALUES (?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
				class_id = VALUES(class_id),
				status = VALUES(status),
				updated_at = VALUES(updated_at),
				teacher_name = VALUES(teacher_name)`

	_, err := s.db.ExecContext(ctx, query, uuid.NewString(), up.StudentID, up.ClassID,
		up.Date, up.Status, up.UpdatedAt, up.TeacherName)
	if err != nil {
		return apperrors.NewRetryableError(err, "upsert attendance")
	}
	return nil
}

func (s *SQLStore) queryAttendance(ctx context.Context, query string, args ...interface{}) ([]model.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewRetryableError(err, "query attendance")
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		err := rows.Scan(&rec.ID, &rec.StudentID, &rec.ClassID, &rec.Date,
			&rec.Status, &rec.UpdatedAt, &rec.TeacherName)
		if err != nil {
			return nil, err
		}
		// Remote records are authoritative, never queued locally.
		rec.Synced = true
		records = append(records, rec)
	}

	return records, rows.Err()
}
