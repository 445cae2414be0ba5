package localstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"
)

func (s *Store) UpsertStudent(ctx context.Context, student *model.Student) error {
	query := `INSERT INTO students (id, name, grade, class_id, school_id)
			  VALUES (?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				grade = excluded.grade,
				class_id = excluded.class_id,
				school_id = excluded.school_id`

	return s.exec(ctx, "upsert student", query,
		student.ID, student.Name, student.Grade, student.ClassID, student.SchoolID)
}

func (s *Store) GetStudentByID(ctx context.Context, id string) (*model.Student, error) {
	query := `SELECT id, name, grade, class_id, school_id FROM students WHERE id = ?`

	var student model.Student
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&student.ID, &student.Name, &student.Grade, &student.ClassID, &student.SchoolID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetStudents returns the school's students, narrowed to one class when
// classID is non-nil.
func (s *Store) GetStudents(ctx context.Context, schoolID string, classID *string) ([]model.Student, error) {
	query := `SELECT id, name, grade, class_id, school_id FROM students WHERE school_id = ?`
	args := []interface{}{schoolID}

	if classID != nil {
		query += ` AND class_id = ?`
		args = append(args, *classID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
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

func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	return s.exec(ctx, "delete student", `DELETE FROM students WHERE id = ?`, id)
}
