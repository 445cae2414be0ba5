package localstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"
)

// UpsertSchool inserts the school or, when the id exists, overwrites all
// fields except the primary key. The remote copy is always authoritative.
func (s *Store) UpsertSchool(ctx context.Context, school *model.School) error {
	query := `INSERT INTO schools (id, name, email, password, address, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				email = excluded.email,
				password = excluded.password,
				address = excluded.address,
				created_at = excluded.created_at`

	return s.exec(ctx, "upsert school", query,
		school.ID, school.Name, school.Email, school.Password, school.Address, school.CreatedAt)
}

func (s *Store) GetSchoolByID(ctx context.Context, id string) (*model.School, error) {
	query := `SELECT id, name, email, password, address, created_at FROM schools WHERE id = ?`
	return s.scanSchool(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) GetSchoolByEmail(ctx context.Context, email string) (*model.School, error) {
	query := `SELECT id, name, email, password, address, created_at FROM schools WHERE email = ?`
	return s.scanSchool(s.db.QueryRowContext(ctx, query, email))
}

func (s *Store) scanSchool(row *sql.Row) (*model.School, error) {
	var school model.School
	err := row.Scan(&school.ID, &school.Name, &school.Email, &school.Password,
		&school.Address, &school.CreatedAt)
	if err != nil {
		// Reads degrade to not-found; only writes treat store failures as fatal.
		return nil, apperrors.ErrNotFound
	}
	return &school, nil
}

func (s *Store) DeleteSchool(ctx context.Context, id string) error {
	return s.exec(ctx, "delete school", `DELETE FROM schools WHERE id = ?`, id)
}

// UpsertTeacherIdentity stores the device's teacher name for a school. One
// identity per school.
func (s *Store) UpsertTeacherIdentity(ctx context.Context, t *model.TeacherIdentity) error {
	query := `INSERT INTO teacher_identities (id, school_id, name)
			  VALUES (?, ?, ?)
			  ON CONFLICT(school_id) DO UPDATE SET
				name = excluded.name`

	return s.exec(ctx, "upsert teacher identity", query, t.ID, t.SchoolID, t.Name)
}

// GetTeacherName returns the teacher name registered for the school, or ""
// when none exists. A missing identity is not an error.
func (s *Store) GetTeacherName(ctx context.Context, schoolID string) (string, error) {
	query := `SELECT name FROM teacher_identities WHERE school_id = ?`

	var name string
	err := s.db.QueryRowContext(ctx, query, schoolID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
