package localstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"
)

func (s *Store) UpsertClass(ctx context.Context, class *model.Class) error {
	query := `INSERT INTO classes (id, school_id, name, created_at)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				school_id = excluded.school_id,
				name = excluded.name,
				created_at = excluded.created_at`

	return s.exec(ctx, "upsert class", query,
		class.ID, class.SchoolID, class.Name, class.CreatedAt)
}

func (s *Store) GetClassByID(ctx context.Context, id string) (*model.Class, error) {
	query := `SELECT id, school_id, name, created_at FROM classes WHERE id = ?`

	var class model.Class
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&class.ID, &class.SchoolID, &class.Name, &class.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (s *Store) GetClasses(ctx context.Context, schoolID string) ([]model.Class, error) {
	query := `SELECT id, school_id, name, created_at FROM classes WHERE school_id = ? ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, schoolID)
	if err != nil {
		return nil, err
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

func (s *Store) DeleteClass(ctx context.Context, id string) error {
	return s.exec(ctx, "delete class", `DELETE FROM classes WHERE id = ?`, id)
}
