package model

import "time"

type Class struct {
	ID        string    `json:"id" db:"id"`
	SchoolID  string    `json:"school_id" db:"school_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Student belongs to one school and at most one class. ClassID is nil for
// unassigned students.
type Student struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Grade    *string `json:"grade,omitempty" db:"grade"`
	ClassID  *string `json:"class_id,omitempty" db:"class_id"`
	SchoolID string  `json:"school_id" db:"school_id"`
}
