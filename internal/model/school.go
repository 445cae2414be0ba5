package model

import "time"

// School is the tenancy root. Every class, student and attendance record
// belongs to exactly one school. IDs are opaque strings generated by the
// remote store (UUIDs); the cache never renumbers them.
type School struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"password,omitempty" db:"password"`
	Address   *string   `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Sanitized returns a copy safe to hand to callers, with the credential
// blanked.
func (s School) Sanitized() School {
	s.Password = ""
	return s
}

// TeacherIdentity is the single teacher registered on this device for a
// school. Its name is stamped onto pushed attendance records.
type TeacherIdentity struct {
	ID       string `json:"id" db:"id"`
	SchoolID string `json:"school_id" db:"school_id"`
	Name     string `json:"name" db:"name"`
}
