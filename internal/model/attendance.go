package model

import (
	"fmt"
	"time"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// DateLayout is the calendar-day format used for attendance dates. Records
// carry no time component; the day string itself is the key.
const DateLayout = "2006-01-02"

// ParseDate validates a calendar-day string.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.Format(DateLayout), nil
}

// AttendanceRecord is the only entity written locally first. At most one
// record exists per (StudentID, Date); marking the same pair again overwrites
// status and resets the synced flag.
type AttendanceRecord struct {
	ID          string           `json:"id" db:"id"`
	StudentID   string           `json:"student_id" db:"student_id"`
	ClassID     string           `json:"class_id" db:"class_id"`
	Date        string           `json:"date" db:"date"`
	Status      AttendanceStatus `json:"status" db:"status"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
	TeacherName string           `json:"teacher_name,omitempty" db:"teacher_name"`
	Synced      bool             `json:"synced" db:"synced"`
}
