package model

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MarkAttendanceRequest struct {
	StudentID string           `json:"student_id"`
	ClassID   string           `json:"class_id"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

type StudentBatchRow struct {
	Name    string  `json:"name"`
	Grade   *string `json:"grade,omitempty"`
	ClassID *string `json:"class_id,omitempty"`
}

// PullResult reports how many rows of each entity a pull copied into the
// local cache.
type PullResult struct {
	Classes  int `json:"classes"`
	Students int `json:"students"`
}

// PushFailure describes one attendance record whose remote upsert did not
// succeed. The record stays unsynced and is retried on the next push.
type PushFailure struct {
	RecordID  string `json:"record_id"`
	StudentID string `json:"student_id"`
	ClassID   string `json:"class_id"`
	Date      string `json:"date"`
	Reason    string `json:"reason"`
}

// PushResult aggregates one push cycle.
type PushResult struct {
	Pushed   int           `json:"pushed"`
	Failures []PushFailure `json:"failures,omitempty"`
}
