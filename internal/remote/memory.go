package remote

import (
	"context"
	"sync"
	"time"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"

	"github.com/google/uuid"
)

// Memory is an in-memory Store used by tests and local demos. It mirrors the
// authority's semantics: id generation on create and (student_id, date)
// upsert for attendance. Failure injection lets tests exercise partial push
// outcomes.
type Memory struct {
	mu         sync.RWMutex
	schools    map[string]model.School
	classes    map[string]model.Class
	students   map[string]model.Student
	attendance map[string]model.AttendanceRecord // keyed student_id|date

	// failUpserts holds student_id|date keys whose UpsertAttendance calls
	// fail with a retryable error.
	failUpserts map[string]bool

	// Fetch failure switches for exercising fail-fast pull behavior.
	failClassFetch   bool
	failStudentFetch bool
}

func NewMemory() *Memory {
	return &Memory{
		schools:     make(map[string]model.School),
		classes:     make(map[string]model.Class),
		students:    make(map[string]model.Student),
		attendance:  make(map[string]model.AttendanceRecord),
		failUpserts: make(map[string]bool),
	}
}

func attendanceKey(studentID, date string) string {
	return studentID + "|" + date
}

// SeedSchool inserts a school with a fixed id.
func (m *Memory) SeedSchool(school model.School) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schools[school.ID] = school
}

// SeedClass inserts a class with a fixed id.
func (m *Memory) SeedClass(class model.Class) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes[class.ID] = class
}

// SeedStudent inserts a student with a fixed id.
func (m *Memory) SeedStudent(student model.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[student.ID] = student
}

// FailClassFetches makes GetClasses fail until called with false.
func (m *Memory) FailClassFetches(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failClassFetch = fail
}

// FailStudentFetches makes GetStudents fail until called with false.
func (m *Memory) FailStudentFetches(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failStudentFetch = fail
}

// FailUpsertFor makes subsequent attendance upserts for the pair fail.
func (m *Memory) FailUpsertFor(studentID, date string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failUpserts[attendanceKey(studentID, date)] = true
}

// ClearFailures removes all injected attendance failures.
func (m *Memory) ClearFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failUpserts = make(map[string]bool)
}

// AttendanceFor returns the stored record for a pair, if any.
func (m *Memory) AttendanceFor(studentID, date string) (model.AttendanceRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.attendance[attendanceKey(studentID, date)]
	return rec, ok
}

func (m *Memory) GetSchools(ctx context.Context) ([]model.School, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	schools := make([]model.School, 0, len(m.schools))
	for _, school := range m.schools {
		schools = append(schools, school)
	}
	return schools, nil
}

func (m *Memory) GetSchoolByID(ctx context.Context, id string) (*model.School, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	school, ok := m.schools[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &school, nil
}

func (m *Memory) GetSchoolByEmail(ctx context.Context, email string) (*model.School, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, school := range m.schools {
		if school.Email == email {
			s := school
			return &s, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *Memory) GetClasses(ctx context.Context, schoolID string) ([]model.Class, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failClassFetch {
		return nil, apperrors.NewRetryableError(apperrors.ErrRemoteUnavailable, "injected failure")
	}

	var classes []model.Class
	for _, class := range m.classes {
		if class.SchoolID == schoolID {
			classes = append(classes, class)
		}
	}
	return classes, nil
}

func (m *Memory) CreateClass(ctx context.Context, schoolID, name string) (*model.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	class := model.Class{
		ID:        uuid.NewString(),
		SchoolID:  schoolID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	m.classes[class.ID] = class
	return &class, nil
}

func (m *Memory) DeleteClass(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.classes, id)
	return nil
}

func (m *Memory) GetStudents(ctx context.Context, schoolID string, classID *string) ([]model.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failStudentFetch {
		return nil, apperrors.NewRetryableError(apperrors.ErrRemoteUnavailable, "injected failure")
	}

	var students []model.Student
	for _, student := range m.students {
		if student.SchoolID != schoolID {
			continue
		}
		if classID != nil && (student.ClassID == nil || *student.ClassID != *classID) {
			continue
		}
		students = append(students, student)
	}
	return students, nil
}

func (m *Memory) CreateStudent(ctx context.Context, student *model.Student) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *student
	created.ID = uuid.NewString()
	m.students[created.ID] = created
	return &created, nil
}

func (m *Memory) CreateStudents(ctx context.Context, schoolID string, rows []model.StudentBatchRow) ([]model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := make([]model.Student, 0, len(rows))
	for _, row := range rows {
		student := model.Student{
			ID:       uuid.NewString(),
			Name:     row.Name,
			Grade:    row.Grade,
			ClassID:  row.ClassID,
			SchoolID: schoolID,
		}
		m.students[student.ID] = student
		created = append(created, student)
	}
	return created, nil
}

func (m *Memory) UpdateStudent(ctx context.Context, student *model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.students[student.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.Name = student.Name
	existing.Grade = student.Grade
	existing.ClassID = student.ClassID
	m.students[student.ID] = existing
	return nil
}

func (m *Memory) DeleteStudent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.students, id)
	return nil
}

func (m *Memory) GetAttendance(ctx context.Context, classID, date string) ([]model.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []model.AttendanceRecord
	for _, rec := range m.attendance {
		if rec.ClassID == classID && rec.Date == date {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (m *Memory) GetAllAttendance(ctx context.Context, classID string) ([]model.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []model.AttendanceRecord
	for _, rec := range m.attendance {
		if rec.ClassID == classID {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (m *Memory) UpsertAttendance(ctx context.Context, up AttendanceUpsert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := attendanceKey(up.StudentID, up.Date)
	if m.failUpserts[key] {
		return apperrors.NewRetryableError(apperrors.ErrRemoteUnavailable, "injected failure")
	}

	rec, ok := m.attendance[key]
	if !ok {
		rec = model.AttendanceRecord{
			ID:        uuid.NewString(),
			StudentID: up.StudentID,
			Date:      up.Date,
		}
	}
	rec.ClassID = up.ClassID
	rec.Status = up.Status
	rec.TeacherName = up.TeacherName
	rec.UpdatedAt = time.Now().UTC()
	rec.Synced = true
	m.attendance[key] = rec
	return nil
}
