package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/config"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/logger"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"

	"github.com/rs/zerolog"
)

// APIClient is the HTTP implementation of Store, used when the device talks
// to the school server's JSON API.
type APIClient struct {
	cfg        config.RemoteAPIConfig
	httpClient *http.Client
	auth       *AuthManager
	log        zerolog.Logger
}

func NewAPIClient(cfg config.RemoteAPIConfig) *APIClient {
	return &APIClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		auth: NewAuthManager(cfg),
		log:  logger.Component("remote-api"),
	}
}

// doJSON performs one authenticated round trip, decoding the response into
// out when out is non-nil.
func (c *APIClient) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.cfg.Username != "" {
		token, err := c.auth.GetToken(ctx)
		if err != nil {
			return apperrors.NewRetryableError(err, "failed to get auth token")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewRetryableError(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusUnauthorized:
		// Token might be expired, retry will refresh it
		return apperrors.NewRetryableError(fmt.Errorf("unauthorized"), "authentication failed")
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return apperrors.NewRetryableError(fmt.Errorf("service unavailable"), "remote unavailable")
	default:
		return fmt.Errorf("remote returned HTTP %d for %s %s", resp.StatusCode, method, path)
	}
}

func (c *APIClient) GetSchools(ctx context.Context) ([]model.School, error) {
	var schools []model.School
	if err := c.doJSON(ctx, http.MethodGet, "/api/schools", nil, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

func (c *APIClient) GetSchoolByID(ctx context.Context, id string) (*model.School, error) {
	var school model.School
	if err := c.doJSON(ctx, http.MethodGet, "/api/schools/"+url.PathEscape(id), nil, &school); err != nil {
		return nil, err
	}
	return &school, nil
}

func (c *APIClient) GetSchoolByEmail(ctx context.Context, email string) (*model.School, error) {
	var school model.School
	path := "/api/schools/by-email?email=" + url.QueryEscape(email)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &school); err != nil {
		return nil, err
	}
	return &school, nil
}

func (c *APIClient) GetClasses(ctx context.Context, schoolID string) ([]model.Class, error) {
	var classes []model.Class
	path := "/api/classes?school_id=" + url.QueryEscape(schoolID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *APIClient) CreateClass(ctx context.Context, schoolID, name string) (*model.Class, error) {
	body := map[string]string{"school_id": schoolID, "name": name}
	var class model.Class
	if err := c.doJSON(ctx, http.MethodPost, "/api/classes", body, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

func (c *APIClient) DeleteClass(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/classes/"+url.PathEscape(id), nil, nil)
}

func (c *APIClient) GetStudents(ctx context.Context, schoolID string, classID *string) ([]model.Student, error) {
	params := url.Values{}
	params.Set("school_id", schoolID)
	if classID != nil {
		params.Set("class_id", *classID)
	}

	var students []model.Student
	if err := c.doJSON(ctx, http.MethodGet, "/api/students?"+params.Encode(), nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (c *APIClient) CreateStudent(ctx context.Context, student *model.Student) (*model.Student, error) {
	var created model.Student
	if err := c.doJSON(ctx, http.MethodPost, "/api/students", student, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *APIClient) CreateStudents(ctx context.Context, schoolID string, rows []model.StudentBatchRow) ([]model.Student, error) {
	body := map[string]interface{}{"school_id": schoolID, "students": rows}
	var created []model.Student
	if err := c.doJSON(ctx, http.MethodPost, "/api/students/batch", body, &created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *APIClient) UpdateStudent(ctx context.Context, student *model.Student) error {
	return c.doJSON(ctx, http.MethodPut, "/api/students/"+url.PathEscape(student.ID), student, nil)
}

func (c *APIClient) DeleteStudent(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/students/"+url.PathEscape(id), nil, nil)
}

func (c *APIClient) GetAttendance(ctx context.Context, classID, date string) ([]model.AttendanceRecord, error) {
	params := url.Values{}
	params.Set("class_id", classID)
	params.Set("date", date)

	var records []model.AttendanceRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/attendance?"+params.Encode(), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *APIClient) GetAllAttendance(ctx context.Context, classID string) ([]model.AttendanceRecord, error) {
	path := "/api/attendance/all?class_id=" + url.QueryEscape(classID)

	var records []model.AttendanceRecord
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *APIClient) UpsertAttendance(ctx context.Context, up AttendanceUpsert) error {
	c.log.Debug().
		Str("student_id", up.StudentID).
		Str("date", up.Date).
		Msg("Upserting attendance record")

	return c.doJSON(ctx, http.MethodPut, "/api/attendance", up, nil)
}
