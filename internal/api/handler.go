// Package api is the localhost HTTP surface the UI shell talks to. It is
// thin plumbing over the gateway and syncer; all routing between local and
// remote stores happens below it.
package api

import (
	"errors"
	"net/http"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/config"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/gateway"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/logger"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/syncer"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	gw     *gateway.Gateway
	syncer *syncer.Syncer
	cfg    *config.Config
	log    zerolog.Logger
}

func NewHandler(gw *gateway.Gateway, s *syncer.Syncer, cfg *config.Config) *Handler {
	return &Handler{
		gw:     gw,
		syncer: s,
		cfg:    cfg,
		log:    logger.Component("api"),
	}
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var validation apperrors.ValidationError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrNotLoggedIn):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrSyncInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNoConnection), errors.Is(err, apperrors.ErrRemoteUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	school, err := h.gw.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, school)
}

func (h *Handler) Logout(c *gin.Context) {
	h.gw.Logout()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) GetSchools(c *gin.Context) {
	schools, err := h.gw.GetSchools(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, schools)
}

func (h *Handler) SetTeacherName(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.gw.SetTeacherName(c.Request.Context(), req.Name); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "teacher name saved"})
}

func (h *Handler) GetClasses(c *gin.Context) {
	schoolID := c.Query("school_id")
	if schoolID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "school_id is required"})
		return
	}

	classes, err := h.gw.GetClasses(c.Request.Context(), schoolID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

func (h *Handler) AddClass(c *gin.Context) {
	var req struct {
		SchoolID string `json:"school_id"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	class, err := h.gw.AddClass(c.Request.Context(), req.SchoolID, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, class)
}

func (h *Handler) DeleteClass(c *gin.Context) {
	if err := h.gw.DeleteClass(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "class deleted"})
}

func (h *Handler) GetStudents(c *gin.Context) {
	schoolID := c.Query("school_id")
	if schoolID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "school_id is required"})
		return
	}

	var classID *string
	if v := c.Query("class_id"); v != "" {
		classID = &v
	}

	students, err := h.gw.GetStudents(c.Request.Context(), schoolID, classID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handler) AddStudent(c *gin.Context) {
	var student model.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := h.gw.AddStudent(c.Request.Context(), &student)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UploadStudents(c *gin.Context) {
	var req struct {
		SchoolID string                  `json:"school_id"`
		Students []model.StudentBatchRow `json:"students"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := h.gw.UploadStudents(c.Request.Context(), req.SchoolID, req.Students)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	var student model.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	student.ID = c.Param("id")

	if err := h.gw.UpdateStudent(c.Request.Context(), &student); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student updated"})
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	if err := h.gw.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student deleted"})
}

func (h *Handler) GetAttendance(c *gin.Context) {
	classID := c.Query("class_id")
	date := c.Query("date")
	if classID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id and date are required"})
		return
	}

	records, err := h.gw.GetAttendance(c.Request.Context(), classID, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetAllAttendance(c *gin.Context) {
	classID := c.Query("class_id")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id is required"})
		return
	}

	records, err := h.gw.GetAllAttendance(c.Request.Context(), classID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) MarkAttendance(c *gin.Context) {
	var req model.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rec, err := h.gw.MarkAttendance(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) PullSchoolData(c *gin.Context) {
	var req struct {
		SchoolID string `json:"school_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SchoolID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "school_id is required"})
		return
	}

	result, err := h.syncer.Pull(c.Request.Context(), req.SchoolID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) PushOfflineAttendance(c *gin.Context) {
	result, err := h.syncer.Push(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetUnsyncedCount(c *gin.Context) {
	count, err := h.syncer.UnsyncedCount(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unsynced": count})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}
