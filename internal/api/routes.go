package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/login", handler.Login)
		v1.POST("/logout", handler.Logout)
		v1.GET("/schools", handler.GetSchools)
		v1.PUT("/teacher", handler.SetTeacherName)

		v1.GET("/classes", handler.GetClasses)
		v1.POST("/classes", handler.AddClass)
		v1.DELETE("/classes/:id", handler.DeleteClass)

		v1.GET("/students", handler.GetStudents)
		v1.POST("/students", handler.AddStudent)
		v1.POST("/students/batch", handler.UploadStudents)
		v1.PUT("/students/:id", handler.UpdateStudent)
		v1.DELETE("/students/:id", handler.DeleteStudent)

		v1.GET("/attendance", handler.GetAttendance)
		v1.GET("/attendance/all", handler.GetAllAttendance)
		v1.POST("/attendance/mark", handler.MarkAttendance)

		v1.POST("/sync/pull", handler.PullSchoolData)
		v1.POST("/sync/push", handler.PushOfflineAttendance)
		v1.GET("/sync/unsynced-count", handler.GetUnsyncedCount)
	}
}
