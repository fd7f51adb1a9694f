package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumalingo/lumalingo-backend/internal/data/repos/billing"
	"github.com/lumalingo/lumalingo-backend/internal/http/middleware"
	"github.com/lumalingo/lumalingo-backend/internal/http/response"
	"github.com/lumalingo/lumalingo-backend/internal/services"
)

type EnrollmentHandler struct {
	billing  services.BillingService
	progress services.ProgressService
}

func NewEnrollmentHandler(billing services.BillingService, progress services.ProgressService) *EnrollmentHandler {
	return &EnrollmentHandler{billing: billing, progress: progress}
}

// Enroll creates or reactivates an enrollment. Admin-only: students are
// enrolled by the school, not self-service.
func (eh *EnrollmentHandler) Enroll(c *gin.Context) {
	var req struct {
		UserID           uuid.UUID `json:"user_id" binding:"required"`
		CourseID         uuid.UUID `json:"course_id" binding:"required"`
		CustomMonthlyFee *float64  `json:"custom_monthly_fee"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	enrollment, err := eh.billing.EnrollUser(c.Request.Context(), req.UserID, req.CourseID, req.CustomMonthlyFee)
	switch {
	case errors.Is(err, services.ErrAlreadyEnrolled):
		response.RespondError(c, http.StatusConflict, "already_enrolled", err)
		return
	case err != nil:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondCreated(c, enrollment)
}

func (eh *EnrollmentHandler) Unenroll(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid enrollment id"))
		return
	}
	if err := eh.billing.UnenrollUser(c.Request.Context(), enrollmentID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (eh *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid enrollment id"))
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := eh.billing.UpdateEnrollmentStatus(c.Request.Context(), enrollmentID, req.Status); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_status", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (eh *EnrollmentHandler) List(c *gin.Context) {
	var filter billing.EnrollmentFilter
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid user id"))
			return
		}
		filter.UserID = &id
	}
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid course id"))
			return
		}
		filter.CourseID = &id
	}

	enrollments, err := eh.billing.ListEnrollments(c.Request.Context(), filter)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, gin.H{"enrollments": enrollments})
}

// MyEnrollments lists the authenticated user's enrollments with courses.
func (eh *EnrollmentHandler) MyEnrollments(c *gin.Context) {
	user := middleware.CurrentUser(c)
	enrollments, err := eh.billing.ListUserEnrollments(c.Request.Context(), user.ID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, gin.H{"enrollments": enrollments})
}

// CourseProgress reports completed/total lessons and a percentage for the
// authenticated user in one course.
func (eh *EnrollmentHandler) CourseProgress(c *gin.Context) {
	user := middleware.CurrentUser(c)
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid course id"))
		return
	}

	completed, total, err := eh.progress.CourseProgress(c.Request.Context(), user.ID, courseID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	percentage := 0.0
	if total > 0 {
		percentage = float64(completed) * 100 / float64(total)
	}
	response.RespondOK(c, gin.H{
		"course_id":         courseID,
		"completed_lessons": completed,
		"total_lessons":     total,
		"percentage":        percentage,
	})
}
