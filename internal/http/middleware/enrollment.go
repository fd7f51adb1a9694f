package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/data/repos/catalog"
	"github.com/lumalingo/lumalingo-backend/internal/domain"
	"github.com/lumalingo/lumalingo-backend/internal/http/response"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
	"github.com/lumalingo/lumalingo-backend/internal/services"
)

// EnrollmentMiddleware gates lesson routes on an active enrollment in the
// lesson's course. Admins bypass the gate entirely.
type EnrollmentMiddleware struct {
	log        *logger.Logger
	lessonRepo catalog.LessonRepo
	billing    services.BillingService
}

func NewEnrollmentMiddleware(log *logger.Logger, lessonRepo catalog.LessonRepo, billing services.BillingService) *EnrollmentMiddleware {
	return &EnrollmentMiddleware{
		log:        log.With("middleware", "EnrollmentMiddleware"),
		lessonRepo: lessonRepo,
		billing:    billing,
	}
}

// RequireEnrollment reads the lesson id from the :id route param. Assumes
// RequireAuth already ran.
func (em *EnrollmentMiddleware) RequireEnrollment() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			c.Abort()
			return
		}
		if user.IsAdmin() {
			c.Next()
			return
		}

		lessonID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid lesson id"))
			c.Abort()
			return
		}

		_, _, course, err := em.lessonRepo.GetContext(c.Request.Context(), nil, lessonID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondError(c, http.StatusNotFound, "not_found", errors.New("lesson not found"))
			c.Abort()
			return
		}
		if err != nil {
			response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
			c.Abort()
			return
		}

		enrollment, err := em.billing.GetEnrollment(c.Request.Context(), user.ID, course.ID)
		if err != nil {
			response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
			c.Abort()
			return
		}
		if enrollment == nil {
			response.RespondError(c, http.StatusForbidden, "not_enrolled",
				errors.New("you are not enrolled in this course"))
			c.Abort()
			return
		}
		if enrollment.Status != domain.EnrollmentActive {
			response.RespondErrorDetails(c, http.StatusForbidden, "enrollment_not_active",
				em.suspensionMessage(c, enrollment),
				gin.H{"status": enrollment.Status})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (em *EnrollmentMiddleware) suspensionMessage(c *gin.Context, enrollment *domain.Enrollment) string {
	if enrollment.Status == domain.EnrollmentPending {
		return "your enrollment is awaiting its first payment"
	}
	overdue, err := em.billing.CountOverdueFees(c.Request.Context(), enrollment.ID)
	if err != nil {
		em.log.Warn("overdue fee lookup failed", "enrollment_id", enrollment.ID, "error", err)
		return "your enrollment is inactive"
	}
	if overdue > 0 {
		return "your enrollment is suspended due to overdue tuition fees"
	}
	return "your enrollment is inactive"
}
