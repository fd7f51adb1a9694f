package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumalingo/lumalingo-backend/internal/http/middleware"
	"github.com/lumalingo/lumalingo-backend/internal/http/response"
	"github.com/lumalingo/lumalingo-backend/internal/services"
)

type BadgeHandler struct {
	badgeService services.BadgeService
}

func NewBadgeHandler(badgeService services.BadgeService) *BadgeHandler {
	return &BadgeHandler{badgeService: badgeService}
}

// CourseBadges lists every badge a course offers, ordered by threshold.
func (bh *BadgeHandler) CourseBadges(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid course id"))
		return
	}
	badges, err := bh.badgeService.ListCourseBadges(c.Request.Context(), courseID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, gin.H{"badges": badges})
}

// MyBadges lists the user's earned badges, optionally scoped to one course
// via ?course_id=.
func (bh *BadgeHandler) MyBadges(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var courseID *uuid.UUID
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid course id"))
			return
		}
		courseID = &id
	}

	badges, err := bh.badgeService.ListUserBadges(c.Request.Context(), user.ID, courseID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, gin.H{"badges": badges})
}
