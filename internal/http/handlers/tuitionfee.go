package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/data/repos/billing"
	"github.com/lumalingo/lumalingo-backend/internal/http/middleware"
	"github.com/lumalingo/lumalingo-backend/internal/http/response"
	"github.com/lumalingo/lumalingo-backend/internal/services"
)

type TuitionFeeHandler struct {
	billing services.BillingService
}

func NewTuitionFeeHandler(billing services.BillingService) *TuitionFeeHandler {
	return &TuitionFeeHandler{billing: billing}
}

func (th *TuitionFeeHandler) List(c *gin.Context) {
	var filter billing.FeeFilter
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if raw := c.Query("enrollment_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid enrollment id"))
			return
		}
		filter.EnrollmentID = &id
	}
	if raw := c.Query("due_before"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_date", errors.New("due_before must be YYYY-MM-DD"))
			return
		}
		filter.DueBefore = &t
	}

	fees, err := th.billing.ListFees(c.Request.Context(), filter)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, gin.H{"fees": fees})
}

func (th *TuitionFeeHandler) Create(c *gin.Context) {
	var req struct {
		EnrollmentID uuid.UUID `json:"enrollment_id" binding:"required"`
		Amount       float64   `json:"amount" binding:"required,gt=0"`
		DueDate      string    `json:"due_date" binding:"required"`
		Notes        string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_date", errors.New("due_date must be YYYY-MM-DD"))
		return
	}

	fee, err := th.billing.CreateFee(c.Request.Context(), req.EnrollmentID, req.Amount, dueDate, req.Notes)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("enrollment not found"))
		return
	case err != nil:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondCreated(c, fee)
}

func (th *TuitionFeeHandler) Update(c *gin.Context) {
	feeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid fee id"))
		return
	}
	var req struct {
		Amount  *float64 `json:"amount"`
		DueDate *string  `json:"due_date"`
		Notes   *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	fee, err := th.billing.GetFee(c.Request.Context(), feeID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("tuition fee not found"))
		return
	case err != nil:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	if req.Amount != nil {
		fee.Amount = *req.Amount
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_date", errors.New("due_date must be YYYY-MM-DD"))
			return
		}
		fee.DueDate = dueDate
	}
	if req.Notes != nil {
		fee.Notes = *req.Notes
	}
	if err := th.billing.UpdateFee(c.Request.Context(), fee); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, fee)
}

func (th *TuitionFeeHandler) Delete(c *gin.Context) {
	feeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid fee id"))
		return
	}
	if err := th.billing.DeleteFee(c.Request.Context(), feeID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// MarkPaid settles a fee and reactivates its enrollment.
func (th *TuitionFeeHandler) MarkPaid(c *gin.Context) {
	feeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid fee id"))
		return
	}
	var req struct {
		PaymentMethod string `json:"payment_method"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	fee, err := th.billing.MarkPaid(c.Request.Context(), feeID, req.PaymentMethod, req.Notes)
	switch {
	case errors.Is(err, services.ErrFeeAlreadyPaid):
		response.RespondError(c, http.StatusConflict, "already_paid", err)
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("tuition fee not found"))
		return
	case err != nil:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, fee)
}

func (th *TuitionFeeHandler) Statistics(c *gin.Context) {
	stats, err := th.billing.Statistics(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, stats)
}

// MyFees lists every fee of the authenticated user.
func (th *TuitionFeeHandler) MyFees(c *gin.Context) {
	user := middleware.CurrentUser(c)
	fees, err := th.billing.ListUserFees(c.Request.Context(), user.ID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, gin.H{"fees": fees})
}

// MyOutstandingFees lists the user's pending and overdue fees.
func (th *TuitionFeeHandler) MyOutstandingFees(c *gin.Context) {
	user := middleware.CurrentUser(c)
	fees, err := th.billing.ListUserOutstandingFees(c.Request.Context(), user.ID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	response.RespondOK(c, gin.H{"fees": fees})
}
