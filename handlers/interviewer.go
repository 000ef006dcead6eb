package handlers

import (
	"net/http"
	"strconv"

	"interviewhub/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxImageBytes = 5 << 20

// InterviewerHandler serves interviewer profiles and their availability.
type InterviewerHandler struct {
	Svc    InterviewerService
	Slots  SlotService
	Logger *zap.Logger
}

func NewInterviewerHandler(svc InterviewerService, slots SlotService, logger *zap.Logger) *InterviewerHandler {
	return &InterviewerHandler{Svc: svc, Slots: slots, Logger: logger}
}

// ListInterviewers handles GET /api/interviewers?skill=&page=&pageSize=.
func (h *InterviewerHandler) ListInterviewers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	interviewers, err := h.Svc.ListInterviewers(c.Request.Context(), c.Query("skill"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviewers": interviewers, "page": page})
}

func (h *InterviewerHandler) GetInterviewer(c *gin.Context) {
	iv, err := h.Svc.GetInterviewer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}

// GetAvailability handles GET /api/interviewers/:id/availability?date=YYYY-MM-DD&duration=N.
// The slot list is derived for the requested date on every call.
func (h *InterviewerHandler) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	duration := 0
	if raw := c.Query("duration"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be a whole number of minutes"})
			return
		}
		duration = d
	}

	day, err := h.Slots.GetDaySlots(c.Request.Context(), c.Param("id"), date, duration)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// UpsertProfile handles PUT /api/interviewers/me.
func (h *InterviewerHandler) UpsertProfile(c *gin.Context) {
	var input models.InterviewerProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	iv, err := h.Svc.UpsertProfile(c.Request.Context(), currentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}

func (h *InterviewerHandler) UpdateAvailability(c *gin.Context) {
	var input struct {
		Rules []models.AvailabilityRule `json:"rules"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	iv, err := h.Svc.UpdateAvailability(c.Request.Context(), currentUser(c), input.Rules)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}

func (h *InterviewerHandler) UpdateRate(c *gin.Context) {
	var input models.RateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	iv, err := h.Svc.UpdateRate(c.Request.Context(), currentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}
