package handlers

import (
	"errors"
	"net/http"

	"interviewhub/models"
	"interviewhub/services/rating"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReviewHandler serves review submission and rating summaries.
type ReviewHandler struct {
	Svc    RatingService
	Logger *zap.Logger
}

func NewReviewHandler(svc RatingService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{Svc: svc, Logger: logger}
}

// SubmitReview handles POST /api/reviews.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var input models.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	review, err := h.Svc.SubmitReview(c.Request.Context(), currentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// GetRating handles GET /api/interviewers/:id/rating. An interviewer without
// reviews gets an empty state rather than a zero average.
func (h *ReviewHandler) GetRating(c *gin.Context) {
	id := c.Param("id")
	summary, err := h.Svc.GetSummary(c.Request.Context(), id)
	if errors.Is(err, rating.ErrNoReviews) {
		c.JSON(http.StatusOK, gin.H{"interviewerId": id, "hasReviews": false, "summary": nil})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviewerId": id, "hasReviews": true, "summary": summary})
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.Svc.ListReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
