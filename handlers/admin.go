package handlers

import (
	"errors"
	"net/http"

	"interviewhub/services/rating"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes moderation endpoints.
type AdminHandler struct {
	Ratings RatingService
	Logger  *zap.Logger
}

func NewAdminHandler(ratings RatingService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Ratings: ratings, Logger: logger}
}

// DeleteReview handles DELETE /api/admin/reviews/:id.
func (h *AdminHandler) DeleteReview(c *gin.Context) {
	id := c.Param("id")
	if err := h.Ratings.DeleteReview(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.Logger.Info("Admin removed review", zap.String("reviewID", id), zap.String("admin", currentUser(c)))
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}

// Recompute handles POST /api/admin/interviewers/:id/recompute.
func (h *AdminHandler) Recompute(c *gin.Context) {
	id := c.Param("id")
	summary, err := h.Ratings.Recompute(c.Request.Context(), id)
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
