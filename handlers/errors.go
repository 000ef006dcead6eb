package handlers

import (
	"errors"
	"net/http"

	bookingRepo "interviewhub/database/repository/booking"
	candidateRepo "interviewhub/database/repository/candidate"
	interviewerRepo "interviewhub/database/repository/interviewer"
	"interviewhub/services/availability"
	"interviewhub/services/booking"
	"interviewhub/services/candidate"
	"interviewhub/services/interviewer"
	"interviewhub/services/pricing"
	"interviewhub/services/rating"
	"interviewhub/utils"

	"github.com/gin-gonic/gin"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{rating.ErrReviewExists, http.StatusConflict},
	{booking.ErrSlotUnavailable, http.StatusConflict},
	{booking.ErrInvalidTransition, http.StatusConflict},

	{rating.ErrNotBookingOwner, http.StatusForbidden},
	{booking.ErrNotParticipant, http.StatusForbidden},
	{booking.ErrNotInterviewer, http.StatusForbidden},

	{rating.ErrBookingNotCompleted, http.StatusUnprocessableEntity},
	{booking.ErrInterviewerNotBookable, http.StatusUnprocessableEntity},
	{booking.ErrTooEarlyToComplete, http.StatusUnprocessableEntity},

	{rating.ErrInvalidRating, http.StatusBadRequest},
	{rating.ErrInvalidCategory, http.StatusBadRequest},
	{rating.ErrCommentTooLong, http.StatusBadRequest},
	{pricing.ErrInvalidRate, http.StatusBadRequest},
	{pricing.ErrInvalidDuration, http.StatusBadRequest},
	{availability.ErrInvalidDate, http.StatusBadRequest},
	{availability.ErrInvalidRule, http.StatusBadRequest},
	{booking.ErrDurationNotOffered, http.StatusBadRequest},
	{booking.ErrSelfBooking, http.StatusBadRequest},
	{interviewer.ErrInvalidProfile, http.StatusBadRequest},
	{interviewer.ErrInvalidRate, http.StatusBadRequest},
	{interviewer.ErrInvalidCurrency, http.StatusBadRequest},
	{candidate.ErrInvalidProfile, http.StatusBadRequest},

	{rating.ErrReviewNotFound, http.StatusNotFound},
	{interviewerRepo.ErrNotFound, http.StatusNotFound},
	{bookingRepo.ErrNotFound, http.StatusNotFound},
	{candidateRepo.ErrNotFound, http.StatusNotFound},

	{interviewer.ErrNoStorage, http.StatusServiceUnavailable},
	{candidate.ErrNoStorage, http.StatusServiceUnavailable},
}

func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes err with the status its kind maps to.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		utils.JSONError(c, status, "request failed", err.Error())
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func currentUser(c *gin.Context) string {
	return c.GetString(utils.ContextUserID)
}
