package rating

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"interviewhub/models"
)

const maxCommentLength = 2000

// ReviewID is the composite key of a review. Two submissions for the same
// booking collide on it.
func ReviewID(interviewerID, candidateID, bookingID string) string {
	return strings.Join([]string{interviewerID, candidateID, bookingID}, "_")
}

func validateInput(in models.ReviewInput) error {
	if in.Rating < 1 || in.Rating > 5 {
		return ErrInvalidRating
	}
	for _, c := range models.ReviewCategories {
		if v, ok := in.Categories.Get(c); ok && (v < 1 || v > 5) {
			return fmt.Errorf("%w: %s=%d", ErrInvalidCategory, c, v)
		}
	}
	if utf8.RuneCountInString(in.Comment) > maxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}
