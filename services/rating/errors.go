package rating

import "errors"

var (
	ErrReviewExists        = errors.New("review already exists for this booking")
	ErrNoReviews           = errors.New("interviewer has no reviews yet")
	ErrReviewNotFound      = errors.New("review not found")
	ErrBookingNotCompleted = errors.New("booking must be completed before it can be reviewed")
	ErrNotBookingOwner     = errors.New("only the candidate of a booking can review it")
	ErrInvalidRating       = errors.New("rating must be an integer from 1 to 5")
	ErrInvalidCategory     = errors.New("category scores must be integers from 1 to 5")
	ErrCommentTooLong      = errors.New("comment must be at most 2000 characters")
)
