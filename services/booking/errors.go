package booking

import "errors"

var (
	ErrInterviewerNotBookable = errors.New("interviewer has not set an hourly rate")
	ErrDurationNotOffered     = errors.New("interviewer does not offer this session length")
	ErrSlotUnavailable        = errors.New("requested start time is not available")
	ErrNotParticipant         = errors.New("only the candidate or interviewer of a booking can do this")
	ErrNotInterviewer         = errors.New("only the interviewer can complete a booking")
	ErrInvalidTransition      = errors.New("booking cannot move to the requested status")
	ErrSelfBooking            = errors.New("interviewers cannot book themselves")
	ErrTooEarlyToComplete     = errors.New("a booking can only be completed after it starts")
)
