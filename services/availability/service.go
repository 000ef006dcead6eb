package availability

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"interviewhub/models"

	"go.uber.org/zap"
)

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// InterviewerReader loads interviewer profiles.
type InterviewerReader interface {
	GetByID(ctx context.Context, id string) (*models.Interviewer, error)
}

// BookingReader lists an interviewer's bookings on a date.
type BookingReader interface {
	ListByInterviewerAndDate(ctx context.Context, interviewerID, date string) ([]models.Booking, error)
}

// Service derives a day's bookable slots and removes the taken ones.
type Service struct {
	Interviewers InterviewerReader
	Bookings     BookingReader
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewService(interviewers InterviewerReader, bookings BookingReader, logger *zap.Logger) *Service {
	return &Service{
		Interviewers: interviewers,
		Bookings:     bookings,
		Logger:       logger,
		Now:          time.Now,
	}
}

// GetDaySlots loads the interviewer and returns the open slots for date.
// durationMinutes, when positive, also drops starts whose session would
// overlap an existing booking.
func (s *Service) GetDaySlots(ctx context.Context, interviewerID, date string, durationMinutes int) (models.DaySlots, error) {
	iv, err := s.Interviewers.GetByID(ctx, interviewerID)
	if err != nil {
		return models.DaySlots{}, err
	}
	return s.DaySlotsFor(ctx, *iv, date, durationMinutes)
}

// DaySlotsFor is GetDaySlots for an already loaded interviewer.
func (s *Service) DaySlotsFor(ctx context.Context, iv models.Interviewer, date string, durationMinutes int) (models.DaySlots, error) {
	day, err := ParseDate(date)
	if err != nil {
		return models.DaySlots{}, ErrInvalidDate
	}

	result := models.DaySlots{
		InterviewerID: iv.ID,
		Date:          date,
		Status:        models.DayUnavailable,
		Slots:         []string{},
	}

	rule, ok := MatchRule(iv.Availability, day.Weekday())
	if !ok {
		return result, nil
	}
	result.Timezone = rule.Timezone

	slots := ruleSlots(rule)
	if len(slots) == 0 {
		s.Logger.Debug("availability rule yields no slots",
			zap.String("interviewerID", iv.ID),
			zap.String("start", rule.StartTime),
			zap.String("end", rule.EndTime))
		return result, nil
	}

	bookings, err := s.Bookings.ListByInterviewerAndDate(ctx, iv.ID, date)
	if err != nil {
		return models.DaySlots{}, fmt.Errorf("failed to load bookings for %s: %w", date, err)
	}

	open := RemoveTaken(slots, bookings, durationMinutes)
	open = s.removePast(open, date, rule.Timezone)

	result.Slots = open
	if len(open) == 0 {
		result.Status = models.DayFullyBooked
	} else {
		result.Status = models.DayAvailable
	}
	return result, nil
}

// IsBookable reports whether start is an open slot for the given session length.
func (s *Service) IsBookable(ctx context.Context, iv models.Interviewer, date, start string, durationMinutes int) (bool, error) {
	day, err := s.DaySlotsFor(ctx, iv, date, durationMinutes)
	if err != nil {
		return false, err
	}
	return slices.Contains(day.Slots, start), nil
}

// RemoveTaken drops slots occupied by active bookings. A slot is taken when
// it falls inside a booking, or, with durationMinutes > 0, when a session of
// that length starting there would run into one.
func RemoveTaken(slots []string, bookings []models.Booking, durationMinutes int) []string {
	length := SlotMinutes
	if durationMinutes > 0 {
		length = durationMinutes
	}

	type span struct{ from, to int }
	var taken []span
	for _, b := range bookings {
		if !b.Active() {
			continue
		}
		from, err := ParseClock(b.StartTime)
		if err != nil {
			continue
		}
		taken = append(taken, span{from, from + b.DurationMinutes})
	}

	open := make([]string, 0, len(slots))
	for _, sl := range slots {
		t, err := ParseClock(sl)
		if err != nil {
			continue
		}
		free := true
		for _, sp := range taken {
			if t < sp.to && sp.from < t+length {
				free = false
				break
			}
		}
		if free {
			open = append(open, sl)
		}
	}
	return open
}

func (s *Service) removePast(slots []string, date, tz string) []string {
	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	now := s.Now().In(loc)
	today := now.Format(DateLayout)
	if date > today {
		return slots
	}
	if date < today {
		return []string{}
	}

	cutoff := now.Hour()*60 + now.Minute()
	open := make([]string, 0, len(slots))
	for _, sl := range slots {
		if t, err := ParseClock(sl); err == nil && t > cutoff {
			open = append(open, sl)
		}
	}
	return open
}
