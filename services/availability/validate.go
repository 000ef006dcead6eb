package availability

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"interviewhub/models"
)

var ErrInvalidRule = errors.New("invalid availability rule")

// ValidateRules checks rules when an interviewer saves them. Reads never
// validate; a bad rule simply produces no slots.
func ValidateRules(rules []models.AvailabilityRule) error {
	seen := make(map[int]bool, len(rules))
	for i, r := range rules {
		if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
			return fmt.Errorf("%w: rule %d: dayOfWeek must be 0-6", ErrInvalidRule, i)
		}
		if seen[r.DayOfWeek] {
			return fmt.Errorf("%w: rule %d: more than one rule for day %d", ErrInvalidRule, i, r.DayOfWeek)
		}
		seen[r.DayOfWeek] = true

		start, err := ParseClock(r.StartTime)
		if err != nil {
			return fmt.Errorf("%w: rule %d: %v", ErrInvalidRule, i, err)
		}
		end, err := ParseClock(r.EndTime)
		if err != nil {
			return fmt.Errorf("%w: rule %d: %v", ErrInvalidRule, i, err)
		}
		if end <= start {
			return fmt.Errorf("%w: rule %d: endTime must be after startTime", ErrInvalidRule, i)
		}
		if r.Timezone != "" {
			if _, err := time.LoadLocation(r.Timezone); err != nil {
				return fmt.Errorf("%w: rule %d: unknown timezone %q", ErrInvalidRule, i, r.Timezone)
			}
		}
	}
	return nil
}
