// Package availability turns an interviewer's weekly rules into bookable
// start times for a calendar date.
package availability

import (
	"fmt"
	"time"

	"interviewhub/models"
)

// SlotMinutes is the spacing between offered start times.
const SlotMinutes = 15

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// MatchRule returns the first rule for the given weekday.
func MatchRule(rules []models.AvailabilityRule, day time.Weekday) (models.AvailabilityRule, bool) {
	for _, r := range rules {
		if r.DayOfWeek == int(day) {
			return r, true
		}
	}
	return models.AvailabilityRule{}, false
}

// DeriveSlots lists start + k*15min for every k with the result before end,
// for the rule matching date's weekday, ascending, as "HH:MM". Steps count
// from the rule's start, so 09:00-09:40 gives 09:00, 09:15, 09:30 and
// 09:10-09:40 gives 09:10, 09:25.
// No matching rule, or a rule with malformed times, yields an empty list.
func DeriveSlots(rules []models.AvailabilityRule, date time.Time) []string {
	rule, ok := MatchRule(rules, date.Weekday())
	if !ok {
		return []string{}
	}
	return ruleSlots(rule)
}

func ruleSlots(rule models.AvailabilityRule) []string {
	start, err := ParseClock(rule.StartTime)
	if err != nil {
		return []string{}
	}
	end, err := ParseClock(rule.EndTime)
	if err != nil || end <= start {
		return []string{}
	}

	slots := make([]string, 0, (end-start)/SlotMinutes+1)
	for t := start; t < end; t += SlotMinutes {
		slots = append(slots, FormatClock(t))
	}
	return slots
}

// ParseClock parses a strict "HH:MM" string into minutes after midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, ok1 := twoDigits(s[0], s[1])
	m, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes after midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
