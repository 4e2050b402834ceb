package pricing

import (
	"fmt"
	"time"

	"junkos/internal/pkg/errs"
)

// ClockTime is a minute of the day, written as "HH:MM" in UTC.
type ClockTime struct {
	minute int
}

func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, errs.NewValueIsInvalidErrorWithCause("time of day", fmt.Errorf("%q is not HH:MM", s))
	}
	return ClockTime{minute: t.Hour()*60 + t.Minute()}, nil
}

func ClockTimeOf(t time.Time) ClockTime {
	u := t.UTC()
	return ClockTime{minute: u.Hour()*60 + u.Minute()}
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.minute/60, c.minute%60)
}

// Window bounds are independent and inclusive: a zone with only a start
// applies from the start until midnight. A start after the end never matches.
type Window struct {
	start *ClockTime
	end   *ClockTime
}

// NewWindow parses optional "HH:MM" bounds; empty strings mean unbounded.
func NewWindow(start, end string) (Window, error) {
	var w Window
	if start != "" {
		s, err := ParseClockTime(start)
		if err != nil {
			return Window{}, err
		}
		w.start = &s
	}
	if end != "" {
		e, err := ParseClockTime(end)
		if err != nil {
			return Window{}, err
		}
		w.end = &e
	}
	return w, nil
}

func (w Window) Contains(at ClockTime) bool {
	if w.start != nil && at.minute < w.start.minute {
		return false
	}
	if w.end != nil && at.minute > w.end.minute {
		return false
	}
	return true
}

// Bounds returns the "HH:MM" bounds, empty when unset.
func (w Window) Bounds() (start, end string) {
	if w.start != nil {
		start = w.start.String()
	}
	if w.end != nil {
		end = w.end.String()
	}
	return start, end
}
