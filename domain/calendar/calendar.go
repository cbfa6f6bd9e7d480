/*
Package calendar decides whether two stays collide.

Stays are compared on whole days: a range starts at 00:00:00.000 of its
check-in day and ends at 23:59:59.999 of its check-out day, and two ranges
overlap when they share any instant. A guest checking out on the day another
checks in therefore collides with them; the turnover day is never shared.

Everything in this package is pure and never fails.
*/
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the calendar day format accepted from clients.
const dateLayout = "2006-01-02"

// Range is a closed interval of whole days.
type Range struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// Normalize widens start and end to the boundaries of their calendar days in loc.
// A nil loc means time.Local.
func Normalize(start, end time.Time, loc *time.Location) Range {
	if loc == nil {
		loc = time.Local
	}
	return Range{
		CheckIn:  StartOfDay(start, loc),
		CheckOut: EndOfDay(end, loc),
	}
}

// StartOfDay returns 00:00:00.000 of t's day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999 of t's day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] share an instant.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// Overlaps reports whether r and other share an instant.
func (r Range) Overlaps(other Range) bool {
	return Overlaps(r.CheckIn, r.CheckOut, other.CheckIn, other.CheckOut)
}

// Equal compares both bounds as instants, ignoring location.
func (r Range) Equal(other Range) bool {
	return r.CheckIn.Equal(other.CheckIn) && r.CheckOut.Equal(other.CheckOut)
}

// Nights counts calendar days from the check-in day to the check-out day,
// read in the check-in's location. A same-day stay is one night.
func (r Range) Nights() int {
	days := int(civilDay(r.CheckOut.In(r.CheckIn.Location())).Sub(civilDay(r.CheckIn)) / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}

func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.CheckIn.Format(dateLayout), r.CheckOut.Format(dateLayout))
}

// ParseDate reads either a calendar day ("2024-06-01") or an RFC 3339
// timestamp. Calendar days are interpreted in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", value)
	}
	return t, nil
}
