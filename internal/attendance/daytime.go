package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// indonesianMonths is the default month-name table. Record dates carry these
// names literally, so parsing and formatting must agree on them.
var indonesianMonths = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// TimeZoneSuffix is appended to every recorded time and treated as an opaque
// tag by parsers.
const TimeZoneSuffix = "WIB"

// Calendar carries the textual date/time conventions. The month-name table
// is configuration rather than a system locale, so a deployment outside
// Indonesia only needs a different table.
type Calendar struct {
	MonthNames [12]string
	Location   *time.Location
}

// DefaultCalendar returns the Indonesian calendar in the host's local zone.
func DefaultCalendar() Calendar {
	return Calendar{MonthNames: indonesianMonths, Location: time.Local}
}

// FormatDate renders "d MMMM yyyy": day without a leading zero, full month
// name, four-digit year. Example: "3 Mei 2025".
func (c Calendar) FormatDate(t time.Time) string {
	t = t.In(c.loc())
	return fmt.Sprintf("%d %s %d", t.Day(), c.MonthNames[t.Month()-1], t.Year())
}

// ParseDate reverses FormatDate. A leading zero on the day is tolerated.
func (c Calendar) ParseDate(s string) (time.Time, bool) {
	parts := strings.Split(s, " ")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	month := 0
	for i, name := range c.MonthNames {
		if name == parts[1] {
			month = i + 1
			break
		}
	}
	if month == 0 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, c.loc()), true
}

// FormatTime renders "HH:mm WIB".
func (c Calendar) FormatTime(t time.Time) string {
	t = t.In(c.loc())
	return fmt.Sprintf("%02d:%02d %s", t.Hour(), t.Minute(), TimeZoneSuffix)
}

// IsWeekend reports whether a record-format date string falls on Saturday or
// Sunday. Unparseable dates count as working days.
func (c Calendar) IsWeekend(date string) bool {
	t, ok := c.ParseDate(date)
	if !ok {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (c Calendar) loc() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ClockOf extracts the wall clock from a time value.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseClock reads the leading "HH:mm" out of a record time string, ignoring
// everything after the first space (the zone tag). Unparseable components
// default to 0.
func ParseClock(s string) Clock {
	hm, _, _ := strings.Cut(s, " ")
	h, m, _ := strings.Cut(hm, ":")
	var c Clock
	c.Hour, _ = strconv.Atoi(h)
	c.Minute, _ = strconv.Atoi(m)
	return c
}

// Before reports whether c is strictly earlier in the day than other.
func (c Clock) Before(other Clock) bool {
	return c.Hour < other.Hour || (c.Hour == other.Hour && c.Minute < other.Minute)
}

// After reports whether c is strictly later in the day than other.
func (c Clock) After(other Clock) bool {
	return other.Before(c)
}

// String renders "HH:mm".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
