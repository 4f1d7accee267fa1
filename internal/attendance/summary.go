package attendance

// Policy is the workday window both the monthly summarizer and the
// real-time punch checks consult. The mobile client used to duplicate these
// thresholds across widgets; here they live in one place.
type Policy struct {
	WorkStart Clock `json:"work_start"`
	WorkEnd   Clock `json:"work_end"`
}

// DefaultPolicy is the fixed 08:00–17:00 window.
func DefaultPolicy() Policy {
	return Policy{WorkStart: Clock{Hour: 8}, WorkEnd: Clock{Hour: 17}}
}

// IsLate reports whether a check-in clock is strictly after the work start.
func (p Policy) IsLate(t Clock) bool {
	return t.After(p.WorkStart)
}

// IsEarlyLeave reports whether a check-out clock is strictly before the work
// end.
func (p Policy) IsEarlyLeave(t Clock) bool {
	return t.Before(p.WorkEnd)
}

// AllowCheckOut reports whether the clock has reached the work end. This
// gate is advisory: callers use it to hold the check-out action, but the
// store never rejects an out-of-window record.
func (p Policy) AllowCheckOut(t Clock) bool {
	return !t.Before(p.WorkEnd)
}

// Summary is the monthly attendance breakdown shown on the history screen.
// Permission and Leave stay 0 here; they are filled from an external leave
// system that this store does not own.
type Summary struct {
	NoAttendance    int `json:"no_attendance"`
	Late            int `json:"late"`
	EarlyLeave      int `json:"early_leave"`
	Permission      int `json:"permission"`
	Leave           int `json:"leave"`
	MissingCheckOut int `json:"missing_check_out"`
}

// Summarize classifies one month's grouped days against the policy window.
// A day with only a check-out contributes to no counter. A day with both
// punches can count as late and early-leave at the same time.
func (p Policy) Summarize(grouped map[string]DayPair) Summary {
	var s Summary
	for _, day := range grouped {
		switch {
		case day.CheckIn == nil && day.CheckOut == nil:
			s.NoAttendance++
		case day.CheckIn != nil && day.CheckOut == nil:
			s.MissingCheckOut++
		case day.CheckIn != nil:
			if p.IsLate(ParseClock(day.CheckIn.Time)) {
				s.Late++
			}
			if p.IsEarlyLeave(ParseClock(day.CheckOut.Time)) {
				s.EarlyLeave++
			}
		}
	}
	return s
}
