// Package attendance implements the attendance record store: the encoded
// punch list kept under one preferences key, the queries the history view
// needs, and the lateness/early-leave classification.
package attendance

// Storage location within the host preferences store. The whole record list
// lives as one flat string under this single key.
const (
	PrefsNamespace = "attendance_prefs"
	ListKey        = "attendance_list"
)

// maxRecords bounds the stored list; Append trims to the most recent punches.
const maxRecords = 100

// Type is the kind of punch event.
type Type string

const (
	TypeCheckIn  Type = "CHECK_IN"
	TypeCheckOut Type = "CHECK_OUT"
)

// ParseType maps the serialized variant name back to a Type.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeCheckIn, TypeCheckOut:
		return Type(s), true
	}
	return "", false
}

// Record is one punch event by one employee. Date and Time are pre-formatted
// display strings (see Calendar); Date is also the grouping key and is
// authoritative for day equality, while Timestamp is used only for ordering.
type Record struct {
	ID           string `json:"id"`
	Type         Type   `json:"type"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Location     string `json:"location"`
	Timestamp    int64  `json:"timestamp"`
	FaceVerified bool   `json:"face_verified"`
}

// DayPair holds the two expected punches of one calendar day. Either slot
// may be nil.
type DayPair struct {
	CheckIn  *Record `json:"check_in,omitempty"`
	CheckOut *Record `json:"check_out,omitempty"`
}
