// Package schema defines shared JSON document shapes stored in the
// preferences platform.
package schema

import "time"

// ProfileNamespace and ProfileKey locate an employee's profile document
// within their preferences.
const (
	ProfileNamespace = "employee_prefs"
	ProfileKey       = "profile"
)

// EmployeeProfile is the identity document the HR client shows next to the
// attendance history.
type EmployeeProfile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	JoinedAt   time.Time `json:"joined_at"`
}
