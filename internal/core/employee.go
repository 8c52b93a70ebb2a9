package core

import (
	"fmt"
	"strings"
)

// Status is the employment status of a directory entry.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusInactive   Status = "INACTIVE"
	StatusTerminated Status = "TERMINATED"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusActive, StatusInactive, StatusTerminated}

// ParseStatus validates a status value. Matching is exact.
func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusActive, StatusInactive, StatusTerminated:
		return Status(value), nil
	default:
		return "", fmt.Errorf("invalid status %q: must be one of ACTIVE, INACTIVE, TERMINATED", value)
	}
}

// Employee is a single employee directory entry.
type Employee struct {
	ID         string  `json:"id" yaml:"id"`
	FirstName  string  `json:"first_name" yaml:"first_name"`
	LastName   string  `json:"last_name" yaml:"last_name"`
	Email      *string `json:"email" yaml:"email,omitempty"`
	Phone      *string `json:"phone" yaml:"phone,omitempty"`
	Department *string `json:"department" yaml:"department,omitempty"`
	Position   *string `json:"position" yaml:"position,omitempty"`
	Location   *string `json:"location" yaml:"location,omitempty"`
	Status     Status  `json:"status" yaml:"status,omitempty"`
}

// Validate checks required fields and normalizes an empty status to ACTIVE.
func (e *Employee) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("employee id is required")
	}
	if strings.TrimSpace(e.FirstName) == "" {
		return fmt.Errorf("employee %s: first_name is required", e.ID)
	}
	if strings.TrimSpace(e.LastName) == "" {
		return fmt.Errorf("employee %s: last_name is required", e.ID)
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	if _, err := ParseStatus(string(e.Status)); err != nil {
		return fmt.Errorf("employee %s: %w", e.ID, err)
	}
	return nil
}

// Value returns the value of a single field, nil for unset optional fields.
func (e Employee) Value(field Field) any {
	switch field {
	case FieldID:
		return e.ID
	case FieldFirstName:
		return e.FirstName
	case FieldLastName:
		return e.LastName
	case FieldEmail:
		return e.Email
	case FieldPhone:
		return e.Phone
	case FieldDepartment:
		return e.Department
	case FieldPosition:
		return e.Position
	case FieldLocation:
		return e.Location
	case FieldStatus:
		return e.Status
	default:
		return nil
	}
}

// Project returns only the requested fields keyed by their wire name.
// An empty selection returns every field.
func (e Employee) Project(fields []Field) map[string]any {
	if len(fields) == 0 {
		fields = AllFields
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[string(f)] = e.Value(f)
	}
	return out
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
