package core

import (
	"fmt"
	"strings"
)

// Field names a selectable employee attribute. The set is closed: anything outside
// AllFields is rejected before it can reach a query.
type Field string

const (
	FieldID         Field = "id"
	FieldFirstName  Field = "first_name"
	FieldLastName   Field = "last_name"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldDepartment Field = "department"
	FieldPosition   Field = "position"
	FieldLocation   Field = "location"
	FieldStatus     Field = "status"
)

// AllFields is the selectable field whitelist in canonical order.
var AllFields = []Field{
	FieldID,
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldDepartment,
	FieldPosition,
	FieldLocation,
	FieldStatus,
}

// InvalidFieldError reports a select entry outside the whitelist.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("Invalid field '%s' in select parameter", e.Field)
}

// IsValidField reports whether name is in the whitelist. Matching is case-sensitive.
func IsValidField(name string) bool {
	for _, f := range AllFields {
		if string(f) == name {
			return true
		}
	}
	return false
}

// ParseFields parses a comma-separated select parameter. Entries are trimmed.
// An empty parameter selects every field and returns nil.
func ParseFields(selectParam string) ([]Field, error) {
	if selectParam == "" {
		return nil, nil
	}

	parts := strings.Split(selectParam, ",")
	fields := make([]Field, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if !IsValidField(name) {
			return nil, &InvalidFieldError{Field: name}
		}
		fields = append(fields, Field(name))
	}
	return fields, nil
}
