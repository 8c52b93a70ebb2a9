package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {
	t.Run("EmptySelectsAll", func(t *testing.T) {
		fields, err := ParseFields("")
		require.NoError(t, err)
		assert.Nil(t, fields)
	})

	t.Run("TrimsEntries", func(t *testing.T) {
		fields, err := ParseFields(" first_name , last_name , email ")
		require.NoError(t, err)
		assert.Equal(t, []Field{FieldFirstName, FieldLastName, FieldEmail}, fields)
	})

	rejected := []struct {
		name    string
		input   string
		invalid string
	}{
		{"SubqueryInjection", "*, (SELECT password FROM users)", "*"},
		{"DropTable", "* FROM employees; DROP TABLE employees; --", "* FROM employees; DROP TABLE employees; --"},
		{"Union", "id UNION SELECT password FROM admin_users", "id UNION SELECT password FROM admin_users"},
		{"Semicolon", "id; DELETE FROM employees", "id; DELETE FROM employees"},
		{"MixedValidInvalid", "first_name,malicious_field,last_name", "malicious_field"},
		{"CaseSensitiveUpper", "FIRST_NAME,LAST_NAME", "FIRST_NAME"},
		{"CaseSensitiveMixed", "First_Name", "First_Name"},
		{"TrailingComma", "id,", ""},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFields(tt.input)
			require.Error(t, err)

			var fieldErr *InvalidFieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.invalid, fieldErr.Field)
			assert.Contains(t, err.Error(), "Invalid field")
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("active")
	assert.Error(t, err)
}

func TestEmployeeProject(t *testing.T) {
	emp := Employee{
		ID:         "EMP0001",
		FirstName:  "John",
		LastName:   "Doe",
		Email:      StringPtr("john.doe@test.com"),
		Department: StringPtr("Engineering"),
		Status:     StatusActive,
	}

	projected := emp.Project([]Field{FieldFirstName, FieldEmail})
	assert.Len(t, projected, 2)
	assert.Equal(t, "John", projected["first_name"])
	assert.Equal(t, emp.Email, projected["email"])

	all := emp.Project(nil)
	assert.Len(t, all, len(AllFields))
	assert.Nil(t, all["phone"])
}

func TestEmployeeValidate(t *testing.T) {
	emp := Employee{ID: "EMP0001", FirstName: "John", LastName: "Doe"}
	require.NoError(t, emp.Validate())
	assert.Equal(t, StatusActive, emp.Status)

	missing := Employee{ID: "EMP0002", FirstName: "Jane"}
	assert.Error(t, missing.Validate())

	bad := Employee{ID: "EMP0003", FirstName: "Bob", LastName: "Smith", Status: "RETIRED"}
	assert.Error(t, bad.Validate())
}

func TestSearchQueryNormalize(t *testing.T) {
	q := SearchQuery{}
	require.NoError(t, q.Normalize())
	assert.Equal(t, DefaultSearchLimit, q.Limit)

	q = SearchQuery{Limit: MaxSearchLimit + 1}
	assert.Error(t, q.Normalize())

	q = SearchQuery{Limit: 10, Offset: -1}
	assert.Error(t, q.Normalize())
}
