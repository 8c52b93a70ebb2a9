package output

import (
	"fmt"
	"strings"

	"github.com/staffsearch/staffsearch/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter renders one page of search results restricted to the selected fields.
type Formatter interface {
	FormatSearch(result *core.SearchResult, fields []core.Field) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

func selectedFields(fields []core.Field) []core.Field {
	if len(fields) == 0 {
		return core.AllFields
	}
	return fields
}

// cellValue renders a field value for text output. Unset optional fields render empty.
func cellValue(emp core.Employee, field core.Field) string {
	switch v := emp.Value(field).(type) {
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case core.Status:
		return string(v)
	default:
		return ""
	}
}

func summary(result *core.SearchResult) string {
	return fmt.Sprintf("%d of %d", len(result.Employees), result.Total)
}
