package output

import (
	"fmt"
	"strings"

	"github.com/staffsearch/staffsearch/internal/core"
)

// MarkdownFormatter renders results as a markdown table.
type MarkdownFormatter struct{}

// FormatSearch renders a search result page as Markdown.
func (f *MarkdownFormatter) FormatSearch(result *core.SearchResult, fields []core.Field) (string, error) {
	if result == nil {
		return "", nil
	}
	fields = selectedFields(fields)

	names := make([]string, len(fields))
	rules := make([]string, len(fields))
	for i, field := range fields {
		names[i] = string(field)
		rules[i] = strings.Repeat("-", max(3, len(names[i])))
	}

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(names, " | ") + " |\n")
	sb.WriteString("|" + strings.Join(rules, "|") + "|\n")

	for _, emp := range result.Employees {
		cells := make([]string, len(fields))
		for i, field := range fields {
			cells[i] = escapeMarkdownCell(cellValue(emp, field))
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	sb.WriteString(fmt.Sprintf("\n**Showing**: %s\n", summary(result)))
	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
