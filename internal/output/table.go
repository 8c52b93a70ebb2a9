package output

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/staffsearch/staffsearch/internal/core"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatSearch renders a search result page as a table.
func (f *TableFormatter) FormatSearch(result *core.SearchResult, fields []core.Field) (string, error) {
	if result == nil {
		return "", nil
	}
	fields = selectedFields(fields)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(fields))
	for _, field := range fields {
		header = append(header, strings.ReplaceAll(string(field), "_", " "))
	}
	t.AppendHeader(header)

	for _, emp := range result.Employees {
		row := make(table.Row, 0, len(fields))
		for _, field := range fields {
			row = append(row, cellValue(emp, field))
		}
		t.AppendRow(row)
	}

	footer := make(table.Row, len(fields))
	footer[len(footer)-1] = summary(result)
	t.AppendFooter(footer)

	return t.Render(), nil
}
