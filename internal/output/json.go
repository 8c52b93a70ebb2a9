package output

import (
	"encoding/json"

	"github.com/staffsearch/staffsearch/internal/core"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

type searchDocument struct {
	Employees []map[string]any `json:"employees"`
	Total     int              `json:"total"`
}

// FormatSearch renders a search result page as JSON with only the selected fields.
func (f *JSONFormatter) FormatSearch(result *core.SearchResult, fields []core.Field) (string, error) {
	if result == nil {
		return "", nil
	}

	doc := searchDocument{
		Employees: make([]map[string]any, 0, len(result.Employees)),
		Total:     result.Total,
	}
	for _, emp := range result.Employees {
		doc.Employees = append(doc.Employees, emp.Project(fields))
	}

	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
