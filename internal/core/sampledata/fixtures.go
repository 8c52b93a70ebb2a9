package sampledata

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/staffsearch/staffsearch/internal/core"
)

// fixtureFile is the on-disk layout of an employee fixture.
type fixtureFile struct {
	Employees []core.Employee `yaml:"employees"`
}

// LoadYAML decodes and validates employees from a YAML document of the form
//
//	employees:
//	  - id: EMP0001
//	    first_name: John
//	    last_name: Doe
func LoadYAML(r io.Reader) ([]core.Employee, error) {
	var doc fixtureFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode employee fixture: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Employees))
	for i := range doc.Employees {
		if err := doc.Employees[i].Validate(); err != nil {
			return nil, fmt.Errorf("employee fixture entry %d: %w", i, err)
		}
		id := doc.Employees[i].ID
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("employee fixture entry %d: duplicate id %s", i, id)
		}
		seen[id] = struct{}{}
	}
	return doc.Employees, nil
}

// LoadYAMLFile reads a fixture from path.
func LoadYAMLFile(path string) ([]core.Employee, error) {
	// #nosec G304 -- path is provided by the operator on the command line
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open employee fixture: %w", err)
	}
	defer f.Close() // nolint:errcheck // read-only file

	return LoadYAML(f)
}
