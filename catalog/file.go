package catalog

// file.go loads user-supplied catalogs from YAML, for sweeps over
// configurations the built-in catalogs don't cover.

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/splatsweep/splatsweep/model"
)

type fileCase struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Params      []model.Param `yaml:"params"`
}

// Load reads a catalog from a YAML file. The file is a list of entries:
//
//	- name: my_case
//	  description: optional free text
//	  params:
//	    - flag: num-iters
//	      value: "1000"
//
// Parameter order in the file is preserved. Duplicate names are rejected.
func Load(path string) ([]model.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var entries []fileCase
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no test cases", path)
	}

	cases := make([]model.TestCase, 0, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog file %s: entry %d has no name", path, i)
		}
		cases = append(cases, model.TestCase{
			Name:        e.Name,
			Description: e.Description,
			Params:      e.Params,
		})
	}

	if err := Validate(cases); err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}
	return cases, nil
}
