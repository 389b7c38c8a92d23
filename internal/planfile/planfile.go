// Package planfile parses YAML plan definition files, the import format for
// bringing training plans into the database from disk.
package planfile

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is the top-level document of a plan definition file.
type Plan struct {
	Name string `yaml:"name"`
	Days []Day  `yaml:"days"`
}

// Day is one training day. Name is optional.
type Day struct {
	Name      string     `yaml:"name"`
	Exercises []Exercise `yaml:"exercises"`
}

// Exercise references a catalog exercise by name. Either Sets lists explicit
// planned sets, or SetCount declares a number of sets with no targets;
// exactly one of the two must be given.
type Exercise struct {
	Name     string `yaml:"name"`
	SetCount int    `yaml:"set_count"`
	Sets     []Set  `yaml:"sets"`
}

// Set is one planned set. Omitted fields mean "no target".
type Set struct {
	WeightKg *float64 `yaml:"weight_kg"`
	Reps     *int     `yaml:"reps"`
}

// Parse decodes and validates one plan definition.
func Parse(r io.Reader) (Plan, error) {
	var plan Plan
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&plan); err != nil {
		return Plan{}, fmt.Errorf("decode plan definition: %w", err)
	}
	if err := plan.validate(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// ParseFile reads and parses a plan definition file.
func ParseFile(path string) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, fmt.Errorf("open plan definition: %w", err)
	}
	defer f.Close()
	plan, err := Parse(f)
	if err != nil {
		return Plan{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return plan, nil
}

func (p Plan) validate() error {
	if p.Name == "" {
		return fmt.Errorf("plan name is required")
	}
	if len(p.Days) == 0 {
		return fmt.Errorf("plan %q has no days", p.Name)
	}
	for i, day := range p.Days {
		if len(day.Exercises) == 0 {
			return fmt.Errorf("plan %q day %d has no exercises", p.Name, i+1)
		}
		for _, ex := range day.Exercises {
			if ex.Name == "" {
				return fmt.Errorf("plan %q day %d has an exercise without a name", p.Name, i+1)
			}
			hasSets := len(ex.Sets) > 0
			hasCount := ex.SetCount > 0
			if hasSets == hasCount {
				return fmt.Errorf("plan %q exercise %q must set exactly one of sets or set_count", p.Name, ex.Name)
			}
		}
	}
	return nil
}
