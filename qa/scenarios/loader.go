// Package scenarios runs regression scenarios described in YAML files
// against the search engine.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/geodeplan/core/model"
)

// Expected holds the outcome a scenario must reproduce.
type Expected struct {
	Value int `yaml:"value"`
}

// Scenario is one blueprint searched at one or more horizons.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	BlueprintID int      `yaml:"blueprint_id,omitempty"`
	Matrix      [][]int  `yaml:"matrix"`
	Horizon     int      `yaml:"horizon"`
	Expected    Expected `yaml:"expected"`
}

// Blueprint builds the scenario blueprint.
func (s Scenario) Blueprint() (model.Blueprint, error) {
	id := s.BlueprintID
	if id == 0 {
		id = 1
	}
	return model.NewBlueprint(id, s.Matrix)
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario name is required", path)
	}
	return &sc, nil
}
