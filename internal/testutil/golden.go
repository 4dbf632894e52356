// Package testutil provides shared test helpers for kalk's scenario tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lifers/kalkucilik/pkg/evaluator"
)

// ScenariosDir is the scenario root relative to the module root.
const ScenariosDir = "testdata/scenarios"

// Scenario is a sequence of lines fed to one fresh session.
type Scenario struct {
	Description string            `json:"description,omitempty"`
	Steps       []Step            `json:"steps"`
	Variables   map[string]string `json:"variables,omitempty"`
}

// Step is one line and what evaluating it must produce. A committed step
// updates the session; otherwise the line is only previewed.
type Step struct {
	Input  string         `json:"input"`
	Commit bool           `json:"commit,omitempty"`
	Expect ExpectedResult `json:"expect"`
}

// ExpectedResult describes the outcome of one step. Code is the
// diagnostic code expected for an invalid line.
type ExpectedResult struct {
	Name string         `json:"name,omitempty"`
	Text string         `json:"text"`
	Kind evaluator.Kind `json:"kind"`
	Code string         `json:"code,omitempty"`
}

// LoadScenario loads a scenario from a directory containing scenario.json.
func LoadScenario(dir string) (*Scenario, error) {
	data, err := os.ReadFile(filepath.Join(dir, "scenario.json"))
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", dir)
	}
	return &s, nil
}

// ListScenarios returns all scenario directories under root, sorted.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			scenarioPath := filepath.Join(root, e.Name(), "scenario.json")
			if _, err := os.Stat(scenarioPath); err == nil {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
