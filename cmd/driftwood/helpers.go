package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"driftwood/internal/scenario"
)

// readStructure loads a JSON structure from a file, or stdin when path
// is "-" or empty.
func readStructure(path string) (any, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read structure: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse structure JSON: %w", err)
	}
	return v, nil
}

// loadScenario resolves a scenario by embedded name, or by file path when
// the argument ends in .yaml.
func loadScenario(name string) (*scenario.Scenario, error) {
	if fileScenario(name) {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read scenario: %w", err)
		}
		return scenario.Parse(data)
	}
	return scenario.Load(name)
}

func fileScenario(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// writeJSON pretty-prints v to a file, or stdout when path is "-" or empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
