// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest loads pipeline task definitions from YAML. A manifest
// is the CLI's stand-in for a live orchestrator: each entry describes one
// task execution, optionally with the results of a finished run.
package manifest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Manifest is the on-disk list of task definitions.
type Manifest struct {
	Tasks []*Task `yaml:"tasks"`
}

// Task is one task execution. It implements types.TaskInstance; the
// built-in extractors read Params through the Param accessor.
type Task struct {
	// TaskID identifies the execution within the pipeline.
	TaskID string `yaml:"id"`

	// Type is the task's runtime type name (e.g. "BigQueryOperator").
	Type string `yaml:"type"`

	// Params is the task's static configuration.
	Params map[string]string `yaml:"params,omitempty"`

	// RunResult carries post-execution state for tasks that have already
	// run (rows affected, artifacts). Nil means the task has not run.
	RunResult map[string]any `yaml:"result,omitempty"`
}

// TypeName returns the task's runtime type name.
func (t *Task) TypeName() string { return t.Type }

// ID returns the task's execution identifier.
func (t *Task) ID() string { return t.TaskID }

// Param returns a configuration value and whether it was set.
func (t *Task) Param(key string) (string, bool) {
	v, ok := t.Params[key]
	return v, ok
}

// Result returns the post-execution state, or nil before the task runs.
func (t *Task) Result() map[string]any { return t.RunResult }

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse unmarshals and validates manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	if len(m.Tasks) == 0 {
		return nil, fmt.Errorf("manifest declares no tasks")
	}

	seen := map[string]bool{}
	for i, t := range m.Tasks {
		if t.TaskID == "" {
			return nil, fmt.Errorf("task %d: missing id", i)
		}
		if t.Type == "" {
			return nil, fmt.Errorf("task %q: missing type", t.TaskID)
		}
		if seen[t.TaskID] {
			return nil, fmt.Errorf("task %q: duplicate id", t.TaskID)
		}
		seen[t.TaskID] = true
	}
	return &m, nil
}
