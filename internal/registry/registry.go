// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry maps task-type names to extractor factories and drives
// extraction for batches of task executions. Dispatch is a pure map lookup
// on the task's runtime type name; no reflection over the task itself.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/lineage-engine/internal/extractor"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

// Factory constructs one fresh, unbound extractor instance. Construction
// must be pure; binding is a separate phase.
type Factory func() extractor.Extractor

// Entry describes one registered task-type mapping, for reporting.
type Entry struct {
	TaskType  string
	Extractor string
}

type binding struct {
	name    string
	factory Factory
}

// Registry is the capability map built at process start. It is safe for
// concurrent lookups while the orchestrator runs tasks in parallel.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]binding
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{bindings: map[string]binding{}}
}

// Register probes the factory for its declared task types and maps each of
// them to it. A factory whose extractor declares no task types is rejected
// with ErrNoTaskTypes — registration is the first use, so the programmer
// error surfaces immediately. A task type already claimed by another
// extractor is also an error.
func (r *Registry) Register(f Factory) error {
	probe := f()
	name := extractorName(probe)

	taskTypes := probe.SupportedTaskTypes()
	if len(taskTypes) == 0 {
		return fmt.Errorf("registering %s: %w", name, extractor.ErrNoTaskTypes)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tt := range taskTypes {
		if prev, ok := r.bindings[tt]; ok {
			return fmt.Errorf("registering %s: task type %q already registered to %s", name, tt, prev.name)
		}
	}
	for _, tt := range taskTypes {
		r.bindings[tt] = binding{name: name, factory: f}
	}
	return nil
}

// Lookup returns the factory registered for a task-type name.
func (r *Registry) Lookup(taskType string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[taskType]
	if !ok {
		return nil, false
	}
	return b.factory, true
}

// ExtractorFor constructs a fresh extractor for the task instance and binds
// it. It returns (nil, nil) when no extractor is registered for the task's
// type; the caller decides whether that is a skip or a failure.
func (r *Registry) ExtractorFor(ti types.TaskInstance) (extractor.Extractor, error) {
	f, ok := r.Lookup(ti.TypeName())
	if !ok {
		return nil, nil
	}
	e := f()
	if err := e.Bind(ti); err != nil {
		return nil, fmt.Errorf("binding extractor for %q: %w", ti.TypeName(), err)
	}
	return e, nil
}

// Entries lists the registered mappings sorted by task type.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.bindings))
	for tt, b := range r.bindings {
		entries = append(entries, Entry{TaskType: tt, Extractor: b.name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].TaskType < entries[j].TaskType })
	return entries
}

// extractorName derives a short display name from the extractor's Go type.
func extractorName(e extractor.Extractor) string {
	name := fmt.Sprintf("%T", e)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
