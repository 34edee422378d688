// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Dataset identifies a data source or sink consumed or produced by a task.
// The pair (namespace, name) is the dataset's identity; nothing else about
// the underlying storage is modeled here.
type Dataset struct {
	// Namespace scopes the dataset name (e.g. "bigquery", "postgres://host").
	Namespace string `json:"namespace" yaml:"namespace"`

	// Name is the dataset identifier within its namespace (e.g. "project.ds.table").
	Name string `json:"name" yaml:"name"`
}

// Facet is an opaque structured payload attached to a run or job. Facet
// contents are not validated here; they are forwarded as-is to the
// emission boundary.
type Facet map[string]any

// TaskMetadata records the lineage facts of one task execution: the
// datasets it reads and writes plus facets describing the run and the job
// definition. A record is never mutated after construction; the dispatcher
// forwards it unmodified.
type TaskMetadata struct {
	// Name is a legacy task identifier retained for backward compatibility.
	// Prefer deriving identity from the task instance itself.
	Name string `json:"name" yaml:"name"`

	// Inputs are the datasets the task reads, in declaration order.
	// An empty slice means "no declared inputs".
	Inputs []Dataset `json:"inputs" yaml:"inputs"`

	// Outputs are the datasets the task writes, in declaration order.
	Outputs []Dataset `json:"outputs" yaml:"outputs"`

	// RunFacets describe this specific execution, keyed by facet name.
	RunFacets map[string]Facet `json:"run_facets" yaml:"run_facets"`

	// JobFacets describe the task definition independent of any run,
	// keyed by facet name.
	JobFacets map[string]Facet `json:"job_facets" yaml:"job_facets"`
}

// MetadataOption configures a TaskMetadata under construction.
type MetadataOption func(*TaskMetadata)

// WithInputs appends input datasets.
func WithInputs(datasets ...Dataset) MetadataOption {
	return func(md *TaskMetadata) {
		md.Inputs = append(md.Inputs, datasets...)
	}
}

// WithOutputs appends output datasets.
func WithOutputs(datasets ...Dataset) MetadataOption {
	return func(md *TaskMetadata) {
		md.Outputs = append(md.Outputs, datasets...)
	}
}

// WithRunFacet attaches a run facet under name. A repeated name overwrites
// the earlier facet; map semantics keep keys unique.
func WithRunFacet(name string, facet Facet) MetadataOption {
	return func(md *TaskMetadata) {
		md.RunFacets[name] = facet
	}
}

// WithJobFacet attaches a job facet under name.
func WithJobFacet(name string, facet Facet) MetadataOption {
	return func(md *TaskMetadata) {
		md.JobFacets[name] = facet
	}
}

// NewTaskMetadata builds a metadata record. Every collection an option does
// not populate defaults to its empty form, never nil, so callers can range
// and serialize without nil checks.
func NewTaskMetadata(name string, opts ...MetadataOption) *TaskMetadata {
	md := &TaskMetadata{
		Name:      name,
		Inputs:    []Dataset{},
		Outputs:   []Dataset{},
		RunFacets: map[string]Facet{},
		JobFacets: map[string]Facet{},
	}
	for _, opt := range opts {
		opt(md)
	}
	return md
}
