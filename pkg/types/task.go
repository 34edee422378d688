// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TaskInstance is the orchestrator-side view of one task execution. The
// extraction core needs only a stable runtime type name for dispatch;
// concrete extractors type-assert for the implementation-specific
// configuration they read.
type TaskInstance interface {
	// TypeName returns the task's runtime type name (e.g. "BigQueryOperator").
	// The name must be stable across the task's lifetime.
	TypeName() string
}
