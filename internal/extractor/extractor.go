// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extractor defines the contract between the dispatch layer and the
// per-task-type lineage extractors. An extractor instance serves exactly one
// task execution: construct it, bind it to the task instance, optionally
// validate the binding, extract once or twice, discard it.
package extractor

import (
	"context"

	"github.com/pdiddy/lineage-engine/pkg/types"
)

// Extractor produces lineage metadata for the task instance it is bound to.
//
// Extract returning (nil, nil) means "no metadata": the task genuinely
// produced nothing extractable. That is a normal outcome, not a failure;
// implementations should prefer it over propagating extraction-internal
// errors from missing or malformed task configuration. Contract violations
// (extracting before Bind, operating on the wrong task type) do propagate.
type Extractor interface {
	// SupportedTaskTypes declares the task-type names this extractor
	// handles, including deprecated aliases that shadow a canonical
	// implementation. The set is a static capability, not instance state.
	// An extractor that declares nothing fails its first Validate and is
	// rejected at registration with ErrNoTaskTypes.
	SupportedTaskTypes() []string

	// Bind associates the extractor with exactly one task instance and may
	// perform one-time side effects on it (e.g. registering instrumentation
	// hooks). Bind must complete before Validate or Extract is invoked.
	// A second Bind on the same extractor is a caller error.
	Bind(ti types.TaskInstance) error

	// Validate confirms the bound task's runtime type name is a member of
	// SupportedTaskTypes. It is a cheap, pure, repeatable check; a mismatch
	// is reported as a *MismatchError. Extract does not re-check this.
	Validate() error

	// Extract derives metadata from the task's static configuration,
	// before or independent of task completion.
	Extract(ctx context.Context) (*types.TaskMetadata, error)
}

// CompletionExtractor is implemented by extractors that can enrich their
// output with post-execution state (rows affected, generated artifacts)
// unavailable before the task runs.
type CompletionExtractor interface {
	Extractor

	// ExtractOnComplete derives metadata after the task has finished. The
	// given task instance carries post-execution state and refers to the
	// same task the extractor is bound to.
	ExtractOnComplete(ctx context.Context, ti types.TaskInstance) (*types.TaskMetadata, error)
}

// ExtractOnComplete runs e's post-completion path when it implements
// CompletionExtractor and falls back to Extract otherwise, so extractors
// that need no post-run information degrade gracefully to their
// pre-completion output.
func ExtractOnComplete(ctx context.Context, e Extractor, ti types.TaskInstance) (*types.TaskMetadata, error) {
	if ce, ok := e.(CompletionExtractor); ok {
		return ce.ExtractOnComplete(ctx, ti)
	}
	return e.Extract(ctx)
}
