// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/pdiddy/lineage-engine/pkg/types"
)

// Base carries the bind-once bookkeeping and validation shared by extractor
// implementations. Embed it and declare the supported task types at
// construction:
//
//	type fooExtractor struct {
//		extractor.Base
//	}
//
//	func newFoo(log *zap.Logger) *fooExtractor {
//		return &fooExtractor{Base: extractor.NewBase(log, "FooOperator")}
//	}
//
// A zero-value Base declares no task types; Validate on it returns
// ErrNoTaskTypes so an extractor missing its declaration cannot be
// silently skipped.
type Base struct {
	log       *zap.Logger
	taskTypes []string
	task      types.TaskInstance
}

// NewBase builds the shared extractor state. A nil logger is replaced with
// a no-op logger.
func NewBase(log *zap.Logger, taskTypes ...string) Base {
	if log == nil {
		log = zap.NewNop()
	}
	return Base{log: log, taskTypes: taskTypes}
}

// SupportedTaskTypes returns a copy of the declared task-type set.
func (b *Base) SupportedTaskTypes() []string {
	return slices.Clone(b.taskTypes)
}

// Bind stores the task instance. It fails with ErrAlreadyBound on a second
// call: binding happens exactly once per extractor instance, and its side
// effects (none here; concrete extractors may add their own by wrapping
// Bind) are not required to tolerate repetition.
func (b *Base) Bind(ti types.TaskInstance) error {
	if b.task != nil {
		return ErrAlreadyBound
	}
	if ti == nil {
		return fmt.Errorf("bind: nil task instance")
	}
	b.task = ti
	return nil
}

// Task returns the bound task instance, or nil before Bind.
func (b *Base) Task() types.TaskInstance {
	return b.task
}

// Logger returns the extractor's logger.
func (b *Base) Logger() *zap.Logger {
	return b.log
}

// Validate checks that the bound task's type name is in the declared set.
// It is pure and idempotent; callers may repeat it freely.
func (b *Base) Validate() error {
	if len(b.taskTypes) == 0 {
		return ErrNoTaskTypes
	}
	if b.task == nil {
		return ErrNotBound
	}
	if !slices.Contains(b.taskTypes, b.task.TypeName()) {
		return &MismatchError{
			TaskType:  b.task.TypeName(),
			Supported: slices.Clone(b.taskTypes),
		}
	}
	return nil
}
