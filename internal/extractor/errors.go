// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoTaskTypes reports an extractor that never declared its supported
// task types. This is a programmer error and fails fast on first use.
var ErrNoTaskTypes = errors.New("extractor declares no supported task types")

// ErrNotBound reports an operation that requires a bound task instance
// invoked before Bind.
var ErrNotBound = errors.New("extractor is not bound to a task instance")

// ErrAlreadyBound reports a second Bind on the same extractor instance.
var ErrAlreadyBound = errors.New("extractor is already bound to a task instance")

// MismatchError reports a bound task instance whose runtime type name is
// outside the extractor's supported set.
type MismatchError struct {
	// TaskType is the bound task instance's runtime type name.
	TaskType string

	// Supported is the extractor's declared task-type set.
	Supported []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("mismatched extractor: task type %q not in supported set [%s]",
		e.TaskType, strings.Join(e.Supported, ", "))
}
