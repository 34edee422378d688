// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extractors holds the built-in extractor plug-ins. Each plug-in
// is an ordinary implementation of the extractor contract; nothing here is
// special-cased by the dispatch layer.
package extractors

import (
	"go.uber.org/zap"

	"github.com/pdiddy/lineage-engine/internal/extractor"
	"github.com/pdiddy/lineage-engine/internal/registry"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

// paramTask is the configuration surface the built-in extractors read from
// a task instance. Tasks that do not expose it yield no metadata.
type paramTask interface {
	types.TaskInstance
	ID() string
	Param(key string) (string, bool)
}

// resultTask is the post-execution surface consumed by ExtractOnComplete.
type resultTask interface {
	types.TaskInstance
	Result() map[string]any
}

// Builtin returns factories for every built-in extractor, ready for
// registration.
func Builtin(log *zap.Logger, cfg types.ExtractionConfig) []registry.Factory {
	return []registry.Factory{
		func() extractor.Extractor { return NewBigQuery(log) },
		func() extractor.Extractor { return NewPostgres(log, cfg.DefaultNamespace) },
		func() extractor.Extractor { return NewScript(log) },
	}
}

// taskName derives the legacy record name from the task, preferring the
// execution ID over the type name.
func taskName(ti types.TaskInstance) string {
	if pt, ok := ti.(interface{ ID() string }); ok && pt.ID() != "" {
		return pt.ID()
	}
	return ti.TypeName()
}
