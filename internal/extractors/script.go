// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractors

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/lineage-engine/internal/extractor"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

// Script extracts lineage from opaque script tasks. Scripts declare no
// datasets; the value is the sourceCode job facet, which lets the backend
// show what a task runs even when its inputs and outputs are unknown.
type Script struct {
	extractor.Base
}

// NewScript builds an unbound script extractor.
func NewScript(log *zap.Logger) *Script {
	return &Script{Base: extractor.NewBase(log, "BashOperator", "PythonOperator")}
}

// Extract attaches the configured command or callable as a sourceCode job
// facet. A script task with no configured source yields no metadata.
func (e *Script) Extract(_ context.Context) (*types.TaskMetadata, error) {
	if e.Task() == nil {
		return nil, extractor.ErrNotBound
	}
	t, ok := e.Task().(paramTask)
	if !ok {
		e.Logger().Debug("task exposes no parameters", zap.String("task_type", e.Task().TypeName()))
		return nil, nil
	}

	language, source := scriptSource(t)
	if source == "" {
		return nil, nil
	}

	return types.NewTaskMetadata(taskName(t),
		types.WithJobFacet("sourceCode", types.Facet{
			"language": language,
			"source":   source,
		}),
	), nil
}

// scriptSource picks the script payload by task type.
func scriptSource(t paramTask) (language, source string) {
	switch t.TypeName() {
	case "BashOperator":
		source, _ = t.Param("bash_command")
		return "bash", source
	case "PythonOperator":
		source, _ = t.Param("python_callable")
		return "python", source
	}
	return "", ""
}
