// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/lineage-engine/internal/emit"
	"github.com/pdiddy/lineage-engine/internal/extractor"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

// Execution pairs a task instance with its execution identity and,
// when the task has already run, a post-completion view of it.
type Execution struct {
	// ID identifies the task execution within its pipeline.
	ID string

	// Task is the task instance extractors bind to.
	Task types.TaskInstance

	// Completed, when non-nil, is the same task carrying post-execution
	// state; it triggers the post-completion extraction pass.
	Completed types.TaskInstance
}

// Summary counts dispatch outcomes for one batch.
type Summary struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the number of task executions processed.
func (s Summary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any task execution failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Dispatcher routes task executions to registered extractors and forwards
// the resulting records, unmodified, to an emitter. Failures are isolated
// per task: one misbehaving extractor never halts the batch, and no state
// is shared between task executions.
type Dispatcher struct {
	reg     *Registry
	emitter emit.Emitter
	log     *zap.Logger
	strict  bool

	// now is stubbed in tests for stable event times.
	now func() time.Time
}

// NewDispatcher builds a dispatcher. A nil logger is replaced with a no-op
// logger. With cfg.Strict set, a task type with no registered extractor
// counts as a failure instead of a skip.
func NewDispatcher(reg *Registry, emitter emit.Emitter, log *zap.Logger, cfg types.ExtractionConfig) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		reg:     reg,
		emitter: emitter,
		log:     log,
		strict:  cfg.Strict,
		now:     time.Now,
	}
}

// Run processes every execution and returns the outcome counts. A task
// whose extractor legitimately finds nothing to report counts as skipped,
// never as failed.
func (d *Dispatcher) Run(ctx context.Context, execs []Execution) Summary {
	var summary Summary
	for _, ex := range execs {
		switch d.dispatch(ctx, ex) {
		case outcomeExtracted:
			summary.Extracted++
		case outcomeSkipped:
			summary.Skipped++
		case outcomeFailed:
			summary.Failed++
		}
	}
	return summary
}

type outcome int

const (
	outcomeExtracted outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (d *Dispatcher) dispatch(ctx context.Context, ex Execution) outcome {
	log := d.log.With(zap.String("task_id", ex.ID), zap.String("task_type", ex.Task.TypeName()))

	e, err := d.reg.ExtractorFor(ex.Task)
	if err != nil {
		log.Error("binding extractor failed", zap.Error(err))
		return outcomeFailed
	}
	if e == nil {
		if d.strict {
			log.Error("no extractor registered for task type")
			return outcomeFailed
		}
		log.Debug("no extractor registered for task type, skipping")
		return outcomeSkipped
	}

	if err := e.Validate(); err != nil {
		log.Warn("extractor validation failed", zap.Error(err))
		return outcomeFailed
	}

	emitted := false

	md, err := e.Extract(ctx)
	if err != nil {
		log.Error("extraction failed", zap.Error(err))
		return outcomeFailed
	}
	if md != nil {
		if err := d.forward(ctx, ex.ID, emit.PhaseStart, md); err != nil {
			log.Error("emitting record failed", zap.Error(err))
			return outcomeFailed
		}
		emitted = true
	}

	if ex.Completed != nil {
		md, err := extractor.ExtractOnComplete(ctx, e, ex.Completed)
		if err != nil {
			log.Error("post-completion extraction failed", zap.Error(err))
			return outcomeFailed
		}
		if md != nil {
			if err := d.forward(ctx, ex.ID, emit.PhaseComplete, md); err != nil {
				log.Error("emitting record failed", zap.Error(err))
				return outcomeFailed
			}
			emitted = true
		}
	}

	if !emitted {
		log.Debug("no metadata extracted")
		return outcomeSkipped
	}
	return outcomeExtracted
}

func (d *Dispatcher) forward(ctx context.Context, taskID, phase string, md *types.TaskMetadata) error {
	return d.emitter.Emit(ctx, emit.Record{
		TaskID:    taskID,
		Phase:     phase,
		EventTime: d.now(),
		Metadata:  md,
	})
}
