// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lineage-engine/internal/emit"
	"github.com/pdiddy/lineage-engine/internal/extractor"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

// captureEmitter records everything it is handed.
type captureEmitter struct {
	records []emit.Record
	err     error
}

func (e *captureEmitter) Emit(_ context.Context, rec emit.Record) error {
	if e.err != nil {
		return e.err
	}
	e.records = append(e.records, rec)
	return nil
}

// completionFake also implements the post-completion path.
type completionFake struct {
	fakeExtractor
	completeMD *types.TaskMetadata
}

func (e *completionFake) ExtractOnComplete(_ context.Context, _ types.TaskInstance) (*types.TaskMetadata, error) {
	return e.completeMD, nil
}

func newDispatcher(t *testing.T, reg *Registry, sink emit.Emitter, strict bool) *Dispatcher {
	t.Helper()
	return NewDispatcher(reg, sink, nil, types.ExtractionConfig{Strict: strict})
}

func TestDispatcher_EmitsStartRecord(t *testing.T) {
	md := types.NewTaskMetadata("load",
		types.WithInputs(types.Dataset{Namespace: "bigquery", Name: "project.ds.in"}))

	reg := New()
	require.NoError(t, reg.Register(fakeFactory(md, "BigQueryOperator")))

	sink := &captureEmitter{}
	d := newDispatcher(t, reg, sink, false)

	summary := d.Run(context.Background(), []Execution{
		{ID: "load", Task: &fakeTask{typeName: "BigQueryOperator"}},
	})

	assert.Equal(t, Summary{Extracted: 1}, summary)
	require.Len(t, sink.records, 1)
	assert.Equal(t, "load", sink.records[0].TaskID)
	assert.Equal(t, emit.PhaseStart, sink.records[0].Phase)
	// The record passes through unmodified.
	assert.Same(t, md, sink.records[0].Metadata)
}

func TestDispatcher_EmitsCompletionRecord(t *testing.T) {
	startMD := types.NewTaskMetadata("load")
	completeMD := types.NewTaskMetadata("load",
		types.WithRunFacet("statistics", types.Facet{"rows": 10}))

	reg := New()
	require.NoError(t, reg.Register(func() extractor.Extractor {
		return &completionFake{
			fakeExtractor: fakeExtractor{Base: extractor.NewBase(nil, "BigQueryOperator"), md: startMD},
			completeMD:    completeMD,
		}
	}))

	sink := &captureEmitter{}
	d := newDispatcher(t, reg, sink, false)

	ti := &fakeTask{typeName: "BigQueryOperator"}
	summary := d.Run(context.Background(), []Execution{
		{ID: "load", Task: ti, Completed: ti},
	})

	assert.Equal(t, Summary{Extracted: 1}, summary)
	require.Len(t, sink.records, 2)
	assert.Equal(t, emit.PhaseStart, sink.records[0].Phase)
	assert.Equal(t, emit.PhaseComplete, sink.records[1].Phase)
	assert.Same(t, completeMD, sink.records[1].Metadata)
}

func TestDispatcher_NoMetadataIsSkipNotFailure(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(fakeFactory(nil, "BashOperator")))

	sink := &captureEmitter{}
	d := newDispatcher(t, reg, sink, false)

	summary := d.Run(context.Background(), []Execution{
		{ID: "noop", Task: &fakeTask{typeName: "BashOperator"}},
	})

	assert.Equal(t, Summary{Skipped: 1}, summary)
	assert.Empty(t, sink.records)
}

func TestDispatcher_UnknownTaskType(t *testing.T) {
	reg := New()

	tests := []struct {
		name   string
		strict bool
		want   Summary
	}{
		{"lenient skips", false, Summary{Skipped: 1}},
		{"strict fails", true, Summary{Failed: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &captureEmitter{}
			d := newDispatcher(t, reg, sink, tt.strict)
			summary := d.Run(context.Background(), []Execution{
				{ID: "t", Task: &fakeTask{typeName: "UnknownOperator"}},
			})
			assert.Equal(t, tt.want, summary)
			assert.Empty(t, sink.records)
		})
	}
}

func TestDispatcher_IsolatesFailures(t *testing.T) {
	good := types.NewTaskMetadata("good")
	reg := New()
	require.NoError(t, reg.Register(fakeFactory(good, "BigQueryOperator")))
	require.NoError(t, reg.Register(func() extractor.Extractor {
		return &fakeExtractor{
			Base: extractor.NewBase(nil, "BrokenOperator"),
			err:  errors.New("contract violation"),
		}
	}))

	sink := &captureEmitter{}
	d := newDispatcher(t, reg, sink, false)

	// The broken task fails; the surrounding tasks still extract.
	summary := d.Run(context.Background(), []Execution{
		{ID: "a", Task: &fakeTask{typeName: "BigQueryOperator"}},
		{ID: "b", Task: &fakeTask{typeName: "BrokenOperator"}},
		{ID: "c", Task: &fakeTask{typeName: "BigQueryOperator"}},
	})

	assert.Equal(t, Summary{Extracted: 2, Failed: 1}, summary)
	assert.Len(t, sink.records, 2)
}

func TestDispatcher_EmitterFailureCountsAsFailed(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(fakeFactory(types.NewTaskMetadata("t"), "BigQueryOperator")))

	sink := &captureEmitter{err: errors.New("backend down")}
	d := newDispatcher(t, reg, sink, false)

	summary := d.Run(context.Background(), []Execution{
		{ID: "t", Task: &fakeTask{typeName: "BigQueryOperator"}},
	})
	assert.Equal(t, Summary{Failed: 1}, summary)
}

func TestSummary(t *testing.T) {
	s := Summary{Extracted: 2, Skipped: 1, Failed: 1}
	assert.Equal(t, 4, s.Total())
	assert.True(t, s.HasFailures())
	assert.False(t, Summary{Extracted: 3}.HasFailures())
}
