// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package emit forwards metadata records to an emission boundary. Emitters
// transport records unmodified; what the backend does with them is out of
// scope here.
package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lineage-engine/pkg/types"
)

// Extraction phases. A record is produced either before the task runs or
// after it completes.
const (
	PhaseStart    = "start"
	PhaseComplete = "complete"
)

// Record is the envelope handed to an emitter: the metadata record plus the
// execution identity the dispatcher knows and the extractor does not.
type Record struct {
	// TaskID identifies the task execution within its pipeline.
	TaskID string `json:"task_id" yaml:"task_id"`

	// Phase is PhaseStart or PhaseComplete.
	Phase string `json:"phase" yaml:"phase"`

	// EventTime is when the record was produced.
	EventTime time.Time `json:"event_time" yaml:"event_time"`

	// Metadata is the extractor's output, forwarded as-is.
	Metadata *types.TaskMetadata `json:"metadata" yaml:"metadata"`
}

// Emitter transports one record. Implementations must be safe for
// concurrent use by independent task executions.
type Emitter interface {
	Emit(ctx context.Context, rec Record) error
}

// Writer streams records to an io.Writer, one JSON object per line or one
// YAML document per record.
type Writer struct {
	w      io.Writer
	format types.EmitFormat
}

// NewWriter builds a writer emitter. An empty format defaults to JSON.
func NewWriter(w io.Writer, format types.EmitFormat) (*Writer, error) {
	switch format {
	case "", types.EmitJSON, types.EmitYAML:
	default:
		return nil, fmt.Errorf("unknown emit format %q (want json or yaml)", format)
	}
	if format == "" {
		format = types.EmitJSON
	}
	return &Writer{w: w, format: format}, nil
}

// Emit serializes the record to the underlying writer.
func (e *Writer) Emit(_ context.Context, rec Record) error {
	if e.format == types.EmitYAML {
		data, err := yaml.Marshal(&rec)
		if err != nil {
			return fmt.Errorf("marshaling record for %s: %w", rec.TaskID, err)
		}
		_, err = fmt.Fprintf(e.w, "---\n%s", data)
		return err
	}

	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("marshaling record for %s: %w", rec.TaskID, err)
	}
	_, err = fmt.Fprintf(e.w, "%s\n", data)
	return err
}

// Multi fans a record out to several emitters in order, stopping at the
// first failure.
type Multi []Emitter

// Emit forwards the record to every emitter.
func (m Multi) Emit(ctx context.Context, rec Record) error {
	for _, e := range m {
		if err := e.Emit(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
