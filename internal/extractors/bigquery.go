// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractors

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/lineage-engine/internal/extractor"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

const bigqueryNamespace = "bigquery"

// BigQuery extracts lineage from BigQuery tasks. It reads the statically
// configured source and destination tables; row statistics become a run
// facet once the task has completed.
type BigQuery struct {
	extractor.Base
}

// NewBigQuery builds an unbound BigQuery extractor. The deprecated
// BigQueryExecuteQueryOperator alias subclasses the canonical operator in
// older pipelines, so both names are declared.
func NewBigQuery(log *zap.Logger) *BigQuery {
	return &BigQuery{Base: extractor.NewBase(log, "BigQueryOperator", "BigQueryExecuteQueryOperator")}
}

// Extract reads the task's table configuration. A task with no tables and
// no query yields no metadata.
func (e *BigQuery) Extract(_ context.Context) (*types.TaskMetadata, error) {
	if e.Task() == nil {
		return nil, extractor.ErrNotBound
	}
	t, ok := e.Task().(paramTask)
	if !ok {
		e.Logger().Debug("task exposes no parameters", zap.String("task_type", e.Task().TypeName()))
		return nil, nil
	}

	source, _ := t.Param("source_table")
	destination, _ := t.Param("destination_table")
	query, _ := t.Param("sql")
	if source == "" && destination == "" && query == "" {
		return nil, nil
	}

	var opts []types.MetadataOption
	if source != "" {
		opts = append(opts, types.WithInputs(types.Dataset{Namespace: bigqueryNamespace, Name: source}))
	}
	if destination != "" {
		opts = append(opts, types.WithOutputs(types.Dataset{Namespace: bigqueryNamespace, Name: destination}))
	}
	if query != "" {
		opts = append(opts, types.WithJobFacet("sql", types.Facet{"query": query}))
	}
	return types.NewTaskMetadata(taskName(t), opts...), nil
}

// ExtractOnComplete enriches the pre-completion record with output row
// statistics when the completed task reports them.
func (e *BigQuery) ExtractOnComplete(ctx context.Context, ti types.TaskInstance) (*types.TaskMetadata, error) {
	md, err := e.Extract(ctx)
	if md == nil || err != nil {
		return md, err
	}

	rt, ok := ti.(resultTask)
	if !ok {
		return md, nil
	}
	result := rt.Result()
	if len(result) == 0 {
		return md, nil
	}

	stats := types.Facet{}
	for _, key := range []string{"rows_affected", "bytes_processed"} {
		if v, ok := result[key]; ok {
			stats[key] = v
		}
	}
	if len(stats) > 0 {
		md.RunFacets["statistics"] = stats
	}
	return md, nil
}
