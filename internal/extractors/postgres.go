// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractors

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/lineage-engine/internal/extractor"
	"github.com/pdiddy/lineage-engine/internal/sqlparse"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

const postgresNamespace = "postgres"

// Postgres extracts lineage from Postgres tasks by scanning the configured
// SQL for table references. Malformed or missing SQL degrades to no
// metadata rather than failing the task.
type Postgres struct {
	extractor.Base
	defaultNamespace string
}

// NewPostgres builds an unbound Postgres extractor. defaultNamespace is
// used for datasets when the task names no connection; empty falls back
// to "postgres".
func NewPostgres(log *zap.Logger, defaultNamespace string) *Postgres {
	if defaultNamespace == "" {
		defaultNamespace = postgresNamespace
	}
	return &Postgres{
		Base:             extractor.NewBase(log, "PostgresOperator"),
		defaultNamespace: defaultNamespace,
	}
}

// Extract derives input and output datasets from the task's SQL. The
// dataset namespace comes from the task's connection parameter when set.
func (e *Postgres) Extract(_ context.Context) (*types.TaskMetadata, error) {
	if e.Task() == nil {
		return nil, extractor.ErrNotBound
	}
	t, ok := e.Task().(paramTask)
	if !ok {
		e.Logger().Debug("task exposes no parameters", zap.String("task_type", e.Task().TypeName()))
		return nil, nil
	}

	query, _ := t.Param("sql")
	if query == "" {
		return nil, nil
	}

	tables, err := sqlparse.Parse(query)
	if err != nil {
		// Extraction-internal failure: report nothing instead of erroring.
		e.Logger().Debug("could not derive tables from sql", zap.Error(err))
		return nil, nil
	}
	if tables.IsEmpty() {
		return nil, nil
	}

	namespace, ok := t.Param("connection")
	if !ok || namespace == "" {
		namespace = e.defaultNamespace
	}

	opts := []types.MetadataOption{
		types.WithJobFacet("sql", types.Facet{"query": query}),
	}
	for _, name := range tables.Inputs {
		opts = append(opts, types.WithInputs(types.Dataset{Namespace: namespace, Name: name}))
	}
	for _, name := range tables.Outputs {
		opts = append(opts, types.WithOutputs(types.Dataset{Namespace: namespace, Name: name}))
	}
	return types.NewTaskMetadata(taskName(t), opts...), nil
}

// ExtractOnComplete attaches the reported row count to the record.
func (e *Postgres) ExtractOnComplete(ctx context.Context, ti types.TaskInstance) (*types.TaskMetadata, error) {
	md, err := e.Extract(ctx)
	if md == nil || err != nil {
		return md, err
	}

	rt, ok := ti.(resultTask)
	if !ok {
		return md, nil
	}
	if rows, ok := rt.Result()["rows_affected"]; ok {
		md.RunFacets["statistics"] = types.Facet{"rows_affected": rows}
	}
	return md, nil
}
