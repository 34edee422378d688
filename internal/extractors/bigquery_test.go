// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lineage-engine/internal/extractor"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

func TestBigQuery_ExtractTables(t *testing.T) {
	e := NewBigQuery(nil)
	require.NoError(t, e.Bind(&testTask{
		id:       "copy_table",
		typeName: "BigQueryOperator",
		params: map[string]string{
			"source_table":      "project.ds.in",
			"destination_table": "project.ds.out",
		},
	}))
	require.NoError(t, e.Validate())

	md, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.NotNil(t, md)

	assert.Equal(t, "copy_table", md.Name)
	assert.Equal(t, []types.Dataset{{Namespace: "bigquery", Name: "project.ds.in"}}, md.Inputs)
	assert.Equal(t, []types.Dataset{{Namespace: "bigquery", Name: "project.ds.out"}}, md.Outputs)
	assert.Empty(t, md.RunFacets)
	assert.Empty(t, md.JobFacets)
}

func TestBigQuery_ValidateRejectsOtherOperator(t *testing.T) {
	e := NewBigQuery(nil)
	require.NoError(t, e.Bind(&testTask{typeName: "PostgresOperator"}))

	var mismatch *extractor.MismatchError
	require.ErrorAs(t, e.Validate(), &mismatch)
	assert.Equal(t, "PostgresOperator", mismatch.TaskType)
}

func TestBigQuery_SupportsDeprecatedAlias(t *testing.T) {
	e := NewBigQuery(nil)
	require.NoError(t, e.Bind(&testTask{typeName: "BigQueryExecuteQueryOperator"}))
	assert.NoError(t, e.Validate())
}

func TestBigQuery_QueryBecomesJobFacet(t *testing.T) {
	e := NewBigQuery(nil)
	require.NoError(t, e.Bind(&testTask{
		id:       "agg",
		typeName: "BigQueryOperator",
		params:   map[string]string{"sql": "SELECT 1"},
	}))

	md, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.NotNil(t, md)
	assert.Equal(t, types.Facet{"query": "SELECT 1"}, md.JobFacets["sql"])
	assert.Empty(t, md.Inputs)
	assert.Empty(t, md.Outputs)
}

func TestBigQuery_NoConfigurationYieldsNoMetadata(t *testing.T) {
	e := NewBigQuery(nil)
	require.NoError(t, e.Bind(&testTask{id: "noop", typeName: "BigQueryOperator"}))

	md, err := e.Extract(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, md)
}

func TestBigQuery_TaskWithoutParams(t *testing.T) {
	e := NewBigQuery(nil)
	require.NoError(t, e.Bind(&bareTask{typeName: "BigQueryOperator"}))

	md, err := e.Extract(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, md)
}

func TestBigQuery_ExtractBeforeBind(t *testing.T) {
	e := NewBigQuery(nil)
	_, err := e.Extract(context.Background())
	assert.ErrorIs(t, err, extractor.ErrNotBound)
}

func TestBigQuery_ExtractOnComplete(t *testing.T) {
	ti := &testTask{
		id:       "copy_table",
		typeName: "BigQueryOperator",
		params:   map[string]string{"destination_table": "project.ds.out"},
		result:   map[string]any{"rows_affected": 1042, "bytes_processed": 8192, "irrelevant": true},
	}

	e := NewBigQuery(nil)
	require.NoError(t, e.Bind(ti))

	md, err := e.ExtractOnComplete(context.Background(), ti)
	require.NoError(t, err)
	require.NotNil(t, md)
	assert.Equal(t, types.Facet{"rows_affected": 1042, "bytes_processed": 8192}, md.RunFacets["statistics"])
}

func TestBigQuery_ExtractOnCompleteWithoutResult(t *testing.T) {
	ti := &testTask{
		id:       "copy_table",
		typeName: "BigQueryOperator",
		params:   map[string]string{"destination_table": "project.ds.out"},
	}

	e := NewBigQuery(nil)
	require.NoError(t, e.Bind(ti))

	md, err := e.ExtractOnComplete(context.Background(), ti)
	require.NoError(t, err)
	require.NotNil(t, md)
	assert.Empty(t, md.RunFacets)
}
