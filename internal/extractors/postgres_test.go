// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lineage-engine/pkg/types"
)

func TestPostgres_ExtractFromSQL(t *testing.T) {
	e := NewPostgres(nil, "")
	require.NoError(t, e.Bind(&testTask{
		id:       "daily_report",
		typeName: "PostgresOperator",
		params: map[string]string{
			"sql": "INSERT INTO reports.daily SELECT day, sum(total) FROM orders GROUP BY day",
		},
	}))
	require.NoError(t, e.Validate())

	md, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.NotNil(t, md)

	assert.Equal(t, []types.Dataset{{Namespace: "postgres", Name: "orders"}}, md.Inputs)
	assert.Equal(t, []types.Dataset{{Namespace: "postgres", Name: "reports.daily"}}, md.Outputs)
	assert.Equal(t, types.Facet{"query": "INSERT INTO reports.daily SELECT day, sum(total) FROM orders GROUP BY day"}, md.JobFacets["sql"])
}

func TestPostgres_ConnectionNamespace(t *testing.T) {
	e := NewPostgres(nil, "")
	require.NoError(t, e.Bind(&testTask{
		id:       "read_users",
		typeName: "PostgresOperator",
		params: map[string]string{
			"sql":        "SELECT * FROM users",
			"connection": "postgres://warehouse:5432/analytics",
		},
	}))

	md, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.NotNil(t, md)
	assert.Equal(t, "postgres://warehouse:5432/analytics", md.Inputs[0].Namespace)
}

func TestPostgres_DegradesToNoMetadata(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
	}{
		{"no sql param", nil},
		{"empty sql", map[string]string{"sql": ""}},
		{"comment only", map[string]string{"sql": "-- nothing here"}},
		{"no table references", map[string]string{"sql": "SELECT 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewPostgres(nil, "")
			require.NoError(t, e.Bind(&testTask{
				id:       "t",
				typeName: "PostgresOperator",
				params:   tt.params,
			}))

			md, err := e.Extract(context.Background())
			assert.NoError(t, err, "extraction-internal problems must not propagate")
			assert.Nil(t, md)
		})
	}
}

func TestPostgres_ExtractOnComplete(t *testing.T) {
	ti := &testTask{
		id:       "prune",
		typeName: "PostgresOperator",
		params:   map[string]string{"sql": "DELETE FROM sessions WHERE expired"},
		result:   map[string]any{"rows_affected": 17},
	}

	e := NewPostgres(nil, "")
	require.NoError(t, e.Bind(ti))

	md, err := e.ExtractOnComplete(context.Background(), ti)
	require.NoError(t, err)
	require.NotNil(t, md)
	assert.Equal(t, types.Facet{"rows_affected": 17}, md.RunFacets["statistics"])
	assert.Equal(t, []types.Dataset{{Namespace: "postgres", Name: "sessions"}}, md.Outputs)
}
