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

func TestScript_Extract(t *testing.T) {
	tests := []struct {
		name         string
		taskType     string
		params       map[string]string
		wantLanguage string
		wantSource   string
	}{
		{
			name:         "bash command",
			taskType:     "BashOperator",
			params:       map[string]string{"bash_command": "gsutil cp a gs://b"},
			wantLanguage: "bash",
			wantSource:   "gsutil cp a gs://b",
		},
		{
			name:         "python callable",
			taskType:     "PythonOperator",
			params:       map[string]string{"python_callable": "refresh_cache"},
			wantLanguage: "python",
			wantSource:   "refresh_cache",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewScript(nil)
			require.NoError(t, e.Bind(&testTask{id: "run", typeName: tt.taskType, params: tt.params}))
			require.NoError(t, e.Validate())

			md, err := e.Extract(context.Background())
			require.NoError(t, err)
			require.NotNil(t, md)

			assert.Empty(t, md.Inputs)
			assert.Empty(t, md.Outputs)
			assert.Equal(t, types.Facet{
				"language": tt.wantLanguage,
				"source":   tt.wantSource,
			}, md.JobFacets["sourceCode"])
		})
	}
}

func TestScript_NoSourceYieldsNoMetadata(t *testing.T) {
	e := NewScript(nil)
	require.NoError(t, e.Bind(&testTask{id: "noop", typeName: "BashOperator"}))

	md, err := e.Extract(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, md)
}

func TestScript_OnCompleteDefaultsToExtract(t *testing.T) {
	ti := &testTask{
		id:       "run",
		typeName: "BashOperator",
		params:   map[string]string{"bash_command": "date"},
	}

	e := NewScript(nil)
	require.NoError(t, e.Bind(ti))

	// Script has no completion path of its own; the shared helper must
	// hand back exactly the pre-completion record.
	want, err := e.Extract(context.Background())
	require.NoError(t, err)

	got, err := extractor.ExtractOnComplete(context.Background(), e, ti)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
