// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/lineage-engine/internal/httputil"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

const defaultTimeout = 30 * time.Second

// HTTP posts records as JSON to a lineage backend endpoint. It retries on
// rate limiting and transient upstream failures; a non-2xx final response
// is an error.
type HTTP struct {
	url        string
	apiKey     string
	userAgent  string
	maxRetries int
	client     *http.Client
}

// NewHTTP builds an HTTP emitter from the emission config. cfg.BackendURL
// must be set.
func NewHTTP(cfg types.EmitConfig) (*HTTP, error) {
	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("http emitter: backend URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTP{
		url:        cfg.BackendURL,
		apiKey:     cfg.BackendAPIKey,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// Emit posts the record.
func (e *HTTP) Emit(ctx context.Context, rec Record) error {
	body, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("marshaling record for %s: %w", rec.TaskID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, e.client, req, e.maxRetries)
	if err != nil {
		return fmt.Errorf("posting record for %s: %w", rec.TaskID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend rejected record for %s: %s", rec.TaskID, resp.Status)
	}
	return nil
}
