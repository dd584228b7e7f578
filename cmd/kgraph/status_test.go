// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStatusServer serves the status endpoint with a fixed JSON body.
func fakeStatusServer(t *testing.T, body string) (srv *httptest.Server, addr string) {
	t.Helper()
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, srv.URL[len("http://"):]
}

func TestStatusCommand_ServerNotRunning(t *testing.T) {
	out, err := runKgraph(t, "status", "--address", "127.0.0.1:1")
	require.NoError(t, err, "a stopped server is a report, not a failure")
	assert.Contains(t, out, "Server at 127.0.0.1:1 is not running")
	assert.Contains(t, out, "Start it with: kgraph serve")
}

func TestStatusCommand_ReportsServerState(t *testing.T) {
	_, addr := fakeStatusServer(t, `{
		"status": "ok",
		"dataset": {"standards": 3, "components": 2, "edges": 5, "frameworks": 1},
		"embeddings": {"available": true, "records": 12, "dimension": 2},
		"providers": {
			"openai": {"available": true, "failure_count": 0},
			"anthropic": {"available": false, "failure_count": 3}
		}
	}`)

	out, err := runKgraph(t, "status", "--address", addr)
	require.NoError(t, err)
	assert.Contains(t, out, "Server at "+addr+": ok")
	assert.Contains(t, out, "Dataset: 3 standards, 2 learning components, 5 relationships, 1 frameworks")
	assert.Contains(t, out, "Embeddings: 12 records (dimension 2)")
	assert.Contains(t, out, "Provider openai: available (0 failures)")
	assert.Contains(t, out, "Provider anthropic: cooling down (3 failures)")
}

func TestStatusCommand_EmbeddingsNotLoaded(t *testing.T) {
	_, addr := fakeStatusServer(t, `{
		"status": "ok",
		"dataset": {"standards": 3, "components": 2, "edges": 5, "frameworks": 1},
		"embeddings": {"available": false, "records": 0, "dimension": 0},
		"providers": {}
	}`)

	out, err := runKgraph(t, "status", "--address", addr)
	require.NoError(t, err)
	assert.Contains(t, out, "Embeddings: not loaded")
}

func TestStatusCommand_BadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	addr := srv.URL[len("http://"):]

	_, err := runKgraph(t, "status", "--address", addr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
