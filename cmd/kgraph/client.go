// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// defaultHTTPClient is the package-level HTTP client used by commands
// that talk to a running query server. Overridden in tests via httptest.
var defaultHTTPClient = &http.Client{
	Timeout: 5 * time.Second,
}

// apiClient provides HTTP access to a running kgraph query server.
type apiClient struct {
	baseURL string
	http    *http.Client
}

// newAPIClient creates a client targeting the given host:port address.
func newAPIClient(addr string) *apiClient {
	return &apiClient{
		baseURL: "http://" + addr,
		http:    defaultHTTPClient,
	}
}

// getJSON performs a GET request and decodes the JSON response into dest.
// A refused connection maps to CodeCLIServerNotRunning so callers can
// print a friendly hint instead of a raw dial error.
func (c *apiClient) getJSON(path string, dest any) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		if isDialError(err) {
			return kgerr.Wrapf(err, kgerr.CodeCLIServerNotRunning, "connecting to %s", c.baseURL)
		}
		return kgerr.Wrapf(err, kgerr.CodeCLIRequestFailure, "requesting %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return kgerr.Errorf(kgerr.CodeCLIResponseInvalid,
			"server returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return kgerr.Wrap(err, kgerr.CodeCLIResponseInvalid, "invalid response")
	}
	return nil
}

// isDialError returns true if err is a net dial error (connection refused, etc.).
func isDialError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial"
	}
	return false
}
