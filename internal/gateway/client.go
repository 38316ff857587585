// Package gateway is the HTTP client for the hosted backend: an auth API
// (sign-up, password grant, sign-out, refresh) and a Postgres-backed table
// API (select/insert/update/delete with filtering, ordering and range
// pagination). Every call is one request; failures come back as *APIError.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoRows reports that a single-object select matched zero or more than
// one row.
var ErrNoRows = errors.New("gateway: expected exactly one row")

// APIError is a failure the gateway reported for a request. Network
// failures, constraint violations and authorization denials all surface
// through it identically, as a message string plus the HTTP status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("gateway returned status %d", e.Status)
}

// Client talks to one gateway deployment. The anon API key accompanies
// every request; per-user access tokens ride in the Authorization header.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a gateway client for the given base URL and public API key.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// newRequest builds a request with the standing gateway headers. An empty
// token means the anon key authorizes the call.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, token string, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.apiKey)
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do runs the request and decodes a 2xx body into dest (when dest is
// non-nil). Any other status is decoded into an *APIError.
func (c *Client) do(req *http.Request, dest any) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, decodeError(resp)
	}
	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return resp, &APIError{Status: resp.StatusCode, Message: "decoding gateway response: " + err.Error()}
		}
	}
	return resp, nil
}

// decodeError extracts a human-readable message from an error body. The
// auth and table APIs use different field names for it.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		ErrorField       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return apiErr
	}
	for _, m := range []string{body.Message, body.Msg, body.ErrorDescription, body.ErrorField} {
		if m != "" {
			apiErr.Message = m
			break
		}
	}
	return apiErr
}
