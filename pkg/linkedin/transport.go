package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lipost/pkg/errors"
	"lipost/pkg/logger"
)

// RawResponse is a fully read HTTP response
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport is the set of HTTP capabilities the Client needs. HTTPTransport
// is the production implementation; tests substitute stubs.
type Transport interface {
	Get(ctx context.Context, url string, header http.Header) (*RawResponse, error)
	PostJSON(ctx context.Context, url string, header http.Header, body interface{}) (*RawResponse, error)
	PutBinary(ctx context.Context, url string, header http.Header, body io.Reader) (*RawResponse, error)
}

// HTTPTransport implements Transport on top of net/http
type HTTPTransport struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewHTTPTransport creates a transport. A nil client means a client without
// timeout, a nil logger means the global logger.
func NewHTTPTransport(httpClient *http.Client, log logger.Logger) *HTTPTransport {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &HTTPTransport{httpClient: httpClient, logger: log}
}

// Get performs a GET request
func (t *HTTPTransport) Get(ctx context.Context, url string, header http.Header) (*RawResponse, error) {
	return t.send(ctx, http.MethodGet, url, header, nil)
}

// PostJSON encodes body as JSON and POSTs it
func (t *HTTPTransport) PostJSON(ctx context.Context, url string, header http.Header, body interface{}) (*RawResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to encode request body: %v", err),
			Err:     err,
		}
	}
	return t.send(ctx, http.MethodPost, url, header, bytes.NewReader(data))
}

// PutBinary PUTs raw bytes
func (t *HTTPTransport) PutBinary(ctx context.Context, url string, header http.Header, body io.Reader) (*RawResponse, error) {
	return t.send(ctx, http.MethodPut, url, header, body)
}

// send performs an HTTP request with the given headers and reads the whole body
func (t *HTTPTransport) send(ctx context.Context, method, url string, header http.Header, body io.Reader) (*RawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Err:     err,
		}
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	t.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": method,
		"url":    url,
	})

	resp, err := t.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		t.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   method,
			"url":      url,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	t.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   method,
		"url":      url,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
