package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RecordedRequest is a copy of a request received by a FakeServer.
type RecordedRequest struct {
	Method   string
	Path     string
	Query    url.Values
	RawQuery string
	Header   http.Header
	Body     []byte
}

// DecodeBody unmarshals the recorded JSON body into a generic map.
func (r RecordedRequest) DecodeBody(t *testing.T) map[string]any {
	t.Helper()

	var body map[string]any

	require.NoError(t, json.Unmarshal(r.Body, &body), "Request body should be valid JSON")

	return body
}

// FakeServer stands in for the vendor API. It records every request before
// handing it to the handler.
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

func NewFakeServer(t *testing.T, handler http.HandlerFunc) *FakeServer {
	t.Helper()

	fake := &FakeServer{
		Server:   nil,
		mu:       sync.Mutex{},
		requests: nil,
	}

	fake.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		fake.mu.Lock()
		fake.requests = append(fake.requests, RecordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			Query:    r.URL.Query(),
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		fake.mu.Unlock()

		if handler != nil {
			handler(w, r)

			return
		}

		w.WriteHeader(http.StatusNoContent)
	}))

	t.Cleanup(fake.Close)

	return fake
}

func (s *FakeServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)

	return out
}

// LastRequest fails the test when nothing has been received yet.
func (s *FakeServer) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()

	requests := s.Requests()
	require.NotEmpty(t, requests, "Fake server should have received a request")

	return requests[len(requests)-1]
}

func (s *FakeServer) CountRequests(method, path string) int {
	count := 0

	for _, req := range s.Requests() {
		if req.Method == method && req.Path == path {
			count++
		}
	}

	return count
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func AssertHeader(t *testing.T, req RecordedRequest, header, expectedValue string) {
	t.Helper()
	assert.Equal(t, expectedValue, req.Header.Get(header), "Header %s mismatch", header)
}
