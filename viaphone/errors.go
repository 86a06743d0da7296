package viaphone

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andyle182810/viaphone/httpclient"
)

var (
	ErrInvalidInput       = errors.New("viaphone: invalid input")
	ErrAPI                = errors.New("viaphone: api error")
	ErrUnexpectedResponse = errors.New("viaphone: unexpected response")
)

// APIError carries a non-2xx vendor response. The body is kept as received.
type APIError struct {
	StatusCode int
	Message    string
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("viaphone: api returned status %d: %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("viaphone: api returned status %d", e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	return errors.Is(target, ErrAPI)
}

func (e *APIError) Unwrap() error {
	return ErrAPI
}

func newAPIError(resp *httpclient.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    "",
		Body:       nil,
	}

	if resp.Kind == httpclient.KindJSON {
		apiErr.Body = json.RawMessage(resp.Body)

		if raw, ok := resp.Field("message"); ok {
			var message string
			if err := json.Unmarshal(raw, &message); err == nil {
				apiErr.Message = message
			}
		}
	}

	return apiErr
}

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}
