package httpclient

import (
	"encoding/json"
	"fmt"
)

const dataKey = "data"

type Kind int

const (
	KindNoContent Kind = iota
	KindJSON
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindNoContent:
		return "no-content"
	case KindJSON:
		return "json"
	case KindAudio:
		return "audio"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Response is the classified result of one request. Body holds the raw bytes
// for JSON and audio responses and is nil for empty ones.
type Response struct {
	StatusCode  int
	ContentType string
	Kind        Kind
	Body        []byte

	object map[string]json.RawMessage
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Success reports a 2xx response that carried no content.
func (r *Response) Success() bool {
	return r.Kind == KindNoContent && r.IsSuccess()
}

// Object returns the normalized JSON object. It is nil unless Kind is KindJSON.
func (r *Response) Object() map[string]json.RawMessage {
	return r.object
}

// Field returns a top-level field of the normalized object.
func (r *Response) Field(name string) (json.RawMessage, bool) {
	if r.object == nil {
		return nil, false
	}

	raw, ok := r.object[name]
	if !ok || string(raw) == "null" {
		return nil, false
	}

	return raw, true
}

func (r *Response) Data() (json.RawMessage, bool) {
	return r.Field(dataKey)
}

// Decode unmarshals the whole JSON body into v.
func (r *Response) Decode(v any) error {
	if r.Kind != KindJSON {
		return fmt.Errorf("%w: %s", ErrNotJSON, r.Kind)
	}

	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return nil
}

// DecodeData unmarshals the "data" field into v. It reports false when the
// field is absent or null and leaves v untouched.
func (r *Response) DecodeData(v any) (bool, error) {
	if r.Kind != KindJSON {
		return false, fmt.Errorf("%w: %s", ErrNotJSON, r.Kind)
	}

	raw, ok := r.Data()
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return true, nil
}
