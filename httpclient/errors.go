package httpclient

import (
	"errors"
)

var (
	ErrTransport            = errors.New("httpclient: transport error")
	ErrMalformedRequestData = errors.New("httpclient: malformed request data")
	ErrMalformedResponse    = errors.New("httpclient: malformed response")
	ErrUnsupportedMethod    = errors.New("httpclient: unsupported method")
	ErrNotJSON              = errors.New("httpclient: response is not JSON")

	errInvalidJSON = errors.New("invalid JSON document")
)
