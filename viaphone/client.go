// Package viaphone is a client for the ViaPhone v2 API: SMS messages, calls
// and the devices (phone lines) that send them.
package viaphone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andyle182810/viaphone/httpclient"
	"github.com/andyle182810/viaphone/validator"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Requester is the part of httpclient.Client the facade depends on.
type Requester interface {
	Do(
		ctx context.Context,
		method string,
		path string,
		body any,
		opts ...httpclient.RequestOption,
	) (*httpclient.Response, error)
}

var _ Requester = (*httpclient.Client)(nil)

type Client struct {
	requester       Requester
	validator       *validator.Validator
	logger          zerolog.Logger
	now             func() time.Time
	newUUID         func() string
	singleRecipient string
	adapterOpts     []httpclient.Option
}

type Option func(*Client)

// WithAdapterOptions configures the underlying httpclient.Client built by New.
func WithAdapterOptions(opts ...httpclient.Option) Option {
	return func(c *Client) {
		c.adapterOpts = append(c.adapterOpts, opts...)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSingleRecipient redirects every SMS to phoneNumber. The original
// recipient's name, or number when unnamed, is prefixed to the text.
func WithSingleRecipient(phoneNumber string) Option {
	return func(c *Client) {
		c.singleRecipient = phoneNumber
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func WithUUIDGenerator(newUUID func() string) Option {
	return func(c *Client) {
		if newUUID != nil {
			c.newUUID = newUUID
		}
	}
}

// New returns a client for the vendor API authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := newClient(nil, opts...)

	adapterOpts := make([]httpclient.Option, 0, len(c.adapterOpts)+1)
	adapterOpts = append(adapterOpts, httpclient.WithLogger(c.logger))
	adapterOpts = append(adapterOpts, c.adapterOpts...)

	c.requester = httpclient.New(apiKey, adapterOpts...)

	return c
}

// NewWithRequester builds a client on top of an existing Requester.
// WithAdapterOptions has no effect here.
func NewWithRequester(requester Requester, opts ...Option) *Client {
	return newClient(requester, opts...)
}

func newClient(requester Requester, opts ...Option) *Client {
	c := &Client{
		requester:       requester,
		validator:       validator.New(),
		logger:          zerolog.Nop(),
		now:             time.Now,
		newUUID:         uuid.NewString,
		singleRecipient: "",
		adapterOpts:     nil,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) validate(input any) error {
	if err := c.validator.Validate(input); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return nil
}

// decodeEntity decodes a single entity from the "data" object, or from the
// whole body when there is no "data" field. It reports false for empty
// successful responses.
func decodeEntity(resp *httpclient.Response, v any) (bool, error) {
	if !resp.IsSuccess() {
		return false, newAPIError(resp)
	}

	switch resp.Kind {
	case httpclient.KindNoContent:
		return false, nil
	case httpclient.KindJSON:
	default:
		return false, fmt.Errorf("%w: %s body", ErrUnexpectedResponse, resp.Kind)
	}

	if raw, ok := resp.Data(); ok {
		raw = bytes.TrimSpace(raw)

		if bytes.Equal(raw, []byte("null")) {
			return false, nil
		}

		if len(raw) == 0 || raw[0] != '{' {
			return false, fmt.Errorf("%w: data is not an object", ErrUnexpectedResponse)
		}

		if err := json.Unmarshal(raw, v); err != nil {
			return false, fmt.Errorf("%w: %w", httpclient.ErrMalformedResponse, err)
		}

		return true, nil
	}

	if err := resp.Decode(v); err != nil {
		return false, err
	}

	return true, nil
}

// decodeList returns the "data" array, or an empty slice when there is none.
func decodeList[T any](resp *httpclient.Response) ([]T, error) {
	if !resp.IsSuccess() {
		return nil, newAPIError(resp)
	}

	items := []T{}

	if resp.Kind != httpclient.KindJSON {
		return items, nil
	}

	if _, err := resp.DecodeData(&items); err != nil {
		return nil, err
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}
