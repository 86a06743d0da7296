package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

type Client struct {
	baseURL      string
	apiKey       string
	language     string
	timeout      time.Duration
	maxRedirects int
	httpClient   *http.Client
	logger       zerolog.Logger
	rest         *resty.Client
}

// New returns a client authenticated with apiKey. The configuration is fixed
// once New returns, so a Client may be shared between goroutines.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimSuffix(DefaultBaseURL, "/"),
		apiKey:       apiKey,
		language:     DefaultLanguage,
		timeout:      DefaultTimeout,
		maxRedirects: DefaultMaxRedirects,
		httpClient:   nil,
		logger:       zerolog.Nop(),
		rest:         nil,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.rest = c.newRestClient()

	return c
}

func (c *Client) newRestClient() *resty.Client {
	var rest *resty.Client

	if c.httpClient != nil {
		hc := *c.httpClient
		rest = resty.NewWithClient(&hc)
	} else {
		rest = resty.New().SetTransport(newHTTP11Transport())
	}

	return rest.
		SetTimeout(c.timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(c.maxRedirects)).
		SetAllowGetMethodPayload(true).
		SetLogger(&restyLogger{logger: c.logger}).
		SetHeaders(map[string]string{
			HeaderCacheControl:   CacheControlNoCache,
			HeaderContentType:    ContentTypeJSON,
			HeaderAPIKey:         c.apiKey,
			HeaderAcceptLanguage: c.language,
		})
}

// The vendor API is only served over HTTP/1.1.
func newHTTP11Transport() *http.Transport {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return &http.Transport{ //nolint:exhaustruct
			Proxy:        http.ProxyFromEnvironment,
			TLSNextProto: map[string]func(string, *tls.Conn) http.RoundTripper{},
		}
	}

	transport = transport.Clone()
	transport.ForceAttemptHTTP2 = false
	transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}

	return transport
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, opts...)
}

// Do sends a single request and classifies the response. Vendor error
// statuses are not errors here; inspect Response.StatusCode.
func (c *Client) Do(
	ctx context.Context,
	method string,
	path string,
	body any,
	opts ...RequestOption,
) (*Response, error) {
	if !isSupportedMethod(method) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	cfg := buildRequestConfig(opts...)

	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	reqCtx := ctx

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	req := c.rest.R().SetContext(reqCtx)

	for k, v := range cfg.headers {
		req.SetHeader(k, v)
	}

	if payload != nil {
		req.SetBody(payload)
	}

	fullURL := c.buildURL(path, cfg.query, cfg.rawQuery)
	start := time.Now()

	resp, err := req.Execute(method, fullURL)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("method", method).
			Str("path", path).
			Dur("duration", time.Since(start)).
			Msg("The ViaPhone request has failed")

		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("The ViaPhone request has completed")

	return classifyResponse(resp.StatusCode(), resp.Header().Get(HeaderContentType), resp.Body())
}

func isSupportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPatch:
		return true
	default:
		return false
	}
}

func buildRequestConfig(opts ...RequestOption) *requestConfig {
	cfg := &requestConfig{
		headers:  make(map[string]string),
		query:    nil,
		rawQuery: nil,
		timeout:  0,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// encodeBody returns nil when there is nothing worth sending.
func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	if raw, ok := body.([]byte); ok {
		if len(raw) == 0 {
			return nil, nil
		}

		if !json.Valid(raw) {
			return nil, fmt.Errorf("%w: body is not valid JSON", ErrMalformedRequestData)
		}

		return raw, nil
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequestData, err)
	}

	switch string(encoded) {
	case "null", "{}", "[]", `""`:
		return nil, nil
	}

	return encoded, nil
}

func classifyResponse(statusCode int, contentType string, body []byte) (*Response, error) {
	resp := &Response{
		StatusCode:  statusCode,
		ContentType: contentType,
		Kind:        KindNoContent,
		Body:        body,
		object:      nil,
	}

	if statusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		resp.Body = nil

		return resp, nil
	}

	if isAudio(contentType) {
		resp.Kind = KindAudio

		return resp, nil
	}

	object, err := normalizeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	resp.Kind = KindJSON
	resp.object = object

	return resp, nil
}

func isAudio(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return strings.HasPrefix(mediaType, "audio/")
}

// normalizeJSON turns any JSON document into an object. Arrays and scalars
// are exposed under the "data" key.
func normalizeJSON(body []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)

	if !json.Valid(trimmed) {
		return nil, errInvalidJSON
	}

	if trimmed[0] == '{' {
		var object map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &object); err != nil {
			return nil, err
		}

		return object, nil
	}

	return map[string]json.RawMessage{dataKey: json.RawMessage(trimmed)}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// buildURL escapes query values except the raw ones, which are appended
// verbatim. Pairs are ordered by key.
func (c *Client) buildURL(path string, query, rawQuery map[string]string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	fullURL := c.baseURL + path

	if len(query) == 0 && len(rawQuery) == 0 {
		return fullURL
	}

	pairs := make(map[string]string, len(query)+len(rawQuery))

	for k, v := range query {
		pairs[k] = url.QueryEscape(v)
	}

	for k, v := range rawQuery {
		pairs[k] = v
	}

	keys := slices.Sorted(maps.Keys(pairs))
	parts := make([]string, 0, len(keys))

	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+pairs[k])
	}

	return fullURL + "?" + strings.Join(parts, "&")
}
