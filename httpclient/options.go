package httpclient

import (
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL      = "https://api.viaphoneapp.com/v2/"
	DefaultLanguage     = "en"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 10

	HeaderCacheControl   = "Cache-Control"
	HeaderContentType    = "Content-Type"
	HeaderAPIKey         = "X-API-Key"
	HeaderAcceptLanguage = "Accept-Language"

	CacheControlNoCache = "no-cache"
	ContentTypeJSON     = "application/json"
	ContentTypeAudio    = "audio/mpeg"
)

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

func WithLanguage(language string) Option {
	return func(c *Client) {
		if language != "" {
			c.language = language
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithMaxRedirects(maxRedirects int) Option {
	return func(c *Client) {
		if maxRedirects >= 0 {
			c.maxRedirects = maxRedirects
		}
	}
}

// WithHTTPClient replaces the underlying transport client. The client is
// copied before the timeout and redirect policy are applied, so the caller's
// value is left untouched. Its transport is used as is and is not restricted
// to HTTP/1.1.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

type RequestOption func(*requestConfig)

type requestConfig struct {
	headers  map[string]string
	query    map[string]string
	rawQuery map[string]string
	timeout  time.Duration
}

func WithRequestHeader(key, value string) RequestOption {
	return func(rc *requestConfig) {
		if rc.headers == nil {
			rc.headers = make(map[string]string)
		}

		rc.headers[key] = value
	}
}

func WithRequestTimeout(timeout time.Duration) RequestOption {
	return func(rc *requestConfig) {
		rc.timeout = timeout
	}
}

func WithQuery(key, value string) RequestOption {
	return func(rc *requestConfig) {
		if rc.query == nil {
			rc.query = make(map[string]string)
		}

		rc.query[key] = value
	}
}

func WithQueryParams(params map[string]string) RequestOption {
	return func(rc *requestConfig) {
		if rc.query == nil {
			rc.query = make(map[string]string)
		}

		maps.Copy(rc.query, params)
	}
}

// WithRawQuery adds a query parameter whose value is already escaped. The
// value is sent as given, which keeps operator prefixes such as "gte:" literal.
func WithRawQuery(key, escapedValue string) RequestOption {
	return func(rc *requestConfig) {
		if rc.rawQuery == nil {
			rc.rawQuery = make(map[string]string)
		}

		rc.rawQuery[key] = escapedValue
	}
}
