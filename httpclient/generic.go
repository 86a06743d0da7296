//nolint:ireturn
package httpclient

import (
	"context"
	"net/http"
)

func GetJSON[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, *Response, error) {
	return DoJSON[T](ctx, c, http.MethodGet, path, nil, opts...)
}

func PostJSON[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, *Response, error) {
	return DoJSON[T](ctx, c, http.MethodPost, path, body, opts...)
}

func PatchJSON[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, *Response, error) {
	return DoJSON[T](ctx, c, http.MethodPatch, path, body, opts...)
}

// DoJSON decodes a successful JSON response into T. The zero T is returned
// together with the response for empty bodies and non-2xx statuses.
func DoJSON[T any](
	ctx context.Context,
	c *Client,
	method, path string,
	body any,
	opts ...RequestOption,
) (T, *Response, error) {
	var result T

	resp, err := c.Do(ctx, method, path, body, opts...)
	if err != nil {
		return result, nil, err
	}

	if !resp.IsSuccess() || resp.Kind != KindJSON {
		return result, resp, nil
	}

	if err := resp.Decode(&result); err != nil {
		return result, resp, err
	}

	return result, resp, nil
}
