package viaphone

import (
	"context"
	"net/http"
	"net/url"

	"github.com/andyle182810/viaphone/httpclient"
)

const (
	devicesPath          = "devices"
	phoneNumberParameter = "phone_number"
)

func (c *Client) AddDevice(ctx context.Context, device NewDevice) (*Device, error) {
	if err := c.validate(device); err != nil {
		return nil, err
	}

	resp, err := c.requester.Do(ctx, http.MethodPost, devicesPath, device)
	if err != nil {
		return nil, err
	}

	var created Device

	found, err := decodeEntity(resp, &created)
	if err != nil || !found {
		return nil, err
	}

	return &created, nil
}

// GetDevice returns the first device registered under phoneNumber, or nil
// when there is none.
func (c *Client) GetDevice(ctx context.Context, phoneNumber string) (*Device, error) {
	devices, err := c.GetDevices(ctx, map[string]string{phoneNumberParameter: phoneNumber})
	if err != nil {
		return nil, err
	}

	if len(devices) == 0 {
		c.logger.Debug().
			Str("phone_number", phoneNumber).
			Msg("No device is registered under the phone number")

		return nil, nil //nolint:nilnil
	}

	return &devices[0], nil
}

// GetDevices lists devices matching params. The result is never nil.
func (c *Client) GetDevices(ctx context.Context, params map[string]string) ([]Device, error) {
	var opts []httpclient.RequestOption
	if len(params) > 0 {
		opts = append(opts, httpclient.WithQueryParams(params))
	}

	resp, err := c.requester.Do(ctx, http.MethodGet, devicesPath, nil, opts...)
	if err != nil {
		return nil, err
	}

	return decodeList[Device](resp)
}

// UpdateDevice patches the referenced device with data. It returns nil when
// the device cannot be found; nothing is sent in that case. When the vendor
// replies without a body the resolved device is returned unchanged.
func (c *Client) UpdateDevice(ctx context.Context, ref DeviceRef, data map[string]any) (*Device, error) {
	device, err := c.resolveDevice(ctx, ref)
	if err != nil || device == nil {
		return nil, err
	}

	resp, err := c.requester.Do(ctx, http.MethodPatch, devicePath(device.UUID), data)
	if err != nil {
		return nil, err
	}

	var updated Device

	found, err := decodeEntity(resp, &updated)
	if err != nil {
		return nil, err
	}

	if !found {
		return device, nil
	}

	return &updated, nil
}

// SendDownloadLink asks the vendor to text the app download link to the
// device. It reports false when the device cannot be found.
func (c *Client) SendDownloadLink(ctx context.Context, ref DeviceRef) (bool, error) {
	device, err := c.resolveDevice(ctx, ref)
	if err != nil || device == nil {
		return false, err
	}

	resp, err := c.requester.Do(ctx, http.MethodPost, devicePath(device.UUID)+"/requests",
		deviceRequestPayload{Type: requestTypeDownloadLink})
	if err != nil {
		return false, err
	}

	if !resp.IsSuccess() {
		return false, newAPIError(resp)
	}

	return true, nil
}

func (c *Client) resolveDevice(ctx context.Context, ref DeviceRef) (*Device, error) {
	if device, ok := ref.Device(); ok {
		return &device, nil
	}

	if ref.PhoneNumber() == "" {
		return nil, nil //nolint:nilnil
	}

	return c.GetDevice(ctx, ref.PhoneNumber())
}

func devicePath(deviceUUID string) string {
	return devicesPath + "/" + url.PathEscape(deviceUUID)
}
