package viaphone

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/andyle182810/viaphone/pagination"
)

type RecordType string

const (
	RecordTypeMessage RecordType = "message"
	RecordTypeCall    RecordType = "call"
)

type CallState string

const (
	CallStateWaiting     CallState = "waiting"
	CallStateOngoing     CallState = "ongoing"
	CallStateAnswered    CallState = "answered"
	CallStateNotAnswered CallState = "not_answered"
	CallStateRefused     CallState = "refused"
)

type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

const (
	DefaultSortBy = "updated_at"
	DefaultLimit  = pagination.DefaultLimit

	requestTypeDownloadLink = "download-link"

	// Matches the vendor's ISO-8601 form, e.g. 2024-05-01T10:00:00+02:00.
	isoTimeLayout  = "2006-01-02T15:04:05-07:00"
	dateOnlyLayout = "2006-01-02"
)

type Contact struct {
	PhoneNumber string `json:"phone_number" validate:"required,notblank"`
	Name        string `json:"name"`
}

// Record is a message or call as stored by the vendor. Fields the client does
// not need are left opaque.
type Record struct {
	UUID       string          `json:"uuid"`
	Type       RecordType      `json:"type"`
	Text       string          `json:"text,omitempty"`
	Note       string          `json:"note,omitempty"`
	Device     json.RawMessage `json:"device,omitempty"`
	Contact    *Contact        `json:"contact,omitempty"`
	CallState  CallState       `json:"call_state,omitempty"`
	IsOutgoing *bool           `json:"is_outgoing,omitempty"`
	ValidTo    string          `json:"valid_to,omitempty"`
	ValidFor   *int            `json:"valid_for,omitempty"`
	StartedAt  string          `json:"started_at,omitempty"`
	CreatedAt  string          `json:"created_at,omitempty"`
	UpdatedAt  string          `json:"updated_at,omitempty"`
}

// Device is a phone line registered with the vendor.
type Device struct {
	UUID        string `json:"uuid"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type NewDevice struct {
	PhoneNumber string `json:"phone_number" validate:"required,notblank"`
	Name        string `json:"name"         validate:"required,notblank"`
	Email       string `json:"email"        validate:"required,email"`
}

// DeviceRef names a device either by phone number or by an already fetched
// Device. The zero value refers to no device.
type DeviceRef struct {
	phoneNumber string
	device      *Device
}

func ByPhoneNumber(phoneNumber string) DeviceRef {
	return DeviceRef{phoneNumber: phoneNumber, device: nil}
}

func ByDevice(device Device) DeviceRef {
	return DeviceRef{phoneNumber: "", device: &device}
}

func (r DeviceRef) IsZero() bool {
	return r.device == nil && r.phoneNumber == ""
}

func (r DeviceRef) PhoneNumber() string {
	if r.device != nil {
		return r.device.PhoneNumber
	}

	return r.phoneNumber
}

// Device returns the referenced device when it carries a UUID and needs no
// lookup.
func (r DeviceRef) Device() (Device, bool) {
	if r.device == nil || r.device.UUID == "" {
		return Device{}, false
	}

	return *r.device, true
}

type SMSMessage struct {
	Text    string    `json:"text"      validate:"required,notblank"`
	Contact Contact   `json:"contact"`
	Device  DeviceRef `json:"device"`
	Note    string    `json:"note"`
	// UUID is generated when empty.
	UUID string `json:"uuid" validate:"omitempty,uuid"`
	// ValidTo is sent as a date without time.
	ValidTo *time.Time `json:"valid_to"`
	// ValidFor is the validity in seconds.
	ValidFor *int `json:"valid_for" validate:"omitempty,gt=0"`
	Outgoing bool `json:"is_outgoing"`
}

type CallRequest struct {
	Contact Contact   `json:"contact"`
	Device  DeviceRef `json:"device"`
}

type RecordsQuery struct {
	// Criteria are lower bounds, sent as key=gte:value. Time values are
	// formatted as ISO-8601.
	Criteria map[string]any `json:"criteria"`
	// Filters are passed through as exact query parameters.
	Filters   map[string]string `json:"filters"`
	SortBy    string            `json:"sort_by"`
	SortOrder SortOrder         `json:"sort_order" validate:"omitempty,oneof=asc desc"`
	Limit     int               `json:"limit"      validate:"gte=0"`
	Offset    *int              `json:"offset"     validate:"omitempty,gte=0"`
}

// Recording is a call recording. Data is the audio as received, or the raw
// body when the vendor answered with something other than audio.
type Recording struct {
	ContentType string
	Data        []byte
}

func (r *Recording) IsAudio() bool {
	return strings.HasPrefix(r.ContentType, "audio/")
}

type contactPayload struct {
	PhoneNumber string  `json:"phone_number"`
	Name        *string `json:"name"`
}

type messagePayload struct {
	Type       RecordType     `json:"type"`
	UUID       string         `json:"uuid"`
	Text       string         `json:"text"`
	Device     *string        `json:"device"`
	Contact    contactPayload `json:"contact"`
	Note       *string        `json:"note"`
	ValidTo    string         `json:"valid_to,omitempty"`
	ValidFor   *int           `json:"valid_for,omitempty"`
	IsOutgoing *bool          `json:"is_outgoing,omitempty"`
}

type callPayload struct {
	Type      RecordType     `json:"type"`
	UUID      string         `json:"uuid"`
	Device    *string        `json:"device"`
	Contact   contactPayload `json:"contact"`
	CallState CallState      `json:"call_state"`
	StartedAt string         `json:"started_at"`
}

type deviceRequestPayload struct {
	Type string `json:"type"`
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}
