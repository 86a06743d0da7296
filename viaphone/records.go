package viaphone

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/andyle182810/viaphone/httpclient"
)

const recordsPath = "records"

// SendSMSMessage creates an outgoing message record. The returned record is
// nil when the vendor acknowledges without a body.
func (c *Client) SendSMSMessage(ctx context.Context, msg SMSMessage) (*Record, error) {
	if err := c.validate(msg); err != nil {
		return nil, err
	}

	if msg.UUID == "" {
		msg.UUID = c.newUUID()
	}

	if c.singleRecipient != "" {
		msg = c.redirectToSingleRecipient(msg)
	}

	payload := messagePayload{
		Type:   RecordTypeMessage,
		UUID:   msg.UUID,
		Text:   msg.Text,
		Device: optional(msg.Device.PhoneNumber()),
		Contact: contactPayload{
			PhoneNumber: msg.Contact.PhoneNumber,
			Name:        optional(msg.Contact.Name),
		},
		Note:       optional(msg.Note),
		ValidTo:    "",
		ValidFor:   msg.ValidFor,
		IsOutgoing: nil,
	}

	if msg.ValidTo != nil {
		payload.ValidTo = msg.ValidTo.Format(dateOnlyLayout)
	}

	if msg.Outgoing {
		outgoing := true
		payload.IsOutgoing = &outgoing
	}

	return c.createRecord(ctx, payload)
}

func (c *Client) redirectToSingleRecipient(msg SMSMessage) SMSMessage {
	label := msg.Contact.Name
	if label == "" {
		label = msg.Contact.PhoneNumber
	}

	c.logger.Debug().
		Str("original_recipient", msg.Contact.PhoneNumber).
		Str("single_recipient", c.singleRecipient).
		Msg("The SMS message has been redirected to the single recipient")

	msg.Text = label + ": " + msg.Text
	msg.Contact.PhoneNumber = c.singleRecipient

	return msg
}

// Call creates a call record in the waiting state.
func (c *Client) Call(ctx context.Context, req CallRequest) (*Record, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}

	payload := callPayload{
		Type:   RecordTypeCall,
		UUID:   c.newUUID(),
		Device: optional(req.Device.PhoneNumber()),
		Contact: contactPayload{
			PhoneNumber: req.Contact.PhoneNumber,
			Name:        optional(req.Contact.Name),
		},
		CallState: CallStateWaiting,
		StartedAt: c.now().Format(isoTimeLayout),
	}

	return c.createRecord(ctx, payload)
}

func (c *Client) createRecord(ctx context.Context, payload any) (*Record, error) {
	resp, err := c.requester.Do(ctx, http.MethodPost, recordsPath, payload)
	if err != nil {
		return nil, err
	}

	var record Record

	found, err := decodeEntity(resp, &record)
	if err != nil || !found {
		return nil, err
	}

	return &record, nil
}

func (c *Client) GetRecord(ctx context.Context, recordUUID string) (*Record, error) {
	resp, err := c.requester.Do(ctx, http.MethodGet, recordPath(recordUUID), nil)
	if err != nil {
		return nil, err
	}

	var record Record

	found, err := decodeEntity(resp, &record)
	if err != nil || !found {
		return nil, err
	}

	return &record, nil
}

// GetRecords lists records. The result is never nil.
func (c *Client) GetRecords(ctx context.Context, query RecordsQuery) ([]Record, error) {
	if err := c.validate(query); err != nil {
		return nil, err
	}

	resp, err := c.requester.Do(ctx, http.MethodGet, recordsPath, nil, buildRecordsQuery(query)...)
	if err != nil {
		return nil, err
	}

	return decodeList[Record](resp)
}

// buildRecordsQuery sends criteria as key=gte:<escaped value>. The operator
// prefix stays unescaped on the wire.
func buildRecordsQuery(query RecordsQuery) []httpclient.RequestOption {
	params := make(map[string]string, len(query.Filters)+3)

	for key, value := range query.Filters {
		params[key] = value
	}

	opts := make([]httpclient.RequestOption, 0, len(query.Criteria)+1)

	for key, value := range query.Criteria {
		delete(params, key)
		opts = append(opts, httpclient.WithRawQuery(key, "gte:"+url.QueryEscape(formatCriterion(value))))
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}

	sortOrder := query.SortOrder
	if sortOrder == "" {
		sortOrder = SortDescending
	}

	if sortOrder == SortDescending {
		sortBy = "-" + sortBy
	}

	params["sort"] = sortBy

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	params["limit"] = strconv.Itoa(limit)

	if query.Offset != nil {
		params["offset"] = strconv.Itoa(*query.Offset)
	}

	return append(opts, httpclient.WithQueryParams(params))
}

func formatCriterion(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format(isoTimeLayout)
	case *time.Time:
		if v == nil {
			return ""
		}

		return v.Format(isoTimeLayout)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// GetCallRecord downloads a call recording. It returns nil when the vendor
// has nothing to send.
func (c *Client) GetCallRecord(ctx context.Context, recordUUID string) (*Recording, error) {
	resp, err := c.requester.Do(ctx, http.MethodGet, recordPath(recordUUID)+"/recording", nil)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, newAPIError(resp)
	}

	if resp.Kind == httpclient.KindNoContent {
		return nil, nil //nolint:nilnil
	}

	return &Recording{
		ContentType: resp.ContentType,
		Data:        resp.Body,
	}, nil
}

func recordPath(recordUUID string) string {
	return recordsPath + "/" + url.PathEscape(recordUUID)
}
