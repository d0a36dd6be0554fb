// Package sms delivers reminders as text messages through the Twilio REST API.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"medication_reminder_bot/internal/domain/notifier"
)

const (
	defaultBaseURL = "https://api.twilio.com"
	requestTimeout = 30 * time.Second
)

type messageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	Body         string `json:"body"`
	ErrorMessage string `json:"error_message"`
}

type errorResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

// TwilioClient implements notifier.Client with one recipient phone number.
type TwilioClient struct {
	httpClient *http.Client
	baseURL    string
	accountSID string
	authToken  string
	from       string
	to         string
}

func NewTwilioClient(accountSID, authToken, from, to string) *TwilioClient {
	return &TwilioClient{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultBaseURL,
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		to:         to,
	}
}

// WithBaseURL points the client at another API host, e.g. a test server.
func (c *TwilioClient) WithBaseURL(baseURL string) *TwilioClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Send posts the message. A 2xx answer is a delivery, a 4xx answer a rejection
// carrying Twilio's message, and anything else an unknown outcome.
func (c *TwilioClient) Send(ctx context.Context, text string) (notifier.Delivery, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, url.PathEscape(c.accountSID))
	form := url.Values{}
	form.Set("To", c.to)
	form.Set("From", c.from)
	form.Set("Body", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return notifier.Delivery{Status: notifier.DeliveryUnknown}, fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return notifier.Delivery{Status: notifier.DeliveryUnknown}, fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return notifier.Delivery{Status: notifier.DeliveryUnknown}, fmt.Errorf("failed to read twilio response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var msg messageResponse
		if err := json.Unmarshal(body, &msg); err != nil {
			return notifier.Delivery{Status: notifier.DeliveryUnknown}, fmt.Errorf("unable to decode twilio success response: %w", err)
		}
		if msg.Status == "failed" || msg.Status == "undelivered" {
			return notifier.Delivery{Status: notifier.DeliveryRejected, Reason: msg.ErrorMessage, MessageID: msg.SID}, nil
		}
		return notifier.Delivery{Status: notifier.DeliveryDelivered, MessageID: msg.SID}, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var apiErr errorResponse
		reason := resp.Status
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			reason = fmt.Sprintf("%s (code %d)", apiErr.Message, apiErr.Code)
		}
		return notifier.Delivery{Status: notifier.DeliveryRejected, Reason: reason}, nil

	default:
		return notifier.Delivery{Status: notifier.DeliveryUnknown, Reason: fmt.Sprintf("received status code %d", resp.StatusCode)}, nil
	}
}
