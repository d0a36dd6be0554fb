package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"medication_reminder_bot/internal/domain/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		captured = *r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestSendDelivered(t *testing.T) {
	srv, req := newTestServer(t, http.StatusCreated, `{"sid": "SM123", "status": "queued", "body": "Good morning!"}`)
	client := NewTwilioClient("AC1", "token", "+15550000001", "+15550000002").WithBaseURL(srv.URL)

	d, err := client.Send(context.Background(), "Good morning! Please take your Aspirin.")
	require.NoError(t, err)
	assert.Equal(t, notifier.DeliveryDelivered, d.Status)
	assert.Equal(t, "SM123", d.MessageID)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/2010-04-01/Accounts/AC1/Messages.json", req.URL.Path)
	user, pass, ok := req.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "AC1", user)
	assert.Equal(t, "token", pass)
	assert.Equal(t, "+15550000002", req.PostForm.Get("To"))
	assert.Equal(t, "+15550000001", req.PostForm.Get("From"))
	assert.Equal(t, "Good morning! Please take your Aspirin.", req.PostForm.Get("Body"))
}

func TestSendRejected(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadRequest,
		`{"code": 21211, "message": "The 'To' number is not a valid phone number.", "more_info": "https://www.twilio.com/docs/errors/21211", "status": 400}`)
	client := NewTwilioClient("AC1", "token", "+1", "+2").WithBaseURL(srv.URL)

	d, err := client.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, notifier.DeliveryRejected, d.Status)
	assert.Equal(t, "The 'To' number is not a valid phone number. (code 21211)", d.Reason)
}

func TestSendRejectedWithoutBody(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnauthorized, ``)
	client := NewTwilioClient("AC1", "bad", "+1", "+2").WithBaseURL(srv.URL)

	d, err := client.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, notifier.DeliveryRejected, d.Status)
	assert.Equal(t, "401 Unauthorized", d.Reason)
}

func TestSendFailedMessageStatus(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusCreated, `{"sid": "SM9", "status": "failed", "error_message": "Unreachable"}`)
	client := NewTwilioClient("AC1", "token", "+1", "+2").WithBaseURL(srv.URL)

	d, err := client.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, notifier.DeliveryRejected, d.Status)
	assert.Equal(t, "Unreachable", d.Reason)
}

func TestSendUnknown(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusServiceUnavailable, `oops`)
	client := NewTwilioClient("AC1", "token", "+1", "+2").WithBaseURL(srv.URL)

	d, err := client.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, notifier.DeliveryUnknown, d.Status)
	assert.Equal(t, "received status code 503", d.Reason)
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewTwilioClient("AC1", "token", "+1", "+2").WithBaseURL(srv.URL)

	d, err := client.Send(context.Background(), "hi")
	assert.Error(t, err)
	assert.Equal(t, notifier.DeliveryUnknown, d.Status)
}
