package fcm

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	calls    int
	got      *messaging.MulticastMessage
	response *messaging.BatchResponse
	err      error
}

func (f *fakeSender) SendEachForMulticast(_ context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.calls++
	f.got = message
	return f.response, f.err
}

func TestSendToDevices_NoTokens(t *testing.T) {
	sender := &fakeSender{}
	c := newClient(sender, zerolog.Nop())

	res, err := c.SendToDevices(context.Background(), nil, NotificationData{Title: "t"})

	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Zero(t, sender.calls)
}

func TestSendToDevices_MapsResultsInOrder(t *testing.T) {
	sendErr := errors.New("connection reset")
	sender := &fakeSender{response: &messaging.BatchResponse{
		SuccessCount: 1,
		FailureCount: 1,
		Responses: []*messaging.SendResponse{
			{Success: true, MessageID: "m-1"},
			{Success: false, Error: sendErr},
		},
	}}
	c := newClient(sender, zerolog.Nop())

	res, err := c.SendToDevices(context.Background(), []string{"tok-a", "tok-b"}, NotificationData{Title: "Alice", Body: "hi"})

	require.NoError(t, err)
	assert.Equal(t, 1, sender.calls)
	require.Len(t, res.Results, 2)
	assert.Equal(t, SendResult{Token: "tok-a", Success: true, MessageID: "m-1"}, res.Results[0])
	assert.Equal(t, "tok-b", res.Results[1].Token)
	assert.False(t, res.Results[1].Success)
	assert.Equal(t, CodeUnknownError, res.Results[1].ErrorCode)
	assert.ErrorIs(t, res.Results[1].Err, sendErr)
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.FailureCount)
}

func TestSendToDevices_WholeCallFails(t *testing.T) {
	sender := &fakeSender{err: errors.New("unauthenticated")}
	c := newClient(sender, zerolog.Nop())

	res, err := c.SendToDevices(context.Background(), []string{"tok"}, NotificationData{})

	assert.Nil(t, res)
	assert.ErrorContains(t, err, "unauthenticated")
}

func TestBuildMulticast_PlatformHints(t *testing.T) {
	msg := buildMulticast([]string{"a", "b"}, NotificationData{
		Title:            "New Contribution Request",
		Body:             "Bob wants to join",
		Data:             map[string]string{"type": "request_received"},
		AndroidChannelID: "project_notifications",
		ClickAction:      ClickAction,
		Badge:            1,
		Sound:            "default",
	})

	assert.Equal(t, []string{"a", "b"}, msg.Tokens)
	assert.Equal(t, "New Contribution Request", msg.Notification.Title)
	assert.Equal(t, "request_received", msg.Data["type"])
	assert.Equal(t, "high", msg.Android.Priority)
	assert.Equal(t, "project_notifications", msg.Android.Notification.ChannelID)
	assert.Equal(t, ClickAction, msg.Android.Notification.ClickAction)
	require.NotNil(t, msg.APNS)
	require.NotNil(t, msg.APNS.Payload.Aps.Badge)
	assert.Equal(t, 1, *msg.APNS.Payload.Aps.Badge)
	assert.Equal(t, "default", msg.APNS.Payload.Aps.Sound)
}

func TestBuildMulticast_NoAPNSHints(t *testing.T) {
	msg := buildMulticast([]string{"a"}, NotificationData{Title: "x"})

	assert.Nil(t, msg.APNS)
}

func TestErrorCode_NonMessagingErrors(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, CodeUnknownError, ErrorCode(errors.New("boom")))
}
