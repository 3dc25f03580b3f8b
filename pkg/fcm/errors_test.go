package fcm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	firebase "firebase.google.com/go/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fcmReply struct {
	status int
	body   string
}

// fcmError renders an FCM v1 error response with an FcmError detail.
func fcmError(httpStatus int, grpcStatus, message, errorCode string) fcmReply {
	return fcmReply{status: httpStatus, body: fmt.Sprintf(`{"error": {
	  "code": %d,
	  "message": %q,
	  "status": %q,
	  "details": [{"@type": "type.googleapis.com/google.firebase.fcm.v1.FcmError", "errorCode": %q}]
	}}`, httpStatus, message, grpcStatus, errorCode)}
}

// fcmBackend answers messages:send requests by the target token; unknown
// tokens succeed.
type fcmBackend map[string]fcmReply

func (b fcmBackend) RoundTrip(req *http.Request) (*http.Response, error) {
	var payload struct {
		Message struct {
			Token string `json:"token"`
		} `json:"message"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		return nil, err
	}
	token := payload.Message.Token

	reply, ok := b[token]
	if !ok {
		reply = fcmReply{status: http.StatusOK, body: `{"name": "projects/collab-test/messages/` + token + `"}`}
	}
	return &http.Response{
		StatusCode: reply.status,
		Header:     http.Header{"Content-Type": {"application/json; charset=UTF-8"}},
		Body:       io.NopCloser(strings.NewReader(reply.body)),
		Request:    req,
	}, nil
}

func newBackedClient(t *testing.T, backend fcmBackend) *Client {
	t.Helper()
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: "collab-test"},
		option.WithHTTPClient(&http.Client{Transport: backend}))
	require.NoError(t, err)
	messagingClient, err := app.Messaging(ctx)
	require.NoError(t, err)
	return NewClient(messagingClient, zerolog.Nop())
}

func TestSendToDevices_ClassifiesGatewayErrors(t *testing.T) {
	c := newBackedClient(t, fcmBackend{
		"dead": fcmError(http.StatusNotFound, "NOT_FOUND",
			"Requested entity was not found.", "UNREGISTERED"),
		"bad": fcmError(http.StatusBadRequest, "INVALID_ARGUMENT",
			"The registration token is not a valid FCM registration token", "INVALID_ARGUMENT"),
		"payload": fcmError(http.StatusBadRequest, "INVALID_ARGUMENT",
			"Invalid value at 'message.data[0].value' (TYPE_STRING)", "INVALID_ARGUMENT"),
		"mismatch": fcmError(http.StatusForbidden, "PERMISSION_DENIED",
			"SenderId mismatch", "SENDER_ID_MISMATCH"),
	})

	tokens := []string{"live", "dead", "bad", "payload", "mismatch"}
	res, err := c.SendToDevices(context.Background(), tokens, NotificationData{
		Title:            "Alice",
		Body:             "hi",
		Data:             map[string]string{"type": "chat_message"},
		AndroidChannelID: "chat_messages",
	})
	require.NoError(t, err)
	require.Len(t, res.Results, len(tokens))

	codes := map[string]string{}
	for _, r := range res.Results {
		codes[r.Token] = r.ErrorCode
	}
	assert.Equal(t, map[string]string{
		"live":     "",
		"dead":     CodeRegistrationTokenNotRegistered,
		"bad":      CodeInvalidRegistrationToken,
		"payload":  CodeInvalidArgument,
		"mismatch": CodeMismatchedCredential,
	}, codes)
	assert.True(t, res.Results[0].Success)
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 4, res.FailureCount)
}
