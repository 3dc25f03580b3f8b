package fcm

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
)

// ClickAction is the marker the mobile client routes notification taps on.
const ClickAction = "FLUTTER_NOTIFICATION_CLICK"

type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient multicastSender
	log             zerolog.Logger
}

// NewClient wraps an initialized messaging client (see pkg/firebase).
func NewClient(messagingClient *messaging.Client, log zerolog.Logger) *Client {
	return newClient(messagingClient, log)
}

func newClient(sender multicastSender, log zerolog.Logger) *Client {
	return &Client{
		messagingClient: sender,
		log:             log.With().Str("component", "fcm").Logger(),
	}
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title string
	Body  string
	Data  map[string]string // Custom data payload
	// Platform hints
	AndroidChannelID string
	ClickAction      string
	Badge            int
	Sound            string
}

// SendResult is the outcome for one token of a multicast, in input order.
type SendResult struct {
	Token     string
	Success   bool
	MessageID string
	ErrorCode string
	Err       error
}

type BatchResult struct {
	SuccessCount int
	FailureCount int
	Results      []SendResult
}

// SendToDevices sends one multicast to all tokens and reports the outcome per token.
func (c *Client) SendToDevices(ctx context.Context, tokens []string, notification NotificationData) (*BatchResult, error) {
	if len(tokens) == 0 {
		return &BatchResult{}, nil
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, buildMulticast(tokens, notification))
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	c.log.Debug().
		Int("success", response.SuccessCount).
		Int("failure", response.FailureCount).
		Msg("multicast sent")

	result := &BatchResult{
		SuccessCount: response.SuccessCount,
		FailureCount: response.FailureCount,
		Results:      make([]SendResult, 0, len(tokens)),
	}
	for i, resp := range response.Responses {
		if i >= len(tokens) || resp == nil {
			break
		}
		r := SendResult{Token: tokens[i], Success: resp.Success, MessageID: resp.MessageID}
		if !resp.Success {
			r.Err = resp.Error
			r.ErrorCode = ErrorCode(resp.Error)
		}
		result.Results = append(result.Results, r)
	}

	return result, nil
}

func buildMulticast(tokens []string, notification NotificationData) *messaging.MulticastMessage {
	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID:   notification.AndroidChannelID,
				ClickAction: notification.ClickAction,
			},
		},
	}

	if notification.Badge > 0 || notification.Sound != "" {
		aps := &messaging.Aps{Sound: notification.Sound}
		if notification.Badge > 0 {
			badge := notification.Badge
			aps.Badge = &badge
		}
		message.APNS = &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{Aps: aps},
		}
	}

	return message
}
