package usecase

import (
	"context"
	"fmt"
	"strings"

	"collab-notify/internal/push/domain"
	"collab-notify/internal/push/repository"
	"collab-notify/pkg/fcm"

	"github.com/rs/zerolog"
)

// Gateway is the push-messaging side of delivery; *fcm.Client implements it.
type Gateway interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) (*fcm.BatchResult, error)
}

type PushUsecase interface {
	// Deliver sends one multicast to every registered device of recipientID and
	// prunes tokens the gateway reports as dead. Partial failures are reported,
	// not returned as errors.
	Deliver(ctx context.Context, recipientID string, n domain.Notification, md domain.Metadata) (*domain.DeliveryReport, error)
	RegisterToken(ctx context.Context, userID, deviceID, token, platform string) error
	UnregisterDevice(ctx context.Context, userID, deviceID string) error
}

type pushUsecase struct {
	tokenRepo repository.TokenRepository
	gateway   Gateway
	log       zerolog.Logger
}

func NewPushUsecase(tokenRepo repository.TokenRepository, gateway Gateway, log zerolog.Logger) PushUsecase {
	return &pushUsecase{
		tokenRepo: tokenRepo,
		gateway:   gateway,
		log:       log.With().Str("component", "push").Logger(),
	}
}

// deadTokenCodes are the only failures that mean a token will never work again.
var deadTokenCodes = map[string]struct{}{
	fcm.CodeInvalidRegistrationToken:       {},
	fcm.CodeRegistrationTokenNotRegistered: {},
}

func isDeadToken(code string) bool {
	_, ok := deadTokenCodes[code]
	return ok
}

func (u *pushUsecase) Deliver(ctx context.Context, recipientID string, n domain.Notification, md domain.Metadata) (*domain.DeliveryReport, error) {
	log := u.log.With().Str("recipient", recipientID).Logger()

	message, err := buildNotificationData(n, md)
	if err != nil {
		return nil, err
	}

	tokens, index, err := u.tokenRepo.FetchTokens(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("fetch tokens: %w", err)
	}
	if len(tokens) == 0 {
		log.Info().Msg("no FCM tokens found for recipient, skipping push")
		return &domain.DeliveryReport{}, nil
	}
	log.Debug().Int("tokens", len(tokens)).Msg("found FCM tokens for recipient")

	result, err := u.gateway.SendToDevices(ctx, tokens, message)
	if err != nil {
		return nil, fmt.Errorf("send multicast: %w", err)
	}

	report := &domain.DeliveryReport{Tokens: len(tokens)}
	dead := make(map[string]struct{})
	for i, r := range result.Results {
		if r.Success {
			report.Succeeded++
			continue
		}
		report.Failed++
		token := r.Token
		if token == "" && i < len(tokens) {
			token = tokens[i]
		}
		if isDeadToken(r.ErrorCode) {
			dead[token] = struct{}{}
			log.Info().Int("index", i).Str("code", r.ErrorCode).Msg("token is no longer valid")
			continue
		}
		log.Warn().Int("index", i).Str("code", r.ErrorCode).Err(r.Err).Msg("send to token failed, keeping token")
	}

	if len(dead) > 0 {
		removed, err := u.tokenRepo.RemoveTokens(ctx, recipientID, dead, index)
		if err != nil {
			log.Error().Err(err).Int("dead", len(dead)).Msg("failed to remove invalid tokens")
		} else {
			report.Removed = removed
			log.Info().Int("removed", removed).Msg("removed invalid tokens")
		}
	}

	log.Info().
		Str("type", md.Type()).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("push delivered")
	return report, nil
}

func buildNotificationData(n domain.Notification, md domain.Metadata) (fcm.NotificationData, error) {
	data := fcm.NotificationData{
		Title:       n.Title,
		Body:        n.Body,
		ClickAction: fcm.ClickAction,
		Badge:       1,
		Sound:       "default",
	}

	switch m := md.(type) {
	case domain.ChatMetadata:
		data.AndroidChannelID = domain.ChannelChatMessages
		data.Data = map[string]string{
			"type":           domain.TypeChatMessage,
			"conversationId": m.ConversationID,
			"senderId":       m.SenderID,
			"senderName":     m.SenderName,
			"click_action":   fcm.ClickAction,
		}
	case domain.ProjectMetadata:
		if m.Kind == "" {
			return fcm.NotificationData{}, fmt.Errorf("%w: project metadata without type", domain.ErrUnsupportedMetadata)
		}
		data.AndroidChannelID = domain.ChannelProjectNotifications
		data.Data = map[string]string{
			"type":         m.Kind,
			"projectId":    m.ProjectID,
			"projectTitle": m.ProjectTitle,
			"fromUserId":   m.FromUserID,
			"fromUserName": m.FromUserName,
			"click_action": fcm.ClickAction,
		}
	default:
		return fcm.NotificationData{}, fmt.Errorf("%w: %T", domain.ErrUnsupportedMetadata, md)
	}

	return data, nil
}

func (u *pushUsecase) RegisterToken(ctx context.Context, userID, deviceID, token, platform string) error {
	deviceID = strings.TrimSpace(deviceID)
	token = strings.TrimSpace(token)
	if userID == "" || deviceID == "" || token == "" {
		return fmt.Errorf("%w: user, device and token are required", domain.ErrInvalidDevice)
	}
	if err := u.tokenRepo.SaveToken(ctx, userID, deviceID, token, strings.ToLower(platform)); err != nil {
		return err
	}
	u.log.Info().Str("user", userID).Str("device", deviceID).Msg("registered device token")
	return nil
}

func (u *pushUsecase) UnregisterDevice(ctx context.Context, userID, deviceID string) error {
	if userID == "" || strings.TrimSpace(deviceID) == "" {
		return fmt.Errorf("%w: user and device are required", domain.ErrInvalidDevice)
	}
	return u.tokenRepo.DeleteDevice(ctx, userID, strings.TrimSpace(deviceID))
}
