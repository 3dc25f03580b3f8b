package delivery

import (
	"context"

	"collab-notify/internal/notification/domain"
	"collab-notify/internal/notification/usecase"
	triggerdomain "collab-notify/internal/trigger/domain"
	triggerusecase "collab-notify/internal/trigger/usecase"
	"collab-notify/pkg/firestoreevent"

	"github.com/go-playground/validator/v10"
	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"github.com/rs/zerolog"
)

// Document paths the handlers are bound to.
const (
	ChatMessagePath = "conversations/{conversationId}/messages/{messageId}"
	RequestPath     = "projects/{projectId}/requests/{requestId}"
)

// TriggerHandler turns Firestore document events into resolver calls.
type TriggerHandler struct {
	notificationUsecase usecase.NotificationUsecase
	validate            *validator.Validate
	log                 zerolog.Logger
}

func NewTriggerHandler(notificationUsecase usecase.NotificationUsecase, log zerolog.Logger) *TriggerHandler {
	return &TriggerHandler{
		notificationUsecase: notificationUsecase,
		validate:            validator.New(),
		log:                 log,
	}
}

// Register binds the three notification triggers.
func (h *TriggerHandler) Register(r *triggerusecase.Router) {
	r.OnCreate(ChatMessagePath, h.OnNewChatMessage)
	r.OnCreate(RequestPath, h.OnContributionRequest)
	r.OnUpdate(RequestPath, h.OnRequestStatusChange)
}

func (h *TriggerHandler) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &h.log
}

func (h *TriggerHandler) OnNewChatMessage(ctx context.Context, evt *triggerdomain.Event, params triggerdomain.Params) error {
	if evt.Data.GetValue() == nil {
		h.logger(ctx).Info().Msg("no message data found")
		return nil
	}
	data := firestoreevent.Data(evt.Data.GetValue())
	msg := domain.ChatMessage{
		ID:       params.Get("messageId"),
		SenderID: stringField(data, "senderId"),
		Text:     stringField(data, "text"),
	}
	if err := h.validate.Struct(msg); err != nil {
		h.logger(ctx).Warn().Err(err).Msg("invalid message document, skipping")
		return nil
	}

	return h.notificationUsecase.NotifyChatMessage(ctx, params.Get("conversationId"), msg)
}

func (h *TriggerHandler) OnContributionRequest(ctx context.Context, evt *triggerdomain.Event, params triggerdomain.Params) error {
	if evt.Data.GetValue() == nil {
		h.logger(ctx).Info().Msg("no request data found")
		return nil
	}
	req := requestFrom(evt.Data.GetValue(), params)
	if err := h.validate.Struct(req); err != nil {
		h.logger(ctx).Warn().Err(err).Msg("invalid request document, skipping")
		return nil
	}

	return h.notificationUsecase.NotifyRequestCreated(ctx, params.Get("projectId"), req)
}

func (h *TriggerHandler) OnRequestStatusChange(ctx context.Context, evt *triggerdomain.Event, params triggerdomain.Params) error {
	if evt.Data.GetValue() == nil || evt.Data.GetOldValue() == nil {
		h.logger(ctx).Info().Msg("no data found")
		return nil
	}
	before := requestFrom(evt.Data.GetOldValue(), params)
	after := requestFrom(evt.Data.GetValue(), params)
	if err := h.validate.Struct(after); err != nil {
		h.logger(ctx).Warn().Err(err).Msg("invalid request document, skipping")
		return nil
	}

	return h.notificationUsecase.NotifyRequestStatusChange(ctx, params.Get("projectId"), before, after)
}

func requestFrom(doc *firestoredata.Document, params triggerdomain.Params) domain.ContributionRequest {
	data := firestoreevent.Data(doc)
	return domain.ContributionRequest{
		ID:          params.Get("requestId"),
		RequesterID: stringField(data, "userId"),
		Status:      stringField(data, "status"),
	}
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}
