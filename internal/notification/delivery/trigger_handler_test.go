package delivery

import (
	"context"
	"errors"
	"testing"

	"collab-notify/internal/notification/domain"
	triggerdomain "collab-notify/internal/trigger/domain"
	triggerusecase "collab-notify/internal/trigger/usecase"
	"collab-notify/pkg/firestoreevent"

	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotificationUsecase struct{ mock.Mock }

func (m *mockNotificationUsecase) NotifyChatMessage(ctx context.Context, conversationID string, msg domain.ChatMessage) error {
	return m.Called(ctx, conversationID, msg).Error(0)
}
func (m *mockNotificationUsecase) NotifyRequestCreated(ctx context.Context, projectID string, req domain.ContributionRequest) error {
	return m.Called(ctx, projectID, req).Error(0)
}
func (m *mockNotificationUsecase) NotifyRequestStatusChange(ctx context.Context, projectID string, before, after domain.ContributionRequest) error {
	return m.Called(ctx, projectID, before, after).Error(0)
}

func str(s string) *firestoredata.Value {
	return &firestoredata.Value{ValueType: &firestoredata.Value_StringValue{StringValue: s}}
}

func doc(path string, fields map[string]*firestoredata.Value) *firestoredata.Document {
	return &firestoredata.Document{
		Name:   "projects/collab/databases/(default)/documents/" + path,
		Fields: fields,
	}
}

func newRouter(uc *mockNotificationUsecase) *triggerusecase.Router {
	r := triggerusecase.NewRouter(zerolog.Nop())
	NewTriggerHandler(uc, zerolog.Nop()).Register(r)
	return r
}

func TestChatMessageCreated(t *testing.T) {
	uc := &mockNotificationUsecase{}
	uc.On("NotifyChatMessage", mock.Anything, "c1", domain.ChatMessage{
		ID:       "m1",
		SenderID: "alice",
		Text:     "Hello there, how are you?",
	}).Return(nil).Once()

	n := newRouter(uc).Dispatch(context.Background(), &triggerdomain.Event{
		Type: firestoreevent.TypeCreated,
		Data: &firestoredata.DocumentEventData{Value: doc("conversations/c1/messages/m1", map[string]*firestoredata.Value{
			"senderId": str("alice"),
			"text":     str("Hello there, how are you?"),
		})},
	})

	assert.Equal(t, 1, n)
	uc.AssertExpectations(t)
}

func TestChatMessageCreated_MissingSenderIsSkipped(t *testing.T) {
	uc := &mockNotificationUsecase{}
	h := NewTriggerHandler(uc, zerolog.Nop())

	err := h.OnNewChatMessage(context.Background(), &triggerdomain.Event{
		Data: &firestoredata.DocumentEventData{Value: doc("conversations/c1/messages/m1", map[string]*firestoredata.Value{
			"text": str("orphan"),
		})},
	}, triggerdomain.Params{"conversationId": "c1"})

	require.NoError(t, err)
	uc.AssertNotCalled(t, "NotifyChatMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestChatMessageCreated_NoSnapshot(t *testing.T) {
	uc := &mockNotificationUsecase{}
	h := NewTriggerHandler(uc, zerolog.Nop())

	require.NoError(t, h.OnNewChatMessage(context.Background(), &triggerdomain.Event{}, triggerdomain.Params{}))
	uc.AssertNotCalled(t, "NotifyChatMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestContributionRequestCreated(t *testing.T) {
	uc := &mockNotificationUsecase{}
	uc.On("NotifyRequestCreated", mock.Anything, "p1", domain.ContributionRequest{
		ID:          "r1",
		RequesterID: "xavier",
		Status:      domain.StatusPending,
	}).Return(nil).Once()

	newRouter(uc).Dispatch(context.Background(), &triggerdomain.Event{
		Type: firestoreevent.TypeCreated,
		Data: &firestoredata.DocumentEventData{Value: doc("projects/p1/requests/r1", map[string]*firestoredata.Value{
			"userId": str("xavier"),
			"status": str("pending"),
		})},
	})

	uc.AssertExpectations(t)
	uc.AssertNotCalled(t, "NotifyRequestStatusChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestStatusChange(t *testing.T) {
	uc := &mockNotificationUsecase{}
	uc.On("NotifyRequestStatusChange", mock.Anything, "p1",
		domain.ContributionRequest{ID: "r1", RequesterID: "zoe", Status: domain.StatusPending},
		domain.ContributionRequest{ID: "r1", RequesterID: "zoe", Status: domain.StatusRejected},
	).Return(nil).Once()

	newRouter(uc).Dispatch(context.Background(), &triggerdomain.Event{
		Type: firestoreevent.TypeUpdated,
		Data: &firestoredata.DocumentEventData{
			OldValue: doc("projects/p1/requests/r1", map[string]*firestoredata.Value{
				"userId": str("zoe"), "status": str("pending"),
			}),
			Value: doc("projects/p1/requests/r1", map[string]*firestoredata.Value{
				"userId": str("zoe"), "status": str("rejected"),
			}),
		},
	})

	uc.AssertExpectations(t)
}

func TestRequestStatusChange_MissingBefore(t *testing.T) {
	uc := &mockNotificationUsecase{}
	h := NewTriggerHandler(uc, zerolog.Nop())

	err := h.OnRequestStatusChange(context.Background(), &triggerdomain.Event{
		Data: &firestoredata.DocumentEventData{Value: doc("projects/p1/requests/r1", nil)},
	}, triggerdomain.Params{"projectId": "p1"})

	require.NoError(t, err)
	uc.AssertNotCalled(t, "NotifyRequestStatusChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecaseErrorIsContainedByRouter(t *testing.T) {
	uc := &mockNotificationUsecase{}
	uc.On("NotifyRequestCreated", mock.Anything, "p1", mock.Anything).Return(errors.New("firestore unavailable"))

	assert.NotPanics(t, func() {
		newRouter(uc).Dispatch(context.Background(), &triggerdomain.Event{
			Type: firestoreevent.TypeCreated,
			Data: &firestoredata.DocumentEventData{Value: doc("projects/p1/requests/r1", map[string]*firestoredata.Value{
				"userId": str("xavier"),
			})},
		})
	})
	uc.AssertExpectations(t)
}
