package repository

import (
	"context"

	"collab-notify/internal/notification/domain"

	"cloud.google.com/go/firestore"
)

type ConversationRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)
}

type conversationRepository struct {
	client *firestore.Client
}

func NewConversationRepository(client *firestore.Client) ConversationRepository {
	return &conversationRepository{client: client}
}

func (r *conversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var conversation domain.Conversation
	found, err := getDoc(ctx, r.client, conversationsCollection, id, &conversation)
	if err != nil || !found {
		return nil, err
	}
	conversation.ID = id
	return &conversation, nil
}
