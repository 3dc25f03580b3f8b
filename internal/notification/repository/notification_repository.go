package repository

import (
	"context"
	"fmt"

	"collab-notify/internal/notification/domain"

	"cloud.google.com/go/firestore"
)

type NotificationRepository interface {
	// Create stores an unread record; createdAt is assigned by the server.
	Create(ctx context.Context, record *domain.NotificationRecord) (string, error)
}

type notificationRepository struct {
	client *firestore.Client
}

func NewNotificationRepository(client *firestore.Client) NotificationRepository {
	return &notificationRepository{client: client}
}

func (r *notificationRepository) Create(ctx context.Context, record *domain.NotificationRecord) (string, error) {
	rec := *record
	rec.IsRead = false

	ref, _, err := r.client.Collection(notificationsCollection).Add(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("create notification for %s: %w", record.UserID, err)
	}
	return ref.ID, nil
}
