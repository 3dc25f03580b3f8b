package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection         = "users"
	projectsCollection      = "projects"
	conversationsCollection = "conversations"
	notificationsCollection = "notifications"
)

// getDoc loads collection/id into dst. It reports false, with no error, when the
// document does not exist or id is empty.
func getDoc(ctx context.Context, client *firestore.Client, collection, id string, dst interface{}) (bool, error) {
	if id == "" {
		return false, nil
	}
	snap, err := client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	if err := snap.DataTo(dst); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return true, nil
}
