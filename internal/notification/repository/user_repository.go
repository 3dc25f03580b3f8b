package repository

import (
	"context"

	"collab-notify/internal/notification/domain"

	"cloud.google.com/go/firestore"
)

type UserRepository interface {
	// FindByID returns nil when the user has no profile document.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type userRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	found, err := getDoc(ctx, r.client, usersCollection, id, &user)
	if err != nil || !found {
		return nil, err
	}
	user.ID = id
	return &user, nil
}
