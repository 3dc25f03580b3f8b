package repository

import (
	"context"

	"collab-notify/internal/notification/domain"

	"cloud.google.com/go/firestore"
)

type ProjectRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Project, error)
}

type projectRepository struct {
	client *firestore.Client
}

func NewProjectRepository(client *firestore.Client) ProjectRepository {
	return &projectRepository{client: client}
}

func (r *projectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	found, err := getDoc(ctx, r.client, projectsCollection, id, &project)
	if err != nil || !found {
		return nil, err
	}
	project.ID = id
	return &project, nil
}
