package usecase

import (
	"context"
	"fmt"

	"collab-notify/internal/notification/domain"
	"collab-notify/internal/notification/repository"
	pushdomain "collab-notify/internal/push/domain"

	"github.com/rs/zerolog"
)

// Defaults used when a profile or project has no name.
const (
	DefaultSenderName   = "Someone"
	DefaultOwnerName    = "The project owner"
	DefaultProjectTitle = "a project"

	maxChatBodyRunes = 100
	ellipsis         = "..."
)

// Deliverer is the push side; push/usecase.PushUsecase implements it.
type Deliverer interface {
	Deliver(ctx context.Context, recipientID string, n pushdomain.Notification, md pushdomain.Metadata) (*pushdomain.DeliveryReport, error)
}

// NotificationUsecase resolves who gets notified for each event and what they see.
// Missing data and business-rule skips return nil; only unexpected failures
// are returned as errors.
type NotificationUsecase interface {
	NotifyChatMessage(ctx context.Context, conversationID string, msg domain.ChatMessage) error
	NotifyRequestCreated(ctx context.Context, projectID string, req domain.ContributionRequest) error
	NotifyRequestStatusChange(ctx context.Context, projectID string, before, after domain.ContributionRequest) error
}

type notificationUsecase struct {
	userRepo         repository.UserRepository
	projectRepo      repository.ProjectRepository
	conversationRepo repository.ConversationRepository
	notificationRepo repository.NotificationRepository
	deliverer        Deliverer
	log              zerolog.Logger
}

func NewNotificationUsecase(
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	conversationRepo repository.ConversationRepository,
	notificationRepo repository.NotificationRepository,
	deliverer Deliverer,
	log zerolog.Logger,
) NotificationUsecase {
	return &notificationUsecase{
		userRepo:         userRepo,
		projectRepo:      projectRepo,
		conversationRepo: conversationRepo,
		notificationRepo: notificationRepo,
		deliverer:        deliverer,
		log:              log.With().Str("component", "notification").Logger(),
	}
}

// logger prefers the per-invocation logger carried by ctx.
func (u *notificationUsecase) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &u.log
}

func (u *notificationUsecase) NotifyChatMessage(ctx context.Context, conversationID string, msg domain.ChatMessage) error {
	log := u.logger(ctx).With().Str("conversation", conversationID).Str("sender", msg.SenderID).Logger()

	conversation, err := u.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}
	if conversation == nil {
		log.Info().Msg("conversation not found, skipping")
		return nil
	}

	recipientID, ok := conversation.OtherParticipant(msg.SenderID)
	if !ok {
		log.Info().Msg("recipient not found, skipping")
		return nil
	}

	senderName, err := u.displayName(ctx, msg.SenderID, DefaultSenderName)
	if err != nil {
		return err
	}

	report, err := u.deliverer.Deliver(ctx, recipientID,
		pushdomain.Notification{Title: senderName, Body: TruncateMessage(msg.Text)},
		pushdomain.ChatMetadata{
			ConversationID: conversationID,
			SenderID:       msg.SenderID,
			SenderName:     senderName,
		})
	if err != nil {
		return fmt.Errorf("deliver chat notification to %s: %w", recipientID, err)
	}

	log.Info().Str("recipient", recipientID).Int("succeeded", report.Succeeded).Msg("chat notification sent")
	return nil
}

func (u *notificationUsecase) NotifyRequestCreated(ctx context.Context, projectID string, req domain.ContributionRequest) error {
	log := u.logger(ctx).With().Str("project", projectID).Str("requester", req.RequesterID).Logger()

	project, err := u.findProject(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		log.Info().Msg("project not found, skipping")
		return nil
	}

	if project.OwnerID == req.RequesterID {
		log.Info().Msg("owner requested to own project, skipping")
		return nil
	}

	requesterName, err := u.displayName(ctx, req.RequesterID, DefaultSenderName)
	if err != nil {
		return err
	}

	return u.notify(ctx, log, project.OwnerID,
		pushdomain.Notification{
			Title: "New Contribution Request",
			Body:  fmt.Sprintf(`%s wants to join "%s"`, requesterName, project.Title),
		},
		pushdomain.ProjectMetadata{
			Kind:         pushdomain.TypeRequestReceived,
			ProjectID:    projectID,
			ProjectTitle: project.Title,
			FromUserID:   req.RequesterID,
			FromUserName: requesterName,
		})
}

func (u *notificationUsecase) NotifyRequestStatusChange(ctx context.Context, projectID string, before, after domain.ContributionRequest) error {
	log := u.logger(ctx).With().Str("project", projectID).Str("requester", after.RequesterID).Logger()

	if before.Status != domain.StatusPending {
		log.Debug().Str("before", before.Status).Msg("previous status was not pending, skipping")
		return nil
	}
	if after.Status != domain.StatusAccepted && after.Status != domain.StatusRejected {
		log.Debug().Str("after", after.Status).Msg("new status is not accepted or rejected, skipping")
		return nil
	}

	project, err := u.findProject(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		log.Info().Msg("project not found, skipping")
		return nil
	}

	ownerName, err := u.displayName(ctx, project.OwnerID, DefaultOwnerName)
	if err != nil {
		return err
	}

	n := pushdomain.Notification{
		Title: "Request Accepted",
		Body:  fmt.Sprintf(`Your request to join "%s" was accepted`, project.Title),
	}
	kind := pushdomain.TypeRequestAccepted
	if after.Status == domain.StatusRejected {
		n = pushdomain.Notification{
			Title: "Request Declined",
			Body:  fmt.Sprintf(`Your request to join "%s" was declined`, project.Title),
		}
		kind = pushdomain.TypeRequestRejected
	}

	return u.notify(ctx, log, after.RequesterID, n, pushdomain.ProjectMetadata{
		Kind:         kind,
		ProjectID:    projectID,
		ProjectTitle: project.Title,
		FromUserID:   project.OwnerID,
		FromUserName: ownerName,
	})
}

// notify persists the in-app record and then pushes the same content.
func (u *notificationUsecase) notify(ctx context.Context, log zerolog.Logger, recipientID string, n pushdomain.Notification, md pushdomain.ProjectMetadata) error {
	id, err := u.notificationRepo.Create(ctx, &domain.NotificationRecord{
		UserID:       recipientID,
		Type:         md.Kind,
		Title:        n.Title,
		Body:         n.Body,
		ProjectID:    md.ProjectID,
		ProjectTitle: md.ProjectTitle,
		FromUserID:   md.FromUserID,
		FromUserName: md.FromUserName,
	})
	if err != nil {
		return err
	}
	log.Debug().Str("notification", id).Str("recipient", recipientID).Msg("created notification document")

	report, err := u.deliverer.Deliver(ctx, recipientID, n, md)
	if err != nil {
		return fmt.Errorf("deliver %s to %s: %w", md.Kind, recipientID, err)
	}

	log.Info().Str("type", md.Kind).Str("recipient", recipientID).Int("succeeded", report.Succeeded).Msg("project notification sent")
	return nil
}

// findProject returns nil for a missing project or one without an owner.
func (u *notificationUsecase) findProject(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := u.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if project == nil || project.OwnerID == "" {
		return nil, nil
	}
	if project.Title == "" {
		project.Title = DefaultProjectTitle
	}
	return project, nil
}

func (u *notificationUsecase) displayName(ctx context.Context, userID, fallback string) (string, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load user %s: %w", userID, err)
	}
	if user == nil || user.Name == "" {
		return fallback, nil
	}
	return user.Name, nil
}

// TruncateMessage shortens a chat body to 100 characters plus an ellipsis.
func TruncateMessage(text string) string {
	runes := []rune(text)
	if len(runes) <= maxChatBodyRunes {
		return text
	}
	return string(runes[:maxChatBodyRunes]) + ellipsis
}
