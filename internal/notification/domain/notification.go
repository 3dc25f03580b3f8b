package domain

import "time"

// Contribution request statuses
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

type User struct {
	ID   string `firestore:"-"`
	Name string `firestore:"name"`
}

type Project struct {
	ID      string `firestore:"-"`
	Title   string `firestore:"title"`
	OwnerID string `firestore:"uid"`
}

type Conversation struct {
	ID           string   `firestore:"-"`
	Participants []string `firestore:"participants"`
}

// OtherParticipant returns the first participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) (string, bool) {
	for _, p := range c.Participants {
		if p != "" && p != userID {
			return p, true
		}
	}
	return "", false
}

type ChatMessage struct {
	ID       string
	SenderID string `validate:"required"`
	Text     string
}

type ContributionRequest struct {
	ID          string
	RequesterID string `validate:"required"`
	Status      string
}

// NotificationRecord is the in-app notification stored in the notifications collection.
type NotificationRecord struct {
	UserID       string    `firestore:"userId"`
	Type         string    `firestore:"type"`
	Title        string    `firestore:"title"`
	Body         string    `firestore:"body"`
	ProjectID    string    `firestore:"projectId"`
	ProjectTitle string    `firestore:"projectTitle"`
	FromUserID   string    `firestore:"fromUserId"`
	FromUserName string    `firestore:"fromUserName"`
	IsRead       bool      `firestore:"isRead"`
	CreatedAt    time.Time `firestore:"createdAt,serverTimestamp"`
}
