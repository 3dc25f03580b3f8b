package domain

import "errors"

// Notification types, also sent as data.type.
const (
	TypeChatMessage     = "chat_message"
	TypeRequestReceived = "request_received"
	TypeRequestAccepted = "request_accepted"
	TypeRequestRejected = "request_rejected"
)

// Android notification channels registered by the mobile app.
const (
	ChannelChatMessages         = "chat_messages"
	ChannelProjectNotifications = "project_notifications"
)

var (
	ErrUnsupportedMetadata = errors.New("unsupported notification metadata")
	ErrInvalidDevice       = errors.New("invalid device registration")
)

// Notification is the visible part of a push.
type Notification struct {
	Title string
	Body  string
}

// Metadata is the data payload of a push. The only implementations are
// ChatMetadata and ProjectMetadata.
type Metadata interface {
	// Type is the data.type value the client routes on.
	Type() string
	// metadata seals the union to this package.
	metadata()
}

// ChatMetadata carries a new chat message.
type ChatMetadata struct {
	ConversationID string
	SenderID       string
	SenderName     string
}

func (ChatMetadata) Type() string { return TypeChatMessage }
func (ChatMetadata) metadata()    {}

// ProjectMetadata carries a contribution-request event. Kind is one of
// TypeRequestReceived, TypeRequestAccepted or TypeRequestRejected.
type ProjectMetadata struct {
	Kind         string
	ProjectID    string
	ProjectTitle string
	FromUserID   string
	FromUserName string
}

func (m ProjectMetadata) Type() string { return m.Kind }
func (ProjectMetadata) metadata()      {}

// DeliveryReport summarizes one Deliver call.
type DeliveryReport struct {
	Tokens    int
	Succeeded int
	Failed    int
	Removed   int // dead-token entries the cleanup write targeted
}
