package delivery

import (
	"context"
	"fmt"

	"collab-notify/internal/trigger/usecase"

	"cloud.google.com/go/pubsub"
	cloudevents "github.com/cloudevents/sdk-go/v2/event"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Subscriber receives Firestore events from a Pub/Sub subscription. CloudEvent
// metadata travels in the message attributes (ce-id, ce-type, ce-source and
// content-type), following the CloudEvents Pub/Sub binding.
type Subscriber struct {
	pubsubClient *pubsub.Client
	dispatcher   usecase.Dispatcher
	subName      string
	log          zerolog.Logger
}

func NewSubscriber(ctx context.Context, projectID, subName string, dispatcher usecase.Dispatcher, log zerolog.Logger, credentialsFile string) (*Subscriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Subscriber{
		pubsubClient: client,
		dispatcher:   dispatcher,
		subName:      subName,
		log:          log.With().Str("component", "pubsub").Str("subscription", subName).Logger(),
	}, nil
}

// Start blocks receiving messages until ctx is cancelled or the subscription fails.
func (s *Subscriber) Start(ctx context.Context) error {
	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check subscription %s: %w", s.subName, err)
	}
	if !exists {
		return fmt.Errorf("subscription %s does not exist", s.subName)
	}

	s.log.Info().Msg("listening for firestore events")
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg.ID, msg.Data, msg.Attributes)
		msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("receive from %s: %w", s.subName, err)
	}
	return nil
}

func (s *Subscriber) handleMessage(ctx context.Context, messageID string, data []byte, attrs map[string]string) {
	evt, err := toEvent(cloudEventFromAttributes(messageID, data, attrs), "pubsub")
	if err != nil {
		s.log.Error().Err(err).Str("message_id", messageID).Msg("failed to decode event")
		return
	}
	s.dispatcher.Dispatch(ctx, evt)
}

func cloudEventFromAttributes(messageID string, data []byte, attrs map[string]string) *cloudevents.Event {
	ce := cloudevents.New()
	ce.SetID(firstNonEmpty(attrs["ce-id"], messageID))
	ce.SetType(attrs["ce-type"])
	if src := attrs["ce-source"]; src != "" {
		ce.SetSource(src)
	}
	ce.SetDataContentType(firstNonEmpty(attrs["content-type"], attrs["ce-datacontenttype"]))
	ce.DataEncoded = data
	return &ce
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (s *Subscriber) Close() error {
	return s.pubsubClient.Close()
}
