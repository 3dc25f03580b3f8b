package delivery

import (
	"fmt"

	"collab-notify/internal/trigger/domain"
	"collab-notify/pkg/firestoreevent"

	cloudevents "github.com/cloudevents/sdk-go/v2/event"
)

// toEvent decodes the Firestore payload of a CloudEvent using its
// datacontenttype (protobuf or JSON).
func toEvent(ce *cloudevents.Event, transport string) (*domain.Event, error) {
	data, err := firestoreevent.Decode(ce.DataContentType(), ce.Data())
	if err != nil {
		return nil, fmt.Errorf("event %s (%s): %w", ce.ID(), ce.Type(), err)
	}
	return &domain.Event{
		ID:     ce.ID(),
		Type:   ce.Type(),
		Source: transport,
		Data:   data,
	}, nil
}
