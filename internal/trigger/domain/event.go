package domain

import (
	"collab-notify/pkg/firestoreevent"

	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
)

// Event is one Firestore document change as delivered by Eventarc.
type Event struct {
	ID     string
	Type   string // firestoreevent.Type*
	Source string // transport that delivered it: "http" or "pubsub"
	Data   *firestoredata.DocumentEventData
}

// Path returns the changed document's path, taken from the new value when present.
func (e *Event) Path() string {
	if p := firestoreevent.Path(e.Data.GetValue()); p != "" {
		return p
	}
	return firestoreevent.Path(e.Data.GetOldValue())
}

// Params are the wildcard values matched from a route pattern, e.g. {projectId}.
type Params map[string]string

func (p Params) Get(name string) string { return p[name] }
