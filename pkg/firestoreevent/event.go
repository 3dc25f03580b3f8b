// Package firestoreevent decodes google.events.cloud.firestore.v1.DocumentEventData,
// the payload Eventarc delivers for Firestore document triggers, and flattens
// document fields into plain Go values.
package firestoreevent

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CloudEvent types emitted for Firestore document triggers.
const (
	TypeCreated = "google.cloud.firestore.document.v1.created"
	TypeUpdated = "google.cloud.firestore.document.v1.updated"
)

var (
	ErrEmptyPayload           = errors.New("empty event payload")
	ErrUnsupportedContentType = errors.New("unsupported event content type")
)

var jsonOptions = protojson.UnmarshalOptions{DiscardUnknown: true}

// Decode parses an event body. Eventarc sends application/protobuf unless the
// trigger was created with --event-data-content-type=application/json; both
// are accepted. An empty content type is read as JSON.
func Decode(contentType string, data []byte) (*firestoredata.DocumentEventData, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	var evt firestoredata.DocumentEventData
	switch mediaType(contentType) {
	case "application/protobuf", "application/x-protobuf":
		if err := proto.Unmarshal(data, &evt); err != nil {
			return nil, fmt.Errorf("decode protobuf document event: %w", err)
		}
	case "", "application/json", "text/json":
		if err := jsonOptions.Unmarshal(data, &evt); err != nil {
			return nil, fmt.Errorf("decode json document event: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}
	return &evt, nil
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

// Path returns the document path relative to the database root,
// e.g. "conversations/c1/messages/m1".
func Path(doc *firestoredata.Document) string {
	name := doc.GetName()
	if i := strings.Index(name, "/documents/"); i >= 0 {
		return name[i+len("/documents/"):]
	}
	return strings.TrimPrefix(name, "documents/")
}

// Data converts the typed fields of doc into plain Go values. A nil doc yields nil.
func Data(doc *firestoredata.Document) map[string]any {
	if doc == nil {
		return nil
	}
	return fieldsToMap(doc.GetFields())
}

// LatLng is a decoded geo point.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// ValueOf returns the plain Go value: string, int64, float64, bool, time.Time,
// []byte, LatLng, []any, map[string]any, or nil.
func ValueOf(v *firestoredata.Value) any {
	switch x := v.GetValueType().(type) {
	case *firestoredata.Value_StringValue:
		return x.StringValue
	case *firestoredata.Value_IntegerValue:
		return x.IntegerValue
	case *firestoredata.Value_DoubleValue:
		return x.DoubleValue
	case *firestoredata.Value_BooleanValue:
		return x.BooleanValue
	case *firestoredata.Value_TimestampValue:
		return x.TimestampValue.AsTime()
	case *firestoredata.Value_ReferenceValue:
		return x.ReferenceValue
	case *firestoredata.Value_BytesValue:
		return x.BytesValue
	case *firestoredata.Value_GeoPointValue:
		return LatLng{Latitude: x.GeoPointValue.GetLatitude(), Longitude: x.GeoPointValue.GetLongitude()}
	case *firestoredata.Value_ArrayValue:
		values := x.ArrayValue.GetValues()
		out := make([]any, 0, len(values))
		for _, item := range values {
			out = append(out, ValueOf(item))
		}
		return out
	case *firestoredata.Value_MapValue:
		return fieldsToMap(x.MapValue.GetFields())
	default:
		return nil
	}
}

func fieldsToMap(fields map[string]*firestoredata.Value) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = ValueOf(v)
	}
	return out
}
