package delivery

import (
	"net/http"

	"collab-notify/internal/trigger/usecase"

	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxEventBytes bounds a single Eventarc request body.
const maxEventBytes = 1 << 20

// EventHandler receives Eventarc HTTP push deliveries. Binary and structured
// CloudEvents modes are both read by the CloudEvents SDK.
type EventHandler struct {
	dispatcher usecase.Dispatcher
	log        zerolog.Logger
}

func NewEventHandler(dispatcher usecase.Dispatcher, log zerolog.Logger) *EventHandler {
	return &EventHandler{
		dispatcher: dispatcher,
		log:        log.With().Str("component", "eventarc").Logger(),
	}
}

// Receive always answers 204 so the event is never redelivered because of a
// notification outcome.
func (h *EventHandler) Receive(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxEventBytes)

	ce, err := cehttp.NewEventFromHTTPRequest(c.Request)
	if err != nil {
		h.log.Error().Err(err).Str("event_id", c.GetHeader("ce-id")).Msg("failed to read cloudevent")
		c.Status(http.StatusNoContent)
		return
	}

	evt, err := toEvent(ce, "http")
	if err != nil {
		h.log.Error().Err(err).Msg("failed to decode event")
		c.Status(http.StatusNoContent)
		return
	}

	h.dispatcher.Dispatch(c.Request.Context(), evt)
	c.Status(http.StatusNoContent)
}
