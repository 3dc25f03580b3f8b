package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pushdomain "collab-notify/internal/push/domain"
	triggerDelivery "collab-notify/internal/trigger/delivery"
	triggerdomain "collab-notify/internal/trigger/domain"
	"collab-notify/pkg/config"

	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubPush struct{}

func (stubPush) Deliver(context.Context, string, pushdomain.Notification, pushdomain.Metadata) (*pushdomain.DeliveryReport, error) {
	return &pushdomain.DeliveryReport{}, nil
}
func (stubPush) RegisterToken(context.Context, string, string, string, string) error { return nil }
func (stubPush) UnregisterDevice(context.Context, string, string) error              { return nil }

type denyAll struct{}

func (denyAll) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return nil, errors.New("denied")
}

type countingDispatcher struct{ n int }

func (d *countingDispatcher) Dispatch(context.Context, *triggerdomain.Event) int {
	d.n++
	return 0
}

func newTestHandler(d *countingDispatcher) *Handler {
	cfg := &config.Config{GinMode: "test"}
	return NewHandler(triggerDelivery.NewEventHandler(d, zerolog.Nop()), stubPush{}, denyAll{}, cfg, zerolog.Nop())
}

func TestRoutes(t *testing.T) {
	d := &countingDispatcher{}
	engine := newTestHandler(d).Engine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"value":{"name":"documents/users/u1"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("ce-specversion", "1.0")
	req.Header.Set("ce-id", "evt-1")
	req.Header.Set("ce-source", "//firestore.googleapis.com/projects/collab/databases/(default)")
	req.Header.Set("ce-type", "google.cloud.firestore.document.v1.created")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, d.n)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/fcm/register", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
