package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"collab-notify/internal/trigger/domain"
	"collab-notify/pkg/firestoreevent"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HandlerFunc handles one matched event. Returned errors are logged, never propagated.
type HandlerFunc func(ctx context.Context, evt *domain.Event, params domain.Params) error

// Dispatcher is what transports feed decoded events into.
type Dispatcher interface {
	Dispatch(ctx context.Context, evt *domain.Event) int
}

type route struct {
	eventType string
	pattern   string
	segments  []string
	handler   HandlerFunc
}

// Router binds document path patterns like "projects/{projectId}/requests/{requestId}"
// to handlers, per event type.
type Router struct {
	routes []route
	log    zerolog.Logger
}

func NewRouter(log zerolog.Logger) *Router {
	return &Router{log: log.With().Str("component", "trigger").Logger()}
}

func (r *Router) Handle(eventType, pattern string, h HandlerFunc) {
	pattern = strings.Trim(pattern, "/")
	r.routes = append(r.routes, route{
		eventType: eventType,
		pattern:   pattern,
		segments:  strings.Split(pattern, "/"),
		handler:   h,
	})
}

func (r *Router) OnCreate(pattern string, h HandlerFunc) {
	r.Handle(firestoreevent.TypeCreated, pattern, h)
}

func (r *Router) OnUpdate(pattern string, h HandlerFunc) {
	r.Handle(firestoreevent.TypeUpdated, pattern, h)
}

// Dispatch runs every handler matching the event and reports how many matched.
// It always completes normally: the event is acknowledged whatever the outcome.
func (r *Router) Dispatch(ctx context.Context, evt *domain.Event) int {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	path := evt.Path()
	log := r.log.With().
		Str("event_id", evt.ID).
		Str("event_type", evt.Type).
		Str("source", evt.Source).
		Str("document", path).
		Logger()

	matched := 0
	for _, rt := range r.routes {
		if rt.eventType != evt.Type {
			continue
		}
		params, ok := match(rt.segments, path)
		if !ok {
			continue
		}
		matched++

		routeLog := log.With().Str("route", rt.pattern).Logger()
		r.run(routeLog.WithContext(ctx), routeLog, rt, evt, params)
	}

	if matched == 0 {
		log.Debug().Msg("no handler for event, acknowledging")
	}
	return matched
}

func (r *Router) run(ctx context.Context, log zerolog.Logger, rt route, evt *domain.Event, params domain.Params) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("panic", fmt.Sprint(rec)).Msg("handler panicked")
		}
	}()

	if err := rt.handler(ctx, evt, params); err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("handler failed")
		return
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("handler completed")
}

// match compares path segments against a pattern; "{name}" segments capture.
func match(pattern []string, path string) (domain.Params, bool) {
	if path == "" {
		return nil, false
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) != len(pattern) {
		return nil, false
	}

	params := domain.Params{}
	for i, p := range pattern {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if segments[i] == "" {
				return nil, false
			}
			params[p[1:len(p)-1]] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}
