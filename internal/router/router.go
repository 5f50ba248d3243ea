// Package router maps location-fragment paths to handlers, with support for
// parameterized segments ("company/:id/dashboard"). Registration order is an
// explicit invariant: resolution tries an exact pattern match first, then the
// first registered pattern that matches structurally.
package router

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"starcomm_training_client/internal/view"

	"go.uber.org/zap"
)

// Handler loads and describes one screen. Handlers are expected to be
// idempotent for repeated invocations with the same parameters and to do
// their own access-control checks, redirecting via Navigate when denied.
type Handler func(ctx context.Context, params map[string]string) (*view.View, error)

// Host binds the produced view models to an actual surface.
type Host interface {
	Render(v *view.View)
	Alert(level view.AlertLevel, message string)
}

type route struct {
	pattern  string
	segments []string
	handler  Handler
}

type Router struct {
	mu            sync.Mutex
	routes        []route
	notFound      Handler
	host          Host
	log           *zap.Logger
	nav           chan string
	generation    uint64
	currentPath   string
	currentParams map[string]string

	inflight sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}
}

func New(host Host, log *zap.Logger) *Router {
	r := &Router{
		host:    host,
		log:     log,
		nav:     make(chan string, 16),
		stopped: make(chan struct{}),
	}
	r.notFound = func(context.Context, map[string]string) (*view.View, error) {
		return view.NotFound(), nil
	}
	return r
}

// AddRoute registers a pattern. Re-registering an identical pattern silently
// replaces the prior handler, keeping its original position in the order.
func (r *Router) AddRoute(pattern string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.routes {
		if r.routes[i].pattern == pattern {
			r.routes[i].handler = handler
			return
		}
	}
	r.routes = append(r.routes, route{
		pattern:  pattern,
		segments: strings.Split(pattern, "/"),
		handler:  handler,
	})
}

// SetNotFound overrides the fallback handler for unresolved paths.
func (r *Router) SetNotFound(handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notFound = handler
}

// Match is a resolved route: its handler plus the captured parameters.
type Match struct {
	Pattern string
	Handler Handler
	Params  map[string]string
}

// Resolve finds the route for a path. The empty string is the root route.
func (r *Router) Resolve(path string) (*Match, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Exact pattern match wins outright.
	for _, rt := range r.routes {
		if rt.pattern == path {
			return &Match{Pattern: rt.pattern, Handler: rt.handler, Params: map[string]string{}}, true
		}
	}

	segments := splitPath(path)
	for _, rt := range r.routes {
		if params, ok := matchSegments(rt.segments, segments); ok {
			return &Match{Pattern: rt.pattern, Handler: rt.handler, Params: params}, true
		}
	}
	return nil, false
}

func splitPath(path string) []string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		// Standard percent-decoding, applied identically to every segment.
		if decoded, err := url.PathUnescape(seg); err == nil {
			segments[i] = decoded
		}
	}
	return segments
}

// matchSegments compares a pattern against path segments position by
// position. A ":name" segment captures any non-empty value; a literal must
// match exactly, and an empty literal never matches.
func matchSegments(pattern, actual []string) (map[string]string, bool) {
	if len(pattern) != len(actual) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if actual[i] == "" {
				return nil, false
			}
			params[seg[1:]] = actual[i]
			continue
		}
		if seg == "" || seg != actual[i] {
			return nil, false
		}
	}
	return params, true
}

// Navigate schedules a navigation to path. Dispatch happens asynchronously
// on the router's loop, never synchronously in the caller.
func (r *Router) Navigate(path string) {
	select {
	case <-r.stopped:
	case r.nav <- path:
	}
}

func (r *Router) CurrentPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentPath
}

func (r *Router) CurrentParams() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	params := make(map[string]string, len(r.currentParams))
	for k, v := range r.currentParams {
		params[k] = v
	}
	return params
}

// Run consumes navigation events until ctx is done or Stop is called. Each
// event resolves and dispatches in its own goroutine stamped with a
// generation; a handler finishing after a newer navigation has its view
// discarded instead of mutating the screen.
func (r *Router) Run(ctx context.Context) {
	defer r.inflight.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopped:
			return
		case path := <-r.nav:
			r.dispatch(ctx, path)
		}
	}
}

// Stop shuts the dispatch loop down. In-flight handlers run to completion:
// network requests have no cancellation, their late results are simply
// discarded by the generation check.
func (r *Router) Stop() {
	r.stopOnce.Do(func() { close(r.stopped) })
}

func (r *Router) dispatch(ctx context.Context, path string) {
	match, ok := r.Resolve(path)

	r.mu.Lock()
	r.generation++
	generation := r.generation
	r.currentPath = path
	handler := r.notFound
	params := map[string]string{}
	if ok {
		handler = match.Handler
		params = match.Params
	}
	r.currentParams = params
	r.mu.Unlock()

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()

		v, err := handler(ctx, params)

		r.mu.Lock()
		stale := generation != r.generation
		r.mu.Unlock()
		if stale {
			r.log.Debug("discarding superseded navigation", zap.String("path", path))
			return
		}

		if err != nil {
			r.log.Error("route handler failed", zap.String("path", path), zap.Error(err))
			r.host.Alert(view.AlertError, "An error occurred while loading the page.")
			return
		}
		if v != nil {
			r.host.Render(v)
		}
	}()
}

// Wait blocks until every dispatched handler has finished. Used by hosts
// that need an idle signal, and by tests.
func (r *Router) Wait() {
	r.inflight.Wait()
}
