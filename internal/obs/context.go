package obs

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type routePatternKey struct{}

type requestMetaKey struct{}

// RequestMeta carries values produced by a handler back out to the
// middlewares that wrap it, such as the request logger.
type RequestMeta struct {
	RunID        string
	Applications int
}

// WithRoutePattern stores an explicit route pattern on the context. It takes
// precedence over the pattern chi records while routing.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, routePatternKey{}, pattern)
}

// RoutePatternFromContext extracts the route pattern from context if present.
func RoutePatternFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(routePatternKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestMeta attaches an empty RequestMeta to ctx.
func WithRequestMeta(ctx context.Context) (context.Context, *RequestMeta) {
	if ctx == nil {
		ctx = context.Background()
	}
	if meta := RequestMetaFromContext(ctx); meta != nil {
		return ctx, meta
	}
	meta := &RequestMeta{}
	return context.WithValue(ctx, requestMetaKey{}, meta), meta
}

// RequestMetaFromContext returns the RequestMeta installed by WithRequestMeta.
func RequestMetaFromContext(ctx context.Context) *RequestMeta {
	if ctx == nil {
		return nil
	}
	meta, _ := ctx.Value(requestMetaKey{}).(*RequestMeta)
	return meta
}

// RecordEvaluation notes the run id and application count of a cart
// evaluation on the surrounding request, if any.
func RecordEvaluation(ctx context.Context, runID string, applications int) {
	if meta := RequestMetaFromContext(ctx); meta != nil {
		meta.RunID = runID
		meta.Applications = applications
	}
}

// routeLabel resolves the route for r. chi fills its route context while
// routing, so this is only complete after the request has been served.
func routeLabel(r *http.Request, fallback string) string {
	if route := RoutePatternFromContext(r.Context()); route != "" {
		return route
	}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if route := rc.RoutePattern(); route != "" {
			return route
		}
	}
	return fallback
}
