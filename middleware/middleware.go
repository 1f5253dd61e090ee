// Package middleware loads HTTP request bodies through a schema before the
// wrapped handler runs.
//
//	r.With(middleware.Load(orderType.New())).Post("/orders", func(w http.ResponseWriter, r *http.Request) {
//	    order, _ := middleware.Loaded(r.Context())
//	    ...
//	})
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/source"
)

// DefaultMaxBytes bounds the request body unless MaxBytes overrides it.
const DefaultMaxBytes = 4 << 20

type ctxKeyLoaded struct{}

// ContextWithLoaded attaches a loaded value to ctx.
func ContextWithLoaded(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyLoaded{}, v)
}

// Loaded returns the value stored by Load.
func Loaded(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyLoaded{})
	return v, v != nil
}

// ErrorHandler writes the response for a request whose body did not load.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, status int, err error)

// Option configures Load.
type Option func(*config)

type config struct {
	many     goschema.ManyMode
	maxBytes int64
	onError  ErrorHandler
	srcOpts  []source.Option
}

// Many overrides the schema's many setting for every request.
func Many(mode goschema.ManyMode) Option { return func(c *config) { c.many = mode } }

// MaxBytes bounds the request body.
func MaxBytes(n int64) Option { return func(c *config) { c.maxBytes = n } }

// OnError replaces the default JSON error response.
func OnError(h ErrorHandler) Option { return func(c *config) { c.onError = h } }

// AllowDuplicateKeys accepts JSON bodies with repeated object keys.
func AllowDuplicateKeys() Option {
	return func(c *config) { c.srcOpts = append(c.srcOpts, source.AllowDuplicateKeys()) }
}

// Load decodes the body (YAML when the Content-Type says so, JSON otherwise)
// and loads it through s. A body that does not decode is answered with 400,
// one that fails the schema with 422. Definition failures surfacing during the
// load (an unresolvable nested reference) are answered with 500.
func Load(s *goschema.Schema, opts ...Option) func(http.Handler) http.Handler {
	c := config{maxBytes: DefaultMaxBytes, onError: WriteError}
	for _, o := range opts {
		o(&c)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			format := source.FormatJSON
			if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
				format = source.FormatYAML
			}
			data, err := source.DecodeReader(http.MaxBytesReader(w, r.Body, c.maxBytes), format, c.srcOpts...)
			if err != nil {
				status := http.StatusBadRequest
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					status = http.StatusRequestEntityTooLarge
				}
				c.onError(w, r, status, err)
				return
			}
			v, err := s.Load(r.Context(), data, goschema.LoadOpt{Many: c.many})
			if err != nil {
				status := http.StatusUnprocessableEntity
				if goschema.IsConfigError(err) {
					status = http.StatusInternalServerError
				}
				c.onError(w, r, status, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithLoaded(r.Context(), v)))
		})
	}
}

// ErrorPayload shapes a failure for JSON responses: the message, plus the
// kind and path when err is a *goschema.Error.
func ErrorPayload(err error) map[string]any {
	body := map[string]any{"error": err.Error()}
	if e, ok := goschema.AsError(err); ok {
		body["kind"] = e.Kind
		if len(e.Path) > 0 {
			body["path"] = e.Path.String()
		}
	}
	return body
}

// WriteError is the default ErrorHandler.
func WriteError(w http.ResponseWriter, _ *http.Request, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorPayload(err))
}
