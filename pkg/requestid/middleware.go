package requestid

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/dmitrymomot/commons/pkg/idfactory"
	"github.com/dmitrymomot/commons/pkg/logger"
)

const maxIDLength = 128

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type options struct {
	ids    idfactory.StringFactory
	logger *slog.Logger
}

type Option func(*options)

// WithGenerator draws new IDs from f instead of random UUIDs.
func WithGenerator(f idfactory.StringFactory) Option {
	return func(o *options) {
		if f != nil {
			o.ids = f
		}
	}
}

// WithLogger reports generator failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Middleware keeps a well-formed incoming X-Request-ID or assigns a new one,
// echoes it in the response and stores it in the request context.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	o := &options{ids: idfactory.NewUUID(), logger: logger.Noop()}
	for _, opt := range opts {
		opt(o)
	}
	fallback := idfactory.NewUUID()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if !isValid(id) {
				id = o.newID(r.Context(), fallback)
			}
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
		})
	}
}

func (o *options) newID(ctx context.Context, fallback *idfactory.UUID) string {
	id, err := o.ids.NewStringID(ctx)
	if err == nil && isValid(id) {
		return id
	}
	if err != nil {
		o.logger.WarnContext(ctx, "requestid.generate.failed", logger.Error(err))
	}
	// UUID generation does not fail.
	id, _ = fallback.NewStringID(ctx)
	return id
}

func isValid(id string) bool {
	return id != "" && len(id) <= maxIDLength && validID.MatchString(id)
}
