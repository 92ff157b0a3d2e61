package identity

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/identitykit/pkg/persist"
)

// Middleware returns an http middleware that builds a session for each
// request, synchronizes it with the provider and stashes it in the request
// context. Synchronization failures are logged with a per-invocation id and
// the request proceeds unauthenticated; downstream handlers decide what an
// unconnected session means for them.
//
// The persist options configure the cookie-backed slot store, e.g.
// persist.WithSecure(true) behind TLS or persist.WithDomain for
// cross-subdomain sessions.
func (i *Identity) Middleware(opts ...persist.Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess := i.NewSession(persist.NewCookieStore(w, r, opts...))

			if err := i.Synchronize(ctx, sess); err != nil {
				i.log.ErrorContext(ctx, "session synchronization failed",
					slog.String("invocation_id", uuid.NewString()),
					slog.Any("error", err),
				)
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
		})
	}
}
