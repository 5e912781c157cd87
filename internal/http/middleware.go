package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/auth"
	"github.com/mauv0809/squad-roster/internal/http/handlers"
	"github.com/mauv0809/squad-roster/internal/notifier"
	"github.com/mauv0809/squad-roster/internal/roster"
	"github.com/slack-go/slack"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		// Handle 'dry_run' and add it to the request context.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := notifier.WithDryRun(r.Context(), isDryRun)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// members is what the auth middleware needs from the roster.
type members interface {
	Get(ctx context.Context, id int64) (roster.Player, error)
}

// authMiddleware resolves the session token from the Authorization header or the session cookie.
// The member is reloaded so that deactivation and role changes apply to existing sessions.
func authMiddleware(issuer *auth.Issuer, store members) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				handlers.RespondUnauthorized(w)
				return
			}
			claimed, err := issuer.Parse(token)
			if err != nil {
				log.Debug("Rejected session token", "error", err)
				handlers.RespondUnauthorized(w)
				return
			}
			p, err := store.Get(r.Context(), claimed.ID)
			if err != nil || !p.Active {
				log.Debug("Session for unknown or inactive member", "id", claimed.ID)
				handlers.RespondUnauthorized(w)
				return
			}
			ctx := auth.WithActor(r.Context(), auth.ActorOf(p))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(handlers.SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// requireRole rejects actors holding none of roles. It must run after authMiddleware.
func requireRole(roles ...roster.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.ActorFrom(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w)
				return
			}
			if err := auth.Require(actor, r.Method+" "+r.URL.Path, roles...); err != nil {
				handlers.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// slackVerifyMiddleware checks the Slack request signature before the body is handed on.
func slackVerifyMiddleware(signingSecret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if signingSecret == "" {
				log.Warn("Slack signing secret not configured, rejecting command")
				http.Error(w, "Slack commands are not configured", http.StatusServiceUnavailable)
				return
			}
			verifier, err := slack.NewSecretsVerifier(r.Header, signingSecret)
			if err != nil {
				log.Warn("Missing Slack signature headers", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			body, err := io.ReadAll(io.TeeReader(r.Body, &verifier))
			if err != nil {
				http.Error(w, "Failed to read request body", http.StatusBadRequest)
				return
			}
			if err := verifier.Ensure(); err != nil {
				log.Warn("Invalid Slack signature", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
