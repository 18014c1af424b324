package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/MuhammadFattan/task-management/logging"
	"github.com/MuhammadFattan/task-management/models"
	"github.com/MuhammadFattan/task-management/services"
	"github.com/MuhammadFattan/task-management/utils"

	"github.com/gorilla/mux"
)

type ctxKey string

const callerKey ctxKey = "caller"

// Authenticator resolves a bearer token to the caller it identifies.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Caller, error)
}

// Protect rejects requests without a valid bearer token and stores the
// resolved caller in the request context.
func Protect(auth Authenticator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				logging.Logger.Warnf("Event ID: AUTH_MISSING_TOKEN, Description: No bearer token for %s %s", r.Method, r.URL.Path)
				utils.WriteMessage(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			caller, err := auth.Authenticate(r.Context(), strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
			if err != nil {
				logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Rejected token for %s %s: %v", r.Method, r.URL.Path, err)
				status := http.StatusUnauthorized
				if errors.Is(err, services.ErrStore) {
					status = http.StatusInternalServerError
				}
				utils.WriteMessage(w, status, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// AdminOnly lets through callers with the admin role. It must run after Protect.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		if !ok || !caller.IsAdmin() {
			logging.Logger.Warnf("Event ID: AUTH_ADMIN_REQUIRED, Description: Non-admin request to %s %s", r.Method, r.URL.Path)
			utils.WriteMessage(w, http.StatusForbidden, "Access denied, admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithCaller(ctx context.Context, caller models.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func CallerFromContext(ctx context.Context) (models.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(models.Caller)
	return caller, ok
}
