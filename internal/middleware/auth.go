package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-account-service/internal/metrics"
	"go-account-service/internal/model"
	"go-account-service/pkg/apierror"
)

type authenticator interface {
	Authenticate(ctx context.Context, authorizationHeader string) (model.User, error)
	AuthenticateOptional(ctx context.Context, authorizationHeader string) (model.User, bool)
	CanAccess(user model.User, resourceOwnerID string) bool
}

type contextKey string

const userContextKey contextKey = "authenticated_user"

type AuthMiddleware struct {
	auth      authenticator
	collector *metrics.Collector
}

func NewAuthMiddleware(auth authenticator, collector *metrics.Collector) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, collector: collector}
}

// RequireAuth resolves the bearer token to a live identity and attaches it to
// the request context. Every failure is terminal for the request.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			m.collector.RecordAuthFailure(apierror.CodeOf(err))
			writeAuthError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// OptionalAuth attaches the identity when a valid token is present and
// silently proceeds without one otherwise. It never rejects.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := m.auth.AuthenticateOptional(r.Context(), r.Header.Get("Authorization")); ok {
			r = r.WithContext(withUser(r.Context(), user))
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSelf authorizes the authenticated identity against the {id} route
// parameter. Must run after RequireAuth.
func (m *AuthMiddleware) RequireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeAuthError(w, apierror.New(apierror.CodeMissingToken, "access token required", "", http.StatusUnauthorized))
			return
		}

		if !m.auth.CanAccess(user, chi.URLParam(r, "id")) {
			m.collector.RecordAuthFailure(apierror.CodeForbidden)
			writeAuthError(w, apierror.New(apierror.CodeForbidden, "access to this resource is denied", "", http.StatusForbidden))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func withUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userContextKey).(model.User)
	return user, ok
}

func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	body := &model.APIError{Code: apierror.CodeInternal, Message: "unexpected server error"}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{Success: false, Error: body})
}
