package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-account-service/internal/model"
	"go-account-service/pkg/apierror"
)

// stubAuthenticator returns canned results so the middleware can be tested
// without a token verifier or storage.
type stubAuthenticator struct {
	user model.User
	err  error
}

func (s *stubAuthenticator) Authenticate(context.Context, string) (model.User, error) {
	return s.user, s.err
}

func (s *stubAuthenticator) AuthenticateOptional(ctx context.Context, header string) (model.User, bool) {
	u, err := s.Authenticate(ctx, header)
	return u, err == nil
}

func (s *stubAuthenticator) CanAccess(user model.User, resourceOwnerID string) bool {
	return user.ID == resourceOwnerID
}

func echoUserHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(user.ID))
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("success attaches identity", func(t *testing.T) {
		m := NewAuthMiddleware(&stubAuthenticator{user: model.User{ID: "user-1"}}, nil)
		rec := httptest.NewRecorder()

		m.RequireAuth(echoUserHandler(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Body.String())
	})

	t.Run("failure writes the error envelope", func(t *testing.T) {
		authErr := apierror.New(apierror.CodeTokenExpired, "token has expired", "", http.StatusUnauthorized)
		m := NewAuthMiddleware(&stubAuthenticator{err: authErr}, nil)
		rec := httptest.NewRecorder()

		m.RequireAuth(echoUserHandler(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp model.APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, apierror.CodeTokenExpired, resp.Error.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Run("valid token attaches identity", func(t *testing.T) {
		m := NewAuthMiddleware(&stubAuthenticator{user: model.User{ID: "user-1"}}, nil)
		rec := httptest.NewRecorder()

		m.OptionalAuth(echoUserHandler(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Body.String())
	})

	t.Run("failure proceeds anonymously", func(t *testing.T) {
		authErr := apierror.New(apierror.CodeTokenInvalid, "token is invalid", "", http.StatusUnauthorized)
		m := NewAuthMiddleware(&stubAuthenticator{err: authErr}, nil)

		var sawIdentity bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, sawIdentity = UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		m.OptionalAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, sawIdentity)
	})
}

func TestRequireSelf(t *testing.T) {
	withRouteID := func(r *http.Request, id string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	m := NewAuthMiddleware(&stubAuthenticator{}, nil)

	t.Run("own resource passes", func(t *testing.T) {
		req := withRouteID(httptest.NewRequest(http.MethodGet, "/users/user-1", nil), "user-1")
		req = req.WithContext(withUser(req.Context(), model.User{ID: "user-1"}))

		rec := httptest.NewRecorder()
		m.RequireSelf(echoUserHandler(t)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("someone else's resource is forbidden", func(t *testing.T) {
		req := withRouteID(httptest.NewRequest(http.MethodGet, "/users/user-2", nil), "user-2")
		req = req.WithContext(withUser(req.Context(), model.User{ID: "user-1"}))

		rec := httptest.NewRecorder()
		m.RequireSelf(echoUserHandler(t)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)

		var resp model.APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, apierror.CodeForbidden, resp.Error.Code)
	})

	t.Run("no identity in context rejects", func(t *testing.T) {
		req := withRouteID(httptest.NewRequest(http.MethodGet, "/users/user-1", nil), "user-1")

		rec := httptest.NewRecorder()
		m.RequireSelf(echoUserHandler(t)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
