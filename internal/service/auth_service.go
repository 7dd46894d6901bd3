package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-account-service/internal/model"
	"go-account-service/internal/token"
	"go-account-service/pkg/apierror"
)

// UserRepository is the persistence contract the core consumes. The storage
// layer owns uniqueness enforcement and atomic single-row operations.
type UserRepository interface {
	FindActiveByID(ctx context.Context, id string) (model.User, error)
	FindActiveByEmail(ctx context.Context, email string) (model.User, error)
	FindActiveByNationalID(ctx context.Context, nationalID string) (model.User, error)
	Insert(ctx context.Context, u model.User) (model.User, error)
	Update(ctx context.Context, u model.User) (model.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	SoftDelete(ctx context.Context, id string, deletedBy string) (model.User, error)
	DeletePermanently(ctx context.Context, id string) error
	List(ctx context.Context, page int, limit int) ([]model.User, int, error)
}

// AuthService resolves bearer tokens to live identities and decides resource
// access.
type AuthService struct {
	tokens *token.Issuer
	users  UserRepository
}

func NewAuthService(tokens *token.Issuer, users UserRepository) *AuthService {
	return &AuthService{tokens: tokens, users: users}
}

// Authenticate resolves an Authorization header to the current identity.
// The identity is re-fetched from storage on every call, scoped to active
// non-deleted accounts, so deactivation takes effect on the very next request
// even though tokens are stateless.
func (s *AuthService) Authenticate(ctx context.Context, authorizationHeader string) (model.User, error) {
	raw, ok := extractBearer(authorizationHeader)
	if !ok {
		return model.User{}, apierror.New(apierror.CodeMissingToken, "access token required", "", http.StatusUnauthorized)
	}

	subjectID, err := s.tokens.Verify(raw)
	if err != nil {
		return model.User{}, tokenError(err)
	}

	user, err := s.users.FindActiveByID(ctx, subjectID)
	if apierror.IsCode(err, apierror.CodeNotFound) {
		// Valid signature, but the account was deleted or deactivated after
		// the token was issued.
		return model.User{}, apierror.New(apierror.CodeIdentityGone, "account no longer active", "", http.StatusUnauthorized)
	}
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

// AuthenticateOptional runs the same checks but reports any failure as
// "no identity" so endpoints that merely personalize output never reject.
func (s *AuthService) AuthenticateOptional(ctx context.Context, authorizationHeader string) (model.User, bool) {
	user, err := s.Authenticate(ctx, authorizationHeader)
	if err != nil {
		return model.User{}, false
	}
	return user, true
}

// CanAccess is the single authorization decision point: an identity may act
// only on its own resources. Role or capability semantics, if ever added,
// widen this method without touching callers.
func (s *AuthService) CanAccess(user model.User, resourceOwnerID string) bool {
	return user.ID == resourceOwnerID
}

func extractBearer(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", false
	}

	raw := strings.TrimSpace(header[7:])
	if raw == "" {
		return "", false
	}

	return raw, true
}

// tokenError maps verifier failures to distinct codes. Same reject action,
// different user-facing messages.
func tokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrMalformed):
		return apierror.New(apierror.CodeTokenMalformed, "token could not be parsed", "", http.StatusUnauthorized)
	case errors.Is(err, token.ErrExpired):
		return apierror.New(apierror.CodeTokenExpired, "token has expired", "", http.StatusUnauthorized)
	default:
		return apierror.New(apierror.CodeTokenInvalid, "token is invalid", "", http.StatusUnauthorized)
	}
}
