package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"go-account-service/internal/model"
	"go-account-service/internal/password"
	"go-account-service/internal/token"
	"go-account-service/pkg/apierror"
)

// invalidCredentials is shared by "email unknown" and "password wrong" so the
// response never discloses which check failed.
func invalidCredentials() *apierror.APIError {
	return apierror.New(apierror.CodeInvalidCredentials, "invalid email or password", "", http.StatusUnauthorized)
}

// UserService orchestrates registration, login, and profile flows over the
// hasher, the token issuer, and the repository.
type UserService struct {
	users  UserRepository
	hasher *password.Hasher
	tokens *token.Issuer
}

func NewUserService(users UserRepository, hasher *password.Hasher, tokens *token.Issuer) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates an account and logs it in. Uniqueness checks run before
// the expensive hash so the common duplicate-signup case fails fast; the
// storage layer still has the final word when two registrations race.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	if _, err := s.users.FindActiveByEmail(ctx, req.Email); err == nil {
		return model.AuthResponse{}, apierror.New(apierror.CodeEmailTaken, "email already registered", "", http.StatusConflict)
	} else if !apierror.IsCode(err, apierror.CodeNotFound) {
		return model.AuthResponse{}, err
	}

	if req.NationalID != "" {
		if _, err := s.users.FindActiveByNationalID(ctx, req.NationalID); err == nil {
			return model.AuthResponse{}, apierror.New(apierror.CodeNationalIDTaken, "national id already registered", "", http.StatusConflict)
		} else if !apierror.IsCode(err, apierror.CodeNotFound) {
			return model.AuthResponse{}, err
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, apierror.Wrap(apierror.CodeInternal, "could not hash password", http.StatusInternalServerError, err)
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return model.AuthResponse{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Pronoun:      optional(req.Pronoun),
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        optional(req.Phone),
		BirthDate:    birthDate,
		NationalID:   optional(req.NationalID),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user, err = s.users.Insert(ctx, user)
	if err != nil {
		return model.AuthResponse{}, err
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.AuthResponse{}, apierror.Wrap(apierror.CodeInternal, "could not issue token", http.StatusInternalServerError, err)
	}

	return model.AuthResponse{User: user, Token: signed}, nil
}

func (s *UserService) Login(ctx context.Context, email string, plaintext string) (model.AuthResponse, error) {
	user, err := s.users.FindActiveByEmail(ctx, email)
	if apierror.IsCode(err, apierror.CodeNotFound) {
		// Burn a hash comparison anyway so the unknown-email path is not
		// measurably faster than a wrong password.
		s.hasher.VerifyDummy(plaintext)
		return model.AuthResponse{}, invalidCredentials()
	}
	if err != nil {
		return model.AuthResponse{}, err
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return model.AuthResponse{}, invalidCredentials()
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.AuthResponse{}, apierror.Wrap(apierror.CodeInternal, "could not issue token", http.StatusInternalServerError, err)
	}

	return model.AuthResponse{User: user, Token: signed}, nil
}

// ChangePassword re-verifies the current password before persisting the new
// hash. Outstanding tokens stay valid; no re-issue happens.
func (s *UserService) ChangePassword(ctx context.Context, user model.User, currentPlaintext string, newPlaintext string) error {
	if !s.hasher.Verify(currentPlaintext, user.PasswordHash) {
		return apierror.New(apierror.CodeInvalidCurrentPassword, "current password is incorrect", "", http.StatusUnauthorized)
	}

	hash, err := s.hasher.Hash(newPlaintext)
	if err != nil {
		return apierror.Wrap(apierror.CodeInternal, "could not hash password", http.StatusInternalServerError, err)
	}

	return s.users.UpdatePassword(ctx, user.ID, hash)
}

// UpdateProfile applies the provided fields. Email and national id are
// re-checked against other active accounts only when they actually change.
func (s *UserService) UpdateProfile(ctx context.Context, user model.User, req model.UpdateProfileRequest) (model.User, error) {
	if req.Email != nil && *req.Email != user.Email {
		if other, err := s.users.FindActiveByEmail(ctx, *req.Email); err == nil && other.ID != user.ID {
			return model.User{}, apierror.New(apierror.CodeEmailTaken, "email already registered", "", http.StatusConflict)
		} else if err != nil && !apierror.IsCode(err, apierror.CodeNotFound) {
			return model.User{}, err
		}
		user.Email = *req.Email
	}

	if req.NationalID != nil && !equalOptional(user.NationalID, *req.NationalID) {
		if other, err := s.users.FindActiveByNationalID(ctx, *req.NationalID); err == nil && other.ID != user.ID {
			return model.User{}, apierror.New(apierror.CodeNationalIDTaken, "national id already registered", "", http.StatusConflict)
		} else if err != nil && !apierror.IsCode(err, apierror.CodeNotFound) {
			return model.User{}, err
		}
		user.NationalID = optional(*req.NationalID)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Pronoun != nil {
		user.Pronoun = optional(*req.Pronoun)
	}
	if req.Phone != nil {
		user.Phone = optional(*req.Phone)
	}
	if req.BirthDate != nil {
		birthDate, err := parseBirthDate(*req.BirthDate)
		if err != nil {
			return model.User{}, err
		}
		user.BirthDate = birthDate
	}

	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

func (s *UserService) GetByID(ctx context.Context, id string) (model.User, error) {
	return s.users.FindActiveByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, page int, limit int) ([]model.User, int, error) {
	return s.users.List(ctx, page, limit)
}

// SoftDelete deactivates the account and records who deleted it. The row is
// kept; its email and national id become reusable immediately.
func (s *UserService) SoftDelete(ctx context.Context, id string, deletedBy string) (model.User, error) {
	return s.users.SoftDelete(ctx, id, deletedBy)
}

func parseBirthDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apierror.New(apierror.CodeBadRequest, "birth_date must be YYYY-MM-DD", "birth_date", http.StatusBadRequest)
	}

	return &t, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func equalOptional(current *string, next string) bool {
	if current == nil {
		return next == ""
	}
	return *current == next
}
