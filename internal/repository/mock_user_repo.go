package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-account-service/internal/model"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindActiveByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) FindActiveByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) FindActiveByNationalID(ctx context.Context, nationalID string) (model.User, error) {
	args := m.Called(ctx, nationalID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) Insert(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id string, deletedBy string) (model.User, error) {
	args := m.Called(ctx, id, deletedBy)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) DeletePermanently(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, page int, limit int) ([]model.User, int, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]model.User), args.Int(1), args.Error(2)
}
