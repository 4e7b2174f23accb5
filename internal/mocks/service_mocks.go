package mocks

import (
	"context"

	"leaveflow/internal/auth"
	"leaveflow/internal/model"
	"leaveflow/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type AuthService struct{ mock.Mock }

func (m *AuthService) Register(ctx context.Context, req service.RegisterRequest) (*service.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserResponse), args.Error(1)
}

func (m *AuthService) Login(ctx context.Context, req service.LoginRequest) (*service.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenResponse), args.Error(1)
}

type LeaveService struct{ mock.Mock }

func (m *LeaveService) Create(ctx context.Context, requester auth.Identity, req service.CreateLeaveRequest) (*service.LeaveResponse, error) {
	args := m.Called(ctx, requester, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LeaveResponse), args.Error(1)
}

func (m *LeaveService) List(ctx context.Context, identity auth.Identity, page, limit int) ([]service.LeaveResponse, int64, error) {
	args := m.Called(ctx, identity, page, limit)
	var leaves []service.LeaveResponse
	if args.Get(0) != nil {
		leaves = args.Get(0).([]service.LeaveResponse)
	}
	return leaves, args.Get(1).(int64), args.Error(2)
}

func (m *LeaveService) GetByID(ctx context.Context, identity auth.Identity, id uuid.UUID) (*service.LeaveResponse, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LeaveResponse), args.Error(1)
}

func (m *LeaveService) Decide(ctx context.Context, actor auth.Identity, id uuid.UUID, status model.LeaveStatus, reason string) (*service.LeaveResponse, error) {
	args := m.Called(ctx, actor, id, status, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LeaveResponse), args.Error(1)
}

func (m *LeaveService) Balance(ctx context.Context, identity auth.Identity, year int) (*service.BalanceResponse, error) {
	args := m.Called(ctx, identity, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BalanceResponse), args.Error(1)
}

type UserService struct{ mock.Mock }

func (m *UserService) ListUsers(ctx context.Context, page, limit int) ([]service.UserResponse, int64, error) {
	args := m.Called(ctx, page, limit)
	var users []service.UserResponse
	if args.Get(0) != nil {
		users = args.Get(0).([]service.UserResponse)
	}
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*service.UserResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserResponse), args.Error(1)
}

func (m *UserService) UpdateUser(ctx context.Context, actor auth.Identity, id uuid.UUID, req service.UpdateUserRequest) (*service.UserResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserResponse), args.Error(1)
}

func (m *UserService) DeleteUser(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}
