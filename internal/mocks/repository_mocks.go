package mocks

import (
	"context"

	"leaveflow/internal/model"
	"leaveflow/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type UserRepository struct{ mock.Mock }

func (m *UserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepository) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, page, limit)
	var users []model.User
	if args.Get(0) != nil {
		users = args.Get(0).([]model.User)
	}
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *UserRepository) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type LeaveRepository struct{ mock.Mock }

func (m *LeaveRepository) Create(ctx context.Context, leave *model.LeaveRequest) error {
	return m.Called(ctx, leave).Error(0)
}

func (m *LeaveRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeaveRequest), args.Error(1)
}

func (m *LeaveRepository) List(ctx context.Context, filter repository.LeaveFilter, page, limit int) ([]model.LeaveRequest, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	var leaves []model.LeaveRequest
	if args.Get(0) != nil {
		leaves = args.Get(0).([]model.LeaveRequest)
	}
	return leaves, args.Get(1).(int64), args.Error(2)
}

func (m *LeaveRepository) DecideIfPending(ctx context.Context, id uuid.UUID, status model.LeaveStatus, decidedBy uuid.UUID, reason string) (bool, error) {
	args := m.Called(ctx, id, status, decidedBy, reason)
	return args.Bool(0), args.Error(1)
}

type BalanceRepository struct{ mock.Mock }

func (m *BalanceRepository) Get(ctx context.Context, userID uuid.UUID, year int) (*model.LeaveBalance, error) {
	args := m.Called(ctx, userID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeaveBalance), args.Error(1)
}

func (m *BalanceRepository) EnsureExists(ctx context.Context, userID uuid.UUID, year int, totalDays decimal.Decimal) error {
	return m.Called(ctx, userID, year, totalDays).Error(0)
}

func (m *BalanceRepository) AddUsedDays(ctx context.Context, userID uuid.UUID, year int, days decimal.Decimal) (bool, error) {
	args := m.Called(ctx, userID, year, days)
	return args.Bool(0), args.Error(1)
}

type AuditRepository struct{ mock.Mock }

func (m *AuditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *AuditRepository) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, page, limit)
	var logs []model.AuditLog
	if args.Get(0) != nil {
		logs = args.Get(0).([]model.AuditLog)
	}
	return logs, args.Get(1).(int64), args.Error(2)
}

// TxManager is a pass-through fake: it runs the callback on the same context
// with no real transaction underneath.
type TxManager struct{}

func (TxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
