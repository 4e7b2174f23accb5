package service_test

import (
	"context"
	"testing"
	"time"

	"leaveflow/internal/auth"
	"leaveflow/internal/mocks"
	"leaveflow/internal/model"
	"leaveflow/internal/repository"
	"leaveflow/internal/service"
	"leaveflow/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type leaveFixture struct {
	leaves   *mocks.LeaveRepository
	balances *mocks.BalanceRepository
	audits   *mocks.AuditRepository
	svc      service.LeaveService
}

func newLeaveFixture() *leaveFixture {
	f := &leaveFixture{
		leaves:   new(mocks.LeaveRepository),
		balances: new(mocks.BalanceRepository),
		audits:   new(mocks.AuditRepository),
	}
	f.svc = service.NewLeaveService(f.leaves, f.balances, f.audits, mocks.TxManager{}, nil, decimal.NewFromInt(25))
	return f
}

func requester() auth.Identity {
	return auth.Identity{UserID: uuid.New(), Role: model.RoleUser}
}

func admin() auth.Identity {
	return auth.Identity{UserID: uuid.New(), Role: model.RoleAdmin}
}

func TestCreateLeaveValidation(t *testing.T) {
	cases := map[string]service.CreateLeaveRequest{
		"garbage start":    {Type: "ANNUAL", StartDate: "not-a-date", EndDate: "2024-03-05"},
		"garbage end":      {Type: "ANNUAL", StartDate: "2024-03-01", EndDate: "05/03/2024"},
		"start after end":  {Type: "ANNUAL", StartDate: "2024-03-06", EndDate: "2024-03-05"},
		"impossible month": {Type: "ANNUAL", StartDate: "2024-13-01", EndDate: "2024-13-05"},
	}

	f := newLeaveFixture()
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), requester(), req)
			_, ok := apperr.AsValidation(err)
			assert.True(t, ok, "expected validation error, got %v", err)
		})
	}
}

func TestCreateLeaveOwnedByRequester(t *testing.T) {
	f := newLeaveFixture()
	identity := requester()

	f.leaves.On("Create", mock.Anything, mock.AnythingOfType("*model.LeaveRequest")).
		Run(func(args mock.Arguments) {
			leave := args.Get(1).(*model.LeaveRequest)
			leave.ID = uuid.New()
			// Ownership comes from the verified identity, not the payload.
			assert.Equal(t, identity.UserID, leave.UserID)
			assert.Equal(t, model.LeavePending, leave.Status)
		}).
		Return(nil)
	f.balances.On("EnsureExists", mock.Anything, identity.UserID, 2024, decimal.NewFromInt(25)).Return(nil)
	f.audits.On("Create", mock.Anything, mock.Anything).Return(nil)

	leave, err := f.svc.Create(context.Background(), identity, service.CreateLeaveRequest{
		Type:      "ANNUAL",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-05",
	})

	require.NoError(t, err)
	assert.Equal(t, identity.UserID, leave.UserID)
	assert.Equal(t, model.LeavePending, leave.Status)
	f.leaves.AssertExpectations(t)
	f.balances.AssertExpectations(t)
}

func TestListScopesNonAdminToOwnLeaves(t *testing.T) {
	f := newLeaveFixture()
	identity := requester()

	f.leaves.On("List", mock.Anything, mock.MatchedBy(func(filter repository.LeaveFilter) bool {
		return filter.OwnerID != nil && *filter.OwnerID == identity.UserID
	}), 1, 20).Return([]model.LeaveRequest{}, int64(0), nil)

	_, _, err := f.svc.List(context.Background(), identity, 1, 20)
	require.NoError(t, err)
	f.leaves.AssertExpectations(t)
}

func TestListAdminSeesAll(t *testing.T) {
	f := newLeaveFixture()

	f.leaves.On("List", mock.Anything, mock.MatchedBy(func(filter repository.LeaveFilter) bool {
		return filter.OwnerID == nil
	}), 1, 20).Return([]model.LeaveRequest{}, int64(0), nil)

	_, _, err := f.svc.List(context.Background(), admin(), 1, 20)
	require.NoError(t, err)
	f.leaves.AssertExpectations(t)
}

func TestGetByIDHidesForeignLeaveFromNonAdmin(t *testing.T) {
	f := newLeaveFixture()
	identity := requester()
	leave := &model.LeaveRequest{ID: uuid.New(), UserID: uuid.New(), Status: model.LeavePending}

	f.leaves.On("FindByID", mock.Anything, leave.ID).Return(leave, nil)

	_, err := f.svc.GetByID(context.Background(), identity, leave.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDecideRejectsNonAdmin(t *testing.T) {
	f := newLeaveFixture()

	_, err := f.svc.Decide(context.Background(), requester(), uuid.New(), model.LeaveApproved, "")

	assert.ErrorIs(t, err, apperr.ErrForbidden)
	// The role gate fires before any store access.
	f.leaves.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestDecideRejectsNonTerminalTarget(t *testing.T) {
	f := newLeaveFixture()

	_, err := f.svc.Decide(context.Background(), admin(), uuid.New(), model.LeavePending, "")
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok, "expected validation error, got %v", err)
}

func TestDecideNotFound(t *testing.T) {
	f := newLeaveFixture()
	id := uuid.New()

	f.leaves.On("FindByID", mock.Anything, id).Return(nil, apperr.ErrNotFound)

	_, err := f.svc.Decide(context.Background(), admin(), id, model.LeaveApproved, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDecideAlreadyDecidedConflicts(t *testing.T) {
	f := newLeaveFixture()
	actor := admin()
	leave := &model.LeaveRequest{ID: uuid.New(), UserID: uuid.New(), Status: model.LeaveApproved}

	f.leaves.On("FindByID", mock.Anything, leave.ID).Return(leave, nil)
	f.leaves.On("DecideIfPending", mock.Anything, leave.ID, model.LeaveRejected, actor.UserID, "").Return(false, nil)

	_, err := f.svc.Decide(context.Background(), actor, leave.ID, model.LeaveRejected, "")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestApproveDeductsInclusiveDaySpan(t *testing.T) {
	f := newLeaveFixture()
	actor := admin()
	owner := uuid.New()
	start, _ := time.Parse("2006-01-02", "2024-03-01")
	end, _ := time.Parse("2006-01-02", "2024-03-05")
	pending := &model.LeaveRequest{ID: uuid.New(), UserID: owner, StartDate: start, EndDate: end, Status: model.LeavePending}
	decidedAt := time.Now()
	approved := &model.LeaveRequest{ID: pending.ID, UserID: owner, StartDate: start, EndDate: end, Status: model.LeaveApproved, DecidedBy: &actor.UserID, DecidedAt: &decidedAt}

	f.leaves.On("FindByID", mock.Anything, pending.ID).Return(pending, nil).Once()
	f.leaves.On("DecideIfPending", mock.Anything, pending.ID, model.LeaveApproved, actor.UserID, "").Return(true, nil)
	f.balances.On("EnsureExists", mock.Anything, owner, 2024, decimal.NewFromInt(25)).Return(nil)
	f.balances.On("AddUsedDays", mock.Anything, owner, 2024, decimal.NewFromInt(5)).Return(true, nil)
	f.leaves.On("FindByID", mock.Anything, pending.ID).Return(approved, nil).Once()
	f.audits.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := f.svc.Decide(context.Background(), actor, pending.ID, model.LeaveApproved, "")

	require.NoError(t, err)
	assert.Equal(t, model.LeaveApproved, res.Status)
	f.balances.AssertExpectations(t)
}

func TestApproveOverdrawnBalanceConflicts(t *testing.T) {
	f := newLeaveFixture()
	actor := admin()
	owner := uuid.New()
	start, _ := time.Parse("2006-01-02", "2024-06-01")
	end, _ := time.Parse("2006-01-02", "2024-08-30")
	pending := &model.LeaveRequest{ID: uuid.New(), UserID: owner, StartDate: start, EndDate: end, Status: model.LeavePending}

	f.leaves.On("FindByID", mock.Anything, pending.ID).Return(pending, nil)
	f.leaves.On("DecideIfPending", mock.Anything, pending.ID, model.LeaveApproved, actor.UserID, "").Return(true, nil)
	f.balances.On("EnsureExists", mock.Anything, owner, 2024, decimal.NewFromInt(25)).Return(nil)
	f.balances.On("AddUsedDays", mock.Anything, owner, 2024, mock.Anything).Return(false, nil)

	_, err := f.svc.Decide(context.Background(), actor, pending.ID, model.LeaveApproved, "")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRejectKeepsReason(t *testing.T) {
	f := newLeaveFixture()
	actor := admin()
	owner := uuid.New()
	start, _ := time.Parse("2006-01-02", "2024-03-01")
	end, _ := time.Parse("2006-01-02", "2024-03-05")
	pending := &model.LeaveRequest{ID: uuid.New(), UserID: owner, StartDate: start, EndDate: end, Status: model.LeavePending}
	rejected := &model.LeaveRequest{ID: pending.ID, UserID: owner, StartDate: start, EndDate: end, Status: model.LeaveRejected, RejectionReason: "coverage gap"}

	f.leaves.On("FindByID", mock.Anything, pending.ID).Return(pending, nil).Once()
	f.leaves.On("DecideIfPending", mock.Anything, pending.ID, model.LeaveRejected, actor.UserID, "coverage gap").Return(true, nil)
	f.leaves.On("FindByID", mock.Anything, pending.ID).Return(rejected, nil).Once()
	f.audits.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := f.svc.Decide(context.Background(), actor, pending.ID, model.LeaveRejected, "coverage gap")

	require.NoError(t, err)
	assert.Equal(t, model.LeaveRejected, res.Status)
	assert.Equal(t, "coverage gap", res.RejectionReason)
	// Rejection never touches the balance.
	f.balances.AssertNotCalled(t, "AddUsedDays", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBalanceReportsRemainingDays(t *testing.T) {
	f := newLeaveFixture()
	identity := requester()
	balance := &model.LeaveBalance{
		UserID:    identity.UserID,
		Year:      2024,
		TotalDays: decimal.NewFromInt(25),
		UsedDays:  decimal.NewFromInt(5),
	}

	f.balances.On("EnsureExists", mock.Anything, identity.UserID, 2024, decimal.NewFromInt(25)).Return(nil)
	f.balances.On("Get", mock.Anything, identity.UserID, 2024).Return(balance, nil)

	res, err := f.svc.Balance(context.Background(), identity, 2024)

	require.NoError(t, err)
	assert.True(t, res.RemainingDays.Equal(decimal.NewFromInt(20)))
}
