package service_test

import (
	"context"
	"testing"
	"time"

	"leaveflow/internal/auth"
	"leaveflow/internal/mocks"
	"leaveflow/internal/model"
	"leaveflow/internal/service"
	"leaveflow/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubHasher struct{}

func (stubHasher) Hash(p string) (string, error) { return "hashed-" + p, nil }
func (stubHasher) Verify(p, digest string) error {
	if "hashed-"+p != digest {
		return auth.ErrMismatch
	}
	return nil
}

func newAuthService(users *mocks.UserRepository, audits *mocks.AuditRepository, tokens auth.TokenService) service.AuthService {
	if tokens == nil {
		tokens = auth.NewTokenService([]byte("test-secret"), time.Hour)
	}
	return service.NewAuthService(users, audits, mocks.TxManager{}, stubHasher{}, tokens)
}

func TestRegisterDefaultsRoleAndHashesPassword(t *testing.T) {
	users := new(mocks.UserRepository)
	audits := new(mocks.AuditRepository)

	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*model.User)
			u.ID = uuid.New()
			assert.Equal(t, "hashed-secret1", u.PasswordHash)
			assert.Equal(t, model.RoleUser, u.Role)
		}).
		Return(nil)
	audits.On("Create", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	svc := newAuthService(users, audits, nil)
	user, err := svc.Register(context.Background(), service.RegisterRequest{
		Email:    "a@x.com",
		Password: "secret1",
		Name:     "A",
	})

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	users.AssertExpectations(t)
	audits.AssertExpectations(t)
}

func TestRegisterValidation(t *testing.T) {
	cases := map[string]service.RegisterRequest{
		"bad email":      {Email: "bad-email", Password: "secret1", Name: "A"},
		"short password": {Email: "a@x.com", Password: "12345", Name: "A"},
		"unknown role":   {Email: "a@x.com", Password: "secret1", Role: "superuser"},
	}

	svc := newAuthService(new(mocks.UserRepository), new(mocks.AuditRepository), nil)
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), req)
			_, ok := apperr.AsValidation(err)
			assert.True(t, ok, "expected validation error, got %v", err)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(mocks.UserRepository)
	audits := new(mocks.AuditRepository)
	users.On("Create", mock.Anything, mock.Anything).Return(apperr.ErrDuplicateEmail)

	svc := newAuthService(users, audits, nil)
	_, err := svc.Register(context.Background(), service.RegisterRequest{
		Email:    "a@x.com",
		Password: "secret1",
	})

	assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)
}

func TestLoginUndifferentiatedFailures(t *testing.T) {
	userID := uuid.New()
	existing := &model.User{ID: userID, Email: "a@x.com", PasswordHash: "hashed-secret1", Role: model.RoleUser}

	users := new(mocks.UserRepository)
	users.On("GetByEmail", mock.Anything, "a@x.com").Return(existing, nil)
	users.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, apperr.ErrNotFound)

	svc := newAuthService(users, new(mocks.AuditRepository), nil)

	_, wrongPass := svc.Login(context.Background(), service.LoginRequest{Email: "a@x.com", Password: "wrongpass"})
	_, noUser := svc.Login(context.Background(), service.LoginRequest{Email: "ghost@x.com", Password: "secret1"})

	// Both failures must be indistinguishable to block account enumeration.
	assert.ErrorIs(t, wrongPass, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, apperr.ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestRegisterThenLoginRoundTrip(t *testing.T) {
	userID := uuid.New()
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)

	users := new(mocks.UserRepository)
	audits := new(mocks.AuditRepository)
	users.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*model.User).ID = userID }).
		Return(nil)
	audits.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newAuthService(users, audits, tokens)
	registered, err := svc.Register(context.Background(), service.RegisterRequest{
		Email:    "a@x.com",
		Password: "secret1",
		Role:     "admin",
	})
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "a@x.com").
		Return(&model.User{ID: userID, Email: "a@x.com", PasswordHash: "hashed-secret1", Role: model.RoleAdmin}, nil)

	token, err := svc.Login(context.Background(), service.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	claims, err := tokens.Verify(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, registered.Role, claims.Role)
}
