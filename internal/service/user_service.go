package service

import (
	"context"
	"encoding/json"

	"leaveflow/internal/auth"
	"leaveflow/internal/model"
	"leaveflow/internal/repository"
	"leaveflow/pkg/apperr"

	"github.com/google/uuid"
)

type UpdateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// UserService covers the admin-only user management surface.
type UserService interface {
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	UpdateUser(ctx context.Context, actor auth.Identity, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor auth.Identity, id uuid.UUID) error
}

type userService struct {
	users  repository.UserRepository
	audits repository.AuditRepository
	txm    repository.TransactionManager
}

// NewUserService returns a new instance of UserService
func NewUserService(
	users repository.UserRepository,
	audits repository.AuditRepository,
	txm repository.TransactionManager,
) UserService {
	return &userService{users: users, audits: audits, txm: txm}
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// UpdateUser applies partial name/email/role changes. Role changes only ever
// run through this admin-gated path; the service re-checks the actor's role
// rather than trusting the route guard alone.
func (s *userService) UpdateUser(ctx context.Context, actor auth.Identity, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.ErrForbidden
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != "" {
		role := model.Role(req.Role)
		if !role.Valid() {
			return nil, apperr.Validation("invalid role: must be user or admin")
		}
		user.Role = role
	}
	if req.Email != "" {
		if !emailRegex.MatchString(req.Email) {
			return nil, apperr.Validation("invalid email format")
		}
		user.Email = req.Email
	}
	if req.Name != "" {
		user.Name = req.Name
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.users.Update(txCtx, user); updateErr != nil {
			return updateErr
		}

		details, _ := json.Marshal(req)
		entry := &model.AuditLog{
			UserID:     &actor.UserID,
			Action:     model.ActionUpdateUser,
			EntityID:   user.ID.String(),
			EntityName: "user",
			Details:    string(details),
		}
		return s.audits.Create(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

// DeleteUser hard-deletes the user; the store cascades to their leave
// requests and balances.
func (s *userService) DeleteUser(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	if actor.Role != model.RoleAdmin {
		return apperr.ErrForbidden
	}

	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Delete(txCtx, id); err != nil {
			return err
		}

		entry := &model.AuditLog{
			UserID:     &actor.UserID,
			Action:     model.ActionDeleteUser,
			EntityID:   id.String(),
			EntityName: "user",
		}
		return s.audits.Create(txCtx, entry)
	})
}
