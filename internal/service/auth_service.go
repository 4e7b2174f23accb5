package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"

	"leaveflow/internal/auth"
	"leaveflow/internal/model"
	"leaveflow/internal/repository"
	"leaveflow/pkg/apperr"

	"github.com/google/uuid"
)

// DTOs for Request validation
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// UserResponse returns User data without exposing the password hash.
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const minPasswordLength = 6

// AuthService orchestrates registration (hash + persist) and login
// (verify + issue token).
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
}

type authService struct {
	users  repository.UserRepository
	audits repository.AuditRepository
	txm    repository.TransactionManager
	hasher auth.PasswordHasher
	tokens auth.TokenService
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(
	users repository.UserRepository,
	audits repository.AuditRepository,
	txm repository.TransactionManager,
	hasher auth.PasswordHasher,
	tokens auth.TokenService,
) AuthService {
	return &authService{users: users, audits: audits, txm: txm, hasher: hasher, tokens: tokens}
}

// Helper: parse model to standard json API response
func toUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	var problems []string
	if !emailRegex.MatchString(req.Email) {
		problems = append(problems, "invalid email format")
	}
	if len(req.Password) < minPasswordLength {
		problems = append(problems, "password must be at least 6 characters")
	}

	role := model.RoleUser
	if req.Role != "" {
		role = model.Role(req.Role)
		if !role.Valid() {
			problems = append(problems, "invalid role: must be user or admin")
		}
	}
	if len(problems) > 0 {
		return nil, apperr.Validation(problems...)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
	}

	// No uniqueness pre-check: the store's unique index is the authoritative
	// guard, so two concurrent registrations on the same email cannot both
	// slip through.
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.users.Create(txCtx, user); createErr != nil {
			return createErr
		}

		details, _ := json.Marshal(map[string]interface{}{"email": user.Email, "role": user.Role})
		entry := &model.AuditLog{
			UserID:     &user.ID,
			Action:     model.ActionRegisterUser,
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

// Login never reveals whether the email existed: a missing user and a wrong
// password both come back as the same ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Verify(req.Password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrMismatch) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err // hash format errors surface, never swallowed
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{AccessToken: token}, nil
}
