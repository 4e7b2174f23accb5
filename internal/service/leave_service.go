package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leaveflow/internal/auth"
	"leaveflow/internal/model"
	"leaveflow/internal/repository"
	"leaveflow/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Broadcaster pushes domain events to connected websocket clients. A nil
// broadcaster disables notifications.
type Broadcaster interface {
	Broadcast(message []byte)
}

// --- DTOs ---

type CreateLeaveRequest struct {
	Type      string `json:"type" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason"`
}

type DecideLeaveRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type LeaveResponse struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	Type            string            `json:"type"`
	StartDate       string            `json:"startDate"`
	EndDate         string            `json:"endDate"`
	Reason          string            `json:"reason"`
	Status          model.LeaveStatus `json:"status"`
	DecidedBy       *uuid.UUID        `json:"decided_by,omitempty"`
	DecidedAt       *string           `json:"decided_at,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	CreatedAt       string            `json:"created_at"`
}

type BalanceResponse struct {
	Year          int             `json:"year"`
	TotalDays     decimal.Decimal `json:"total_days"`
	UsedDays      decimal.Decimal `json:"used_days"`
	RemainingDays decimal.Decimal `json:"remaining_days"`
}

// LeaveService owns the leave request lifecycle: creation scoped to the
// authenticated requester and the PENDING -> APPROVED/REJECTED transition
// under an admin gate.
type LeaveService interface {
	Create(ctx context.Context, requester auth.Identity, req CreateLeaveRequest) (*LeaveResponse, error)
	List(ctx context.Context, identity auth.Identity, page, limit int) ([]LeaveResponse, int64, error)
	GetByID(ctx context.Context, identity auth.Identity, id uuid.UUID) (*LeaveResponse, error)
	Decide(ctx context.Context, actor auth.Identity, id uuid.UUID, status model.LeaveStatus, reason string) (*LeaveResponse, error)
	Balance(ctx context.Context, identity auth.Identity, year int) (*BalanceResponse, error)
}

type leaveService struct {
	leaves    repository.LeaveRepository
	balances  repository.BalanceRepository
	audits    repository.AuditRepository
	txm       repository.TransactionManager
	hub       Broadcaster
	allowance decimal.Decimal
}

// NewLeaveService returns a new instance of LeaveService. allowance is the
// default yearly leave day budget granted to each user.
func NewLeaveService(
	leaves repository.LeaveRepository,
	balances repository.BalanceRepository,
	audits repository.AuditRepository,
	txm repository.TransactionManager,
	hub Broadcaster,
	allowance decimal.Decimal,
) LeaveService {
	return &leaveService{
		leaves:    leaves,
		balances:  balances,
		audits:    audits,
		txm:       txm,
		hub:       hub,
		allowance: allowance,
	}
}

func toLeaveResponse(leave *model.LeaveRequest) *LeaveResponse {
	res := &LeaveResponse{
		ID:              leave.ID,
		UserID:          leave.UserID,
		Type:            leave.Type,
		StartDate:       leave.StartDate.Format(dateLayout),
		EndDate:         leave.EndDate.Format(dateLayout),
		Reason:          leave.Reason,
		Status:          leave.Status,
		DecidedBy:       leave.DecidedBy,
		RejectionReason: leave.RejectionReason,
		CreatedAt:       leave.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if leave.DecidedAt != nil {
		decided := leave.DecidedAt.Format("2006-01-02T15:04:05Z07:00")
		res.DecidedAt = &decided
	}
	return res
}

// Create persists a new PENDING leave owned by the requester. Ownership comes
// from the verified identity, never from the request body.
func (s *leaveService) Create(ctx context.Context, requester auth.Identity, req CreateLeaveRequest) (*LeaveResponse, error) {
	var problems []string

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		problems = append(problems, "startDate must be a valid date (YYYY-MM-DD)")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		problems = append(problems, "endDate must be a valid date (YYYY-MM-DD)")
	}
	if len(problems) == 0 && end.Before(start) {
		problems = append(problems, "startDate must not be after endDate")
	}
	if len(problems) > 0 {
		return nil, apperr.Validation(problems...)
	}

	leave := &model.LeaveRequest{
		UserID:    requester.UserID,
		Type:      req.Type,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Status:    model.LeavePending,
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.leaves.Create(txCtx, leave); createErr != nil {
			return createErr
		}

		// Make sure the owner has a balance row for the year of the leave.
		if balErr := s.balances.EnsureExists(txCtx, requester.UserID, start.Year(), s.allowance); balErr != nil {
			return balErr
		}

		details, _ := json.Marshal(map[string]interface{}{"type": leave.Type, "start": req.StartDate, "end": req.EndDate})
		entry := &model.AuditLog{
			UserID:     &requester.UserID,
			Action:     model.ActionCreateLeave,
			EntityID:   leave.ID.String(),
			EntityName: "leave_request",
			Details:    string(details),
		}
		return s.audits.Create(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.notify("leave.submitted", leave)
	return toLeaveResponse(leave), nil
}

// List returns all leaves for admins and only the caller's own otherwise.
func (s *leaveService) List(ctx context.Context, identity auth.Identity, page, limit int) ([]LeaveResponse, int64, error) {
	filter := repository.LeaveFilter{}
	if identity.Role != model.RoleAdmin {
		owner := identity.UserID
		filter.OwnerID = &owner
	}

	leaves, total, err := s.leaves.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LeaveResponse, 0, len(leaves))
	for i := range leaves {
		responses = append(responses, *toLeaveResponse(&leaves[i]))
	}
	return responses, total, nil
}

// GetByID scopes reads the same way as List: a non-admin asking for someone
// else's leave gets not-found rather than a hint the resource exists.
func (s *leaveService) GetByID(ctx context.Context, identity auth.Identity, id uuid.UUID) (*LeaveResponse, error) {
	leave, err := s.leaves.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.Role != model.RoleAdmin && leave.UserID != identity.UserID {
		return nil, fmt.Errorf("leave request: %w", apperr.ErrNotFound)
	}
	return toLeaveResponse(leave), nil
}

// Decide transitions a PENDING leave to APPROVED or REJECTED. The route is
// admin-gated by middleware, but the service re-checks the actor's role so a
// forgotten guard on a future route cannot bypass the invariant. Deciding an
// already-decided leave fails with a conflict: APPROVED and REJECTED are
// terminal.
func (s *leaveService) Decide(ctx context.Context, actor auth.Identity, id uuid.UUID, status model.LeaveStatus, reason string) (*LeaveResponse, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.ErrForbidden
	}
	if !status.Terminal() {
		return nil, apperr.Validation("status must be APPROVED or REJECTED")
	}

	var decided *model.LeaveRequest
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		leave, findErr := s.leaves.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}

		flipped, casErr := s.leaves.DecideIfPending(txCtx, id, status, actor.UserID, reason)
		if casErr != nil {
			return casErr
		}
		if !flipped {
			return fmt.Errorf("leave request already %s: %w", leave.Status, apperr.ErrConflict)
		}

		if status == model.LeaveApproved {
			year := leave.StartDate.Year()
			if balErr := s.balances.EnsureExists(txCtx, leave.UserID, year, s.allowance); balErr != nil {
				return balErr
			}
			deducted, balErr := s.balances.AddUsedDays(txCtx, leave.UserID, year, leave.Days())
			if balErr != nil {
				return balErr
			}
			if !deducted {
				return fmt.Errorf("insufficient leave balance: %w", apperr.ErrConflict)
			}
		}

		refreshed, findErr := s.leaves.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}
		decided = refreshed

		details, _ := json.Marshal(map[string]interface{}{"status": status, "reason": reason})
		entry := &model.AuditLog{
			UserID:     &actor.UserID,
			Action:     model.ActionDecideLeave,
			EntityID:   id.String(),
			EntityName: "leave_request",
			Details:    string(details),
		}
		return s.audits.Create(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.notify("leave.decided", decided)
	return toLeaveResponse(decided), nil
}

// Balance returns the caller's leave balance for the year, creating the
// default row on first access.
func (s *leaveService) Balance(ctx context.Context, identity auth.Identity, year int) (*BalanceResponse, error) {
	if err := s.balances.EnsureExists(ctx, identity.UserID, year, s.allowance); err != nil {
		return nil, err
	}

	balance, err := s.balances.Get(ctx, identity.UserID, year)
	if err != nil {
		return nil, err
	}

	return &BalanceResponse{
		Year:          balance.Year,
		TotalDays:     balance.TotalDays,
		UsedDays:      balance.UsedDays,
		RemainingDays: balance.TotalDays.Sub(balance.UsedDays),
	}, nil
}

func (s *leaveService) notify(event string, leave *model.LeaveRequest) {
	if s.hub == nil || leave == nil {
		return
	}
	message, err := json.Marshal(map[string]interface{}{
		"event": event,
		"leave": toLeaveResponse(leave),
	})
	if err != nil {
		return
	}
	s.hub.Broadcast(message)
}
