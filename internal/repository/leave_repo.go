package repository

import (
	"context"
	"time"

	"leaveflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveFilter narrows a listing to one owner. A nil OwnerID means all owners
// (admin view).
type LeaveFilter struct {
	OwnerID *uuid.UUID
	Status  model.LeaveStatus
}

// LeaveRepository defines data access for leave requests. The status flip is
// a compare-and-set on (id, PENDING) so that two racing decisions resolve
// deterministically at the store, with no application-level locking.
type LeaveRepository interface {
	Create(ctx context.Context, leave *model.LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error)
	List(ctx context.Context, filter LeaveFilter, page, limit int) ([]model.LeaveRequest, int64, error)
	DecideIfPending(ctx context.Context, id uuid.UUID, status model.LeaveStatus, decidedBy uuid.UUID, reason string) (bool, error)
}

type leaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) Create(ctx context.Context, leave *model.LeaveRequest) error {
	return GetDB(ctx, r.db).Create(leave).Error
}

func (r *leaveRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error) {
	var leave model.LeaveRequest
	if err := GetDB(ctx, r.db).First(&leave, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, "leave request")
	}
	return &leave, nil
}

func (r *leaveRepository) List(ctx context.Context, filter LeaveFilter, page, limit int) ([]model.LeaveRequest, int64, error) {
	var leaves []model.LeaveRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.LeaveRequest{})
	if filter.OwnerID != nil {
		query = query.Where("user_id = ?", *filter.OwnerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&leaves).Error; err != nil {
		return nil, 0, err
	}

	return leaves, total, nil
}

// DecideIfPending flips the status of a PENDING leave in one atomic update.
// It reports false when the row exists but is no longer PENDING (or does not
// exist at all); callers distinguish the two with FindByID.
func (r *leaveRepository) DecideIfPending(ctx context.Context, id uuid.UUID, status model.LeaveStatus, decidedBy uuid.UUID, reason string) (bool, error) {
	now := time.Now()
	res := GetDB(ctx, r.db).
		Model(&model.LeaveRequest{}).
		Where("id = ? AND status = ?", id, model.LeavePending).
		Updates(map[string]interface{}{
			"status":           status,
			"decided_by":       decidedBy,
			"decided_at":       now,
			"rejection_reason": reason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
