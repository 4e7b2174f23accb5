package repository

import (
	"context"

	"leaveflow/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BalanceRepository manages per-user, per-year leave day balances.
type BalanceRepository interface {
	Get(ctx context.Context, userID uuid.UUID, year int) (*model.LeaveBalance, error)
	EnsureExists(ctx context.Context, userID uuid.UUID, year int, totalDays decimal.Decimal) error
	AddUsedDays(ctx context.Context, userID uuid.UUID, year int, days decimal.Decimal) (bool, error)
}

type balanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

func (r *balanceRepository) Get(ctx context.Context, userID uuid.UUID, year int) (*model.LeaveBalance, error) {
	var balance model.LeaveBalance
	if err := GetDB(ctx, r.db).First(&balance, "user_id = ? AND year = ?", userID, year).Error; err != nil {
		return nil, translateNotFound(err, "leave balance")
	}
	return &balance, nil
}

// EnsureExists inserts the default balance row unless one is already there.
// ON CONFLICT DO NOTHING keeps concurrent creations harmless.
func (r *balanceRepository) EnsureExists(ctx context.Context, userID uuid.UUID, year int, totalDays decimal.Decimal) error {
	balance := model.LeaveBalance{
		UserID:    userID,
		Year:      year,
		TotalDays: totalDays,
		UsedDays:  decimal.Zero,
	}
	return GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(&balance).Error
}

// AddUsedDays deducts days from the balance in a single guarded update.
// It reports false when the deduction would overdraw the allowance.
func (r *balanceRepository) AddUsedDays(ctx context.Context, userID uuid.UUID, year int, days decimal.Decimal) (bool, error) {
	res := GetDB(ctx, r.db).
		Model(&model.LeaveBalance{}).
		Where("user_id = ? AND year = ? AND used_days + ? <= total_days", userID, year, days).
		Update("used_days", gorm.Expr("used_days + ?", days))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
