package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveStatus is the closed set of leave request states. PENDING is the only
// state a transition is permitted from; APPROVED and REJECTED are terminal.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

// Valid reports whether s is one of the known statuses.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transition.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveApproved || s == LeaveRejected
}

// LeaveRequest represents a time-bounded absence claim owned by the user who
// submitted it. Ownership is set from the authenticated identity at creation
// and never from client input.
type LeaveRequest struct {
	ID              uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Type            string      `gorm:"type:varchar(30);not null" json:"type"` // ANNUAL, SICK, PERSONAL...
	StartDate       time.Time   `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time   `gorm:"type:date;not null" json:"end_date"`
	Reason          string      `gorm:"type:text" json:"reason"`
	Status          LeaveStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	DecidedBy       *uuid.UUID  `gorm:"type:uuid" json:"decided_by"`
	Decider         *User       `gorm:"foreignKey:DecidedBy;constraint:OnDelete:SET NULL;" json:"decider,omitempty"`
	DecidedAt       *time.Time  `json:"decided_at"`
	RejectionReason string      `gorm:"type:text" json:"rejection_reason"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Days returns the inclusive calendar day span of the request.
func (l *LeaveRequest) Days() decimal.Decimal {
	days := int64(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
	return decimal.NewFromInt(days)
}

// LeaveBalance tracks a user's leave day allowance for one calendar year.
// Days are decimal to accommodate half-day conventions.
type LeaveBalance struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balance_user_year" json:"user_id"`
	User      *User           `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Year      int             `gorm:"not null;uniqueIndex:idx_balance_user_year" json:"year"`
	TotalDays decimal.Decimal `gorm:"type:numeric(5,1);not null" json:"total_days"`
	UsedDays  decimal.Decimal `gorm:"type:numeric(5,1);not null;default:0" json:"used_days"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
