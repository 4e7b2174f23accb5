package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit action constants
const (
	ActionRegisterUser = "REGISTER_USER"
	ActionUpdateUser   = "UPDATE_USER"
	ActionDeleteUser   = "DELETE_USER"
	ActionCreateLeave  = "CREATE_LEAVE"
	ActionDecideLeave  = "DECIDE_LEAVE"
)

// AuditLog records who did what to which entity. UserID is nullable so the
// trail survives deletion of the acting user.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL;" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(100)" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(100)" json:"entity_name"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `json:"created_at"`
}
