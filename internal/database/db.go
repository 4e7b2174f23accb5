package database

import (
	"leaveflow/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM.
// TranslateError turns driver-level unique violations into
// gorm.ErrDuplicatedKey, which the repositories rely on.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	if err := db.AutoMigrate(
		&model.User{},
		&model.LeaveRequest{},
		&model.LeaveBalance{},
		&model.AuditLog{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
