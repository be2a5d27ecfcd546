package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. PostgreSQL generates UUIDs
// via uuid_generate_v7(). RefreshTokenHash is nullable: NULL means the
// account has no active refresh session.
type AccountModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email            string    `gorm:"type:varchar(255);unique;not null"`
	Name             string    `gorm:"type:varchar(100)"`
	PasswordHash     string    `gorm:"type:varchar(255);not null"`
	RefreshTokenHash *string   `gorm:"type:varchar(255)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
