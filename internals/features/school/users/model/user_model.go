// file: internals/features/school/users/model/user_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	UserSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:user_school_id" json:"user_school_id"`

	UserEmail        string `gorm:"type:text;not null;uniqueIndex;column:user_email" json:"user_email"`
	UserPasswordHash string `gorm:"type:text;not null;column:user_password_hash" json:"-"`
	UserFullName     string `gorm:"type:text;not null;column:user_full_name" json:"user_full_name"`
	// admin | teacher | student | parent
	UserRole string `gorm:"type:varchar(16);not null;default:'teacher';column:user_role" json:"user_role"`

	UserCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:user_created_at" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:user_updated_at" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"user_deleted_at,omitempty"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}
