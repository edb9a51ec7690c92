// file: internals/features/school/users/dto/user_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"shuleni_backend/internals/features/school/users/model"
)

// =======================
// Request DTO
// =======================

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserCreateDTO struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=3"`
	// admin | teacher | student | parent
	Role string `json:"role" validate:"required,oneof=admin teacher student parent"`
}

func (p *LoginDTO) Normalize() {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
}

func (p *UserCreateDTO) Normalize() {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.FullName = strings.TrimSpace(p.FullName)
}

// =======================
// Response DTO
// =======================

type UserResponseDTO struct {
	UserID    uuid.UUID `json:"user_id"`
	SchoolID  uuid.UUID `json:"school_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(ent model.UserModel) UserResponseDTO {
	return UserResponseDTO{
		UserID:    ent.UserID,
		SchoolID:  ent.UserSchoolID,
		Email:     ent.UserEmail,
		FullName:  ent.UserFullName,
		Role:      ent.UserRole,
		CreatedAt: ent.UserCreatedAt,
	}
}

type LoginResponseDTO struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        UserResponseDTO `json:"user"`
}
