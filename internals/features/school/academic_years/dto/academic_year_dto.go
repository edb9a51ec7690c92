// file: internals/features/school/academic_years/dto/academic_year_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"shuleni_backend/internals/features/school/academic_years/model"
)

// =======================
// Request DTO
// =======================

type AcademicYearCreateDTO struct {
	Year      string    `json:"year"       validate:"required,min=4,max=9"`
	Term      string    `json:"term"       validate:"required,oneof='Term 1' 'Term 2' 'Term 3'"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date"   validate:"required"`
	// Required only when the school runs both curricula.
	CurriculumType *string `json:"curriculum_type,omitempty" validate:"omitempty,oneof=CBC 8-4-4"`
}

type AcademicYearUpdateDTO struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type BulkTermDTO struct {
	Term      string    `json:"term"       validate:"required,oneof='Term 1' 'Term 2' 'Term 3'"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date"   validate:"required"`
}

type BulkTermsCreateDTO struct {
	Year           string        `json:"year"  validate:"required,min=4,max=9"`
	Terms          []BulkTermDTO `json:"terms" validate:"required,min=1,max=3,dive"`
	CurriculumType *string       `json:"curriculum_type,omitempty" validate:"omitempty,oneof=CBC 8-4-4"`
}

// =======================
// Response DTO
// =======================

type AcademicYearResponseDTO struct {
	AcademicYearID uuid.UUID `json:"academic_year_id"`
	SchoolID       uuid.UUID `json:"school_id"`
	Year           string    `json:"year"`
	Term           string    `json:"term"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	CurriculumType string    `json:"curriculum_type"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromModel(ent model.AcademicYearModel) AcademicYearResponseDTO {
	return AcademicYearResponseDTO{
		AcademicYearID: ent.AcademicYearID,
		SchoolID:       ent.AcademicYearSchoolID,
		Year:           ent.AcademicYearYear,
		Term:           ent.AcademicYearTerm,
		StartDate:      ent.AcademicYearStartDate,
		EndDate:        ent.AcademicYearEndDate,
		CurriculumType: ent.AcademicYearCurriculumType,
		IsActive:       ent.AcademicYearIsActive,
		CreatedAt:      ent.AcademicYearCreatedAt,
	}
}
