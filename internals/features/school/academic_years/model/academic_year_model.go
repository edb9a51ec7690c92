// file: internals/features/school/academic_years/model/academic_year_model.go
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AcademicYearModel struct {
	AcademicYearID       uuid.UUID `gorm:"type:uuid;primaryKey;column:academic_year_id" json:"academic_year_id"`
	AcademicYearSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:academic_year_school_id" json:"academic_year_school_id"`

	// Example year: "2026"; term: "Term 1" | "Term 2" | "Term 3"
	AcademicYearYear string `gorm:"type:varchar(9);not null;column:academic_year_year" json:"academic_year_year"`
	AcademicYearTerm string `gorm:"type:varchar(16);not null;column:academic_year_term" json:"academic_year_term"`

	AcademicYearStartDate time.Time `gorm:"not null;column:academic_year_start_date" json:"academic_year_start_date"`
	AcademicYearEndDate   time.Time `gorm:"not null;column:academic_year_end_date" json:"academic_year_end_date"`

	// CBC | 8-4-4 — auto-resolved from the school config unless it runs Both
	AcademicYearCurriculumType string `gorm:"type:varchar(8);not null;column:academic_year_curriculum_type" json:"academic_year_curriculum_type"`

	// At most one active row per school; flipped only by SetActive.
	AcademicYearIsActive bool `gorm:"not null;default:false;column:academic_year_is_active" json:"academic_year_is_active"`

	AcademicYearCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:academic_year_created_at" json:"academic_year_created_at"`
	AcademicYearUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:academic_year_updated_at" json:"academic_year_updated_at"`
	AcademicYearDeletedAt gorm.DeletedAt `gorm:"column:academic_year_deleted_at;index" json:"academic_year_deleted_at,omitempty"`
}

func (AcademicYearModel) TableName() string { return "academic_years" }

func (m *AcademicYearModel) BeforeCreate(tx *gorm.DB) error {
	if m.AcademicYearID == uuid.Nil {
		m.AcademicYearID = uuid.New()
	}
	return nil
}

func (m *AcademicYearModel) BeforeSave(tx *gorm.DB) error {
	// Mirror CHECK: end >= start
	if m.AcademicYearEndDate.Before(m.AcademicYearStartDate) {
		return errors.New("academic_year_end_date must be >= academic_year_start_date")
	}
	m.AcademicYearYear = strings.TrimSpace(m.AcademicYearYear)
	m.AcademicYearTerm = strings.TrimSpace(m.AcademicYearTerm)
	return nil
}
