// file: internals/features/school/teachers/model/teacher_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
=========================================================
  MODEL: teachers
  Created when a user is promoted to the teacher role.
  max_classes / max_subjects are capacity limits checked by
  the assignment engine; the current load is always derived
  from the link tables, never stored here.
=========================================================
*/
type TeacherModel struct {
	TeacherID       uuid.UUID `gorm:"type:uuid;primaryKey;column:teacher_id" json:"teacher_id"`
	TeacherSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:teacher_school_id" json:"teacher_school_id"`
	TeacherUserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:teacher_user_id" json:"teacher_user_id"`

	TeacherMaxClasses       int `gorm:"not null;default:10;column:teacher_max_classes" json:"teacher_max_classes"`
	TeacherMaxSubjects      int `gorm:"not null;default:5;column:teacher_max_subjects" json:"teacher_max_subjects"`
	TeacherMinWeeklyLessons int `gorm:"not null;default:12;column:teacher_min_weekly_lessons" json:"teacher_min_weekly_lessons"`
	TeacherMaxWeeklyLessons int `gorm:"not null;default:30;column:teacher_max_weekly_lessons" json:"teacher_max_weekly_lessons"`

	// CBC | 8-4-4 | Both
	TeacherCurriculumSpecialization string `gorm:"type:varchar(8);not null;default:'Both';column:teacher_curriculum_specialization" json:"teacher_curriculum_specialization"`

	// Optional B.Ed combination; seeds the qualified-subject snapshot below.
	TeacherCombinationID    *uuid.UUID     `gorm:"type:uuid;column:teacher_combination_id" json:"teacher_combination_id,omitempty"`
	TeacherQualifiedSubjects datatypes.JSON `gorm:"type:jsonb;column:teacher_qualified_subjects" json:"teacher_qualified_subjects,omitempty"`

	TeacherCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:teacher_created_at" json:"teacher_created_at"`
	TeacherUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:teacher_updated_at" json:"teacher_updated_at"`
	TeacherDeletedAt gorm.DeletedAt `gorm:"column:teacher_deleted_at;index" json:"teacher_deleted_at,omitempty"`
}

func (TeacherModel) TableName() string { return "teachers" }

func (m *TeacherModel) BeforeCreate(tx *gorm.DB) error {
	if m.TeacherID == uuid.Nil {
		m.TeacherID = uuid.New()
	}
	return nil
}

/*
=========================================================
  MODEL: teacher_combinations
  Global reference data (not tenant scoped): B.Ed subject
  combinations, e.g. "MAT/PHY" → ["Mathematics","Physics"].
=========================================================
*/
type TeacherCombinationModel struct {
	CombinationID       uuid.UUID      `gorm:"type:uuid;primaryKey;column:combination_id" json:"combination_id"`
	CombinationCode     string         `gorm:"type:varchar(16);not null;uniqueIndex;column:combination_code" json:"combination_code"`
	CombinationSubjects datatypes.JSON `gorm:"type:jsonb;not null;column:combination_subjects" json:"combination_subjects"`

	CombinationCreatedAt time.Time `gorm:"not null;autoCreateTime;column:combination_created_at" json:"combination_created_at"`
}

func (TeacherCombinationModel) TableName() string { return "teacher_combinations" }

func (m *TeacherCombinationModel) BeforeCreate(tx *gorm.DB) error {
	if m.CombinationID == uuid.Nil {
		m.CombinationID = uuid.New()
	}
	return nil
}
