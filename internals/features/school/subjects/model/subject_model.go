// file: internals/features/school/subjects/model/subject_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	SubjectID       uuid.UUID `gorm:"type:uuid;primaryKey;column:subject_id" json:"subject_id"`
	SubjectSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:subject_school_id" json:"subject_school_id"`

	SubjectName string `gorm:"type:text;not null;column:subject_name" json:"subject_name"`
	SubjectCode string `gorm:"type:varchar(16);not null;column:subject_code" json:"subject_code"`

	// CBC | 8-4-4 — checked against the teacher's specialization by the ledger
	SubjectCurriculumType string `gorm:"type:varchar(8);not null;column:subject_curriculum_type" json:"subject_curriculum_type"`

	SubjectGradeLevel string  `gorm:"type:varchar(32);not null;column:subject_grade_level" json:"subject_grade_level"`
	// Senior-secondary CBC only: STEM | Arts | Social Sciences
	SubjectPathway *string `gorm:"type:varchar(24);column:subject_pathway" json:"subject_pathway,omitempty"`

	SubjectCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:subject_created_at" json:"subject_created_at"`
	SubjectUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:subject_updated_at" json:"subject_updated_at"`
	SubjectDeletedAt gorm.DeletedAt `gorm:"column:subject_deleted_at;index" json:"subject_deleted_at,omitempty"`
}

func (SubjectModel) TableName() string { return "subjects" }

func (m *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubjectID == uuid.Nil {
		m.SubjectID = uuid.New()
	}
	return nil
}
