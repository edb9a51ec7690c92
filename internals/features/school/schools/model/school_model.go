// file: internals/features/school/schools/model/school_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"shuleni_backend/internals/constants"
)

/*
=========================================================
  MODEL: schools
  Tenant root. The curriculum fields + level flags decide
  which grade levels / pathways are legal for this school's
  subjects and academic years; has_streams decides which
  relation governs class-teacher duty (classroom pivot vs
  stream column).
=========================================================
*/
type SchoolModel struct {
	SchoolID   uuid.UUID `gorm:"type:uuid;primaryKey;column:school_id" json:"school_id"`
	SchoolName string    `gorm:"type:text;not null;column:school_name" json:"school_name"`

	// Streams vs plain classrooms
	SchoolHasStreams bool `gorm:"not null;default:false;column:school_has_streams" json:"school_has_streams"`

	// Curriculum configuration: CBC | 8-4-4 | Both
	SchoolPrimaryCurriculum   string  `gorm:"type:varchar(8);not null;default:'CBC';column:school_primary_curriculum" json:"school_primary_curriculum"`
	SchoolSecondaryCurriculum *string `gorm:"type:varchar(8);column:school_secondary_curriculum" json:"school_secondary_curriculum,omitempty"`

	// Educational level flags
	SchoolHasPrePrimary      bool `gorm:"not null;default:false;column:school_has_pre_primary" json:"school_has_pre_primary"`
	SchoolHasLowerPrimary    bool `gorm:"not null;default:false;column:school_has_lower_primary" json:"school_has_lower_primary"`
	SchoolHasUpperPrimary    bool `gorm:"not null;default:false;column:school_has_upper_primary" json:"school_has_upper_primary"`
	SchoolHasJuniorSecondary bool `gorm:"not null;default:false;column:school_has_junior_secondary" json:"school_has_junior_secondary"`
	SchoolHasSeniorSecondary bool `gorm:"not null;default:false;column:school_has_senior_secondary" json:"school_has_senior_secondary"`

	// Senior-secondary pathway set, subset of {STEM, Arts, Social Sciences}
	SchoolSeniorSecondaryPathways datatypes.JSON `gorm:"type:jsonb;column:school_senior_secondary_pathways" json:"school_senior_secondary_pathways,omitempty"`

	SchoolCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:school_created_at" json:"school_created_at"`
	SchoolUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:school_updated_at" json:"school_updated_at"`
	SchoolDeletedAt gorm.DeletedAt `gorm:"column:school_deleted_at;index" json:"school_deleted_at,omitempty"`
}

func (SchoolModel) TableName() string { return "schools" }

func (m *SchoolModel) BeforeCreate(tx *gorm.DB) error {
	if m.SchoolID == uuid.Nil {
		m.SchoolID = uuid.New()
	}
	return nil
}

// EffectiveCurriculum resolves the school's configured curriculum to a single
// value: the primary one, or "Both" when a secondary curriculum is configured.
func (m *SchoolModel) EffectiveCurriculum() string {
	if m.SchoolSecondaryCurriculum != nil && *m.SchoolSecondaryCurriculum != "" &&
		*m.SchoolSecondaryCurriculum != m.SchoolPrimaryCurriculum {
		return constants.CurriculumBoth
	}
	return m.SchoolPrimaryCurriculum
}

// RunsBothCurricula reports whether term/subject payloads must carry an
// explicit curriculum_type (auto-resolution is impossible).
func (m *SchoolModel) RunsBothCurricula() bool {
	return m.EffectiveCurriculum() == constants.CurriculumBoth
}
