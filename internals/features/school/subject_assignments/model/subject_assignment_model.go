// file: internals/features/school/subject_assignments/model/subject_assignment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Teaching-duty type
const (
	AssignmentTypeMainTeacher      = "main_teacher"
	AssignmentTypeAssistantTeacher = "assistant_teacher"
	AssignmentTypeSubstitute       = "substitute"
)

/*
=========================================================
  MODEL: subject_assignments
  Links (teacher, subject, academic year, stream XOR
  classroom) for timetable/workload bookkeeping. The
  4-tuple is unique (partial unique indexes per target).
  Distinct from class-teacher (homeroom) duty.
=========================================================
*/
type SubjectAssignmentModel struct {
	SubjectAssignmentID       uuid.UUID `gorm:"type:uuid;primaryKey;column:subject_assignment_id" json:"subject_assignment_id"`
	SubjectAssignmentSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:subject_assignment_school_id" json:"subject_assignment_school_id"`

	SubjectAssignmentTeacherID      uuid.UUID `gorm:"type:uuid;not null;index;column:subject_assignment_teacher_id" json:"subject_assignment_teacher_id"`
	SubjectAssignmentSubjectID      uuid.UUID `gorm:"type:uuid;not null;index;column:subject_assignment_subject_id" json:"subject_assignment_subject_id"`
	SubjectAssignmentAcademicYearID uuid.UUID `gorm:"type:uuid;not null;index;column:subject_assignment_academic_year_id" json:"subject_assignment_academic_year_id"`

	// Exactly one of the two is set, depending on the school mode.
	SubjectAssignmentStreamID    *uuid.UUID `gorm:"type:uuid;index;column:subject_assignment_stream_id" json:"subject_assignment_stream_id,omitempty"`
	SubjectAssignmentClassroomID *uuid.UUID `gorm:"type:uuid;index;column:subject_assignment_classroom_id" json:"subject_assignment_classroom_id,omitempty"`

	SubjectAssignmentWeeklyPeriods int `gorm:"not null;default:4;column:subject_assignment_weekly_periods" json:"subject_assignment_weekly_periods"`
	// main_teacher | assistant_teacher | substitute
	SubjectAssignmentType string `gorm:"type:varchar(24);not null;default:'main_teacher';column:subject_assignment_type" json:"subject_assignment_type"`

	SubjectAssignmentCreatedAt time.Time `gorm:"not null;autoCreateTime;column:subject_assignment_created_at" json:"subject_assignment_created_at"`
	SubjectAssignmentUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:subject_assignment_updated_at" json:"subject_assignment_updated_at"`
}

func (SubjectAssignmentModel) TableName() string { return "subject_assignments" }

func (m *SubjectAssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubjectAssignmentID == uuid.Nil {
		m.SubjectAssignmentID = uuid.New()
	}
	return nil
}
