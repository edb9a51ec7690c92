// file: internals/features/school/subject_assignments/dto/subject_assignment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"shuleni_backend/internals/features/school/subject_assignments/model"
)

// =======================
// Request DTO
// =======================

type SubjectAssignmentCreateDTO struct {
	TeacherID      uuid.UUID  `json:"teacher_id"       validate:"required"`
	SubjectID      uuid.UUID  `json:"subject_id"       validate:"required"`
	AcademicYearID uuid.UUID  `json:"academic_year_id" validate:"required"`
	StreamID       *uuid.UUID `json:"stream_id,omitempty"`
	ClassroomID    *uuid.UUID `json:"classroom_id,omitempty"`
	WeeklyPeriods  *int       `json:"weekly_periods,omitempty" validate:"omitempty,min=1,max=20"`
	AssignmentType *string    `json:"assignment_type,omitempty" validate:"omitempty,oneof=main_teacher assistant_teacher substitute"`
}

// =======================
// Response DTO
// =======================

type SubjectAssignmentResponseDTO struct {
	AssignmentID   uuid.UUID  `json:"assignment_id"`
	SchoolID       uuid.UUID  `json:"school_id"`
	TeacherID      uuid.UUID  `json:"teacher_id"`
	SubjectID      uuid.UUID  `json:"subject_id"`
	SubjectName    string     `json:"subject_name,omitempty"`
	AcademicYearID uuid.UUID  `json:"academic_year_id"`
	StreamID       *uuid.UUID `json:"stream_id,omitempty"`
	ClassroomID    *uuid.UUID `json:"classroom_id,omitempty"`
	WeeklyPeriods  int        `json:"weekly_periods"`
	AssignmentType string     `json:"assignment_type"`
	CreatedAt      time.Time  `json:"created_at"`
}

func FromModel(ent model.SubjectAssignmentModel, subjectName string) SubjectAssignmentResponseDTO {
	return SubjectAssignmentResponseDTO{
		AssignmentID:   ent.SubjectAssignmentID,
		SchoolID:       ent.SubjectAssignmentSchoolID,
		TeacherID:      ent.SubjectAssignmentTeacherID,
		SubjectID:      ent.SubjectAssignmentSubjectID,
		SubjectName:    subjectName,
		AcademicYearID: ent.SubjectAssignmentAcademicYearID,
		StreamID:       ent.SubjectAssignmentStreamID,
		ClassroomID:    ent.SubjectAssignmentClassroomID,
		WeeklyPeriods:  ent.SubjectAssignmentWeeklyPeriods,
		AssignmentType: ent.SubjectAssignmentType,
		CreatedAt:      ent.SubjectAssignmentCreatedAt,
	}
}

// WorkloadReportDTO is the read-only weekly-lesson report for one teacher.
// It never gates writes; under- and over-load are advisory flags.
type WorkloadReportDTO struct {
	TeacherID        uuid.UUID                      `json:"teacher_id"`
	AcademicYearID   uuid.UUID                      `json:"academic_year_id"`
	TotalPeriods     int                            `json:"total_periods"`
	MinWeeklyLessons int                            `json:"min_weekly_lessons"`
	MaxWeeklyLessons int                            `json:"max_weekly_lessons"`
	Underloaded      bool                           `json:"underloaded"`
	Overloaded       bool                           `json:"overloaded"`
	Assignments      []SubjectAssignmentResponseDTO `json:"assignments"`
}
