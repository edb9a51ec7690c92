// file: internals/features/school/assignments/dto/assignment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"shuleni_backend/internals/features/school/assignments/model"
)

// =======================
// Request DTO
// =======================

type AssignTeacherDTO struct {
	TeacherID      uuid.UUID `json:"teacher_id"       validate:"required"`
	IsClassTeacher *bool     `json:"is_class_teacher,omitempty"`
}

type AssignClassTeacherDTO struct {
	TeacherID uuid.UUID `json:"teacher_id" validate:"required"`
}

type BulkAssignDTO struct {
	TeacherID    uuid.UUID   `json:"teacher_id"    validate:"required"`
	ClassroomIDs []uuid.UUID `json:"classroom_ids" validate:"required,min=1,dive,required"`
}

type StreamBulkAssignDTO struct {
	TeacherIDs []uuid.UUID `json:"teacher_ids" validate:"required,min=1,dive,required"`
}

func (p *AssignTeacherDTO) WantsClassTeacher() bool {
	return p.IsClassTeacher != nil && *p.IsClassTeacher
}

// =======================
// Response DTO
// =======================

type ClassroomTeacherResponseDTO struct {
	LinkID         uuid.UUID `json:"link_id"`
	SchoolID       uuid.UUID `json:"school_id"`
	ClassroomID    uuid.UUID `json:"classroom_id"`
	ClassroomName  string    `json:"classroom_name,omitempty"`
	TeacherID      uuid.UUID `json:"teacher_id"`
	TeacherName    string    `json:"teacher_name,omitempty"`
	IsClassTeacher bool      `json:"is_class_teacher"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromModel(ent model.ClassroomTeacherModel, classroomName, teacherName string) ClassroomTeacherResponseDTO {
	return ClassroomTeacherResponseDTO{
		LinkID:         ent.ClassroomTeacherID,
		SchoolID:       ent.ClassroomTeacherSchoolID,
		ClassroomID:    ent.ClassroomTeacherClassroomID,
		ClassroomName:  classroomName,
		TeacherID:      ent.ClassroomTeacherTeacherID,
		TeacherName:    teacherName,
		IsClassTeacher: ent.ClassroomTeacherIsClassTeacher,
		CreatedAt:      ent.ClassroomTeacherCreatedAt,
	}
}

// skipped = repeated ids collapsed from the request body;
// already_assigned = existing links the batch left untouched
type BulkAssignResponseDTO struct {
	Assigned        []ClassroomTeacherResponseDTO `json:"assigned"`
	AlreadyAssigned []uuid.UUID                   `json:"already_assigned"`
	Skipped         []uuid.UUID                   `json:"skipped"`
}

type StreamTeacherResponseDTO struct {
	LinkID    uuid.UUID `json:"link_id"`
	SchoolID  uuid.UUID `json:"school_id"`
	StreamID  uuid.UUID `json:"stream_id"`
	TeacherID uuid.UUID `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}

func FromStreamModel(ent model.StreamTeacherModel) StreamTeacherResponseDTO {
	return StreamTeacherResponseDTO{
		LinkID:    ent.StreamTeacherID,
		SchoolID:  ent.StreamTeacherSchoolID,
		StreamID:  ent.StreamTeacherStreamID,
		TeacherID: ent.StreamTeacherTeacherID,
		CreatedAt: ent.StreamTeacherCreatedAt,
	}
}

type StreamBulkAssignResponseDTO struct {
	Assigned        []StreamTeacherResponseDTO `json:"assigned"`
	AlreadyAssigned []uuid.UUID                `json:"already_assigned"`
	Skipped         []uuid.UUID                `json:"skipped"`
}
