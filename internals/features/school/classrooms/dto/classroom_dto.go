// file: internals/features/school/classrooms/dto/classroom_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"shuleni_backend/internals/features/school/classrooms/model"
)

// =======================
// Request DTO
// =======================

type StreamCreateDTO struct {
	Name     string `json:"name"     validate:"required,min=1"`
	Capacity *int   `json:"capacity,omitempty" validate:"omitempty,min=1,max=200"`
}

type ClassroomCreateDTO struct {
	Name       string            `json:"name"        validate:"required,min=1"`
	GradeLevel string            `json:"grade_level" validate:"required,min=1"`
	Capacity   *int              `json:"capacity,omitempty" validate:"omitempty,min=1,max=200"`
	// Optional: create the classroom and its streams in one call.
	Streams []StreamCreateDTO `json:"streams,omitempty" validate:"omitempty,dive"`
}

type ClassroomUpdateDTO struct {
	Name       *string `json:"name,omitempty"        validate:"omitempty,min=1"`
	GradeLevel *string `json:"grade_level,omitempty" validate:"omitempty,min=1"`
	Capacity   *int    `json:"capacity,omitempty"    validate:"omitempty,min=1,max=200"`
}

type StreamUpdateDTO struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitempty,min=1,max=200"`
}

func (p *ClassroomCreateDTO) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.GradeLevel = strings.TrimSpace(p.GradeLevel)
	for i := range p.Streams {
		p.Streams[i].Name = strings.TrimSpace(p.Streams[i].Name)
	}
}

func (p *ClassroomCreateDTO) ToModel(schoolID uuid.UUID) model.ClassroomModel {
	ent := model.ClassroomModel{
		ClassroomSchoolID:   schoolID,
		ClassroomName:       p.Name,
		ClassroomGradeLevel: p.GradeLevel,
		ClassroomCapacity:   40,
	}
	if p.Capacity != nil {
		ent.ClassroomCapacity = *p.Capacity
	}
	return ent
}

// =======================
// Response DTO
// =======================

type StreamResponseDTO struct {
	StreamID       uuid.UUID  `json:"stream_id"`
	SchoolID       uuid.UUID  `json:"school_id"`
	ClassID        uuid.UUID  `json:"class_id"`
	Name           string     `json:"name"`
	Capacity       int        `json:"capacity"`
	ClassTeacherID *uuid.UUID `json:"class_teacher_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ClassroomResponseDTO struct {
	ClassroomID uuid.UUID           `json:"classroom_id"`
	SchoolID    uuid.UUID           `json:"school_id"`
	Name        string              `json:"name"`
	GradeLevel  string              `json:"grade_level"`
	Capacity    int                 `json:"capacity"`
	Streams     []StreamResponseDTO `json:"streams,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func FromStreamModel(ent model.StreamModel) StreamResponseDTO {
	return StreamResponseDTO{
		StreamID:       ent.StreamID,
		SchoolID:       ent.StreamSchoolID,
		ClassID:        ent.StreamClassID,
		Name:           ent.StreamName,
		Capacity:       ent.StreamCapacity,
		ClassTeacherID: ent.StreamClassTeacherID,
		CreatedAt:      ent.StreamCreatedAt,
	}
}

func FromModel(ent model.ClassroomModel) ClassroomResponseDTO {
	resp := ClassroomResponseDTO{
		ClassroomID: ent.ClassroomID,
		SchoolID:    ent.ClassroomSchoolID,
		Name:        ent.ClassroomName,
		GradeLevel:  ent.ClassroomGradeLevel,
		Capacity:    ent.ClassroomCapacity,
		CreatedAt:   ent.ClassroomCreatedAt,
	}
	for _, st := range ent.Streams {
		resp.Streams = append(resp.Streams, FromStreamModel(st))
	}
	return resp
}
