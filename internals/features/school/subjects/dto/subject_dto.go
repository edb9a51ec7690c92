// file: internals/features/school/subjects/dto/subject_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"shuleni_backend/internals/features/school/subjects/model"
)

// =======================
// Request DTO
// =======================

type SubjectCreateDTO struct {
	Name           string  `json:"name"            validate:"required,min=2"`
	Code           string  `json:"code"            validate:"required,min=2,max=16"`
	CurriculumType string  `json:"curriculum_type" validate:"required,oneof=CBC 8-4-4"`
	GradeLevel     string  `json:"grade_level"     validate:"required,min=1"`
	Pathway        *string `json:"pathway,omitempty" validate:"omitempty,oneof=STEM Arts 'Social Sciences'"`
}

type SubjectUpdateDTO struct {
	Name       *string `json:"name,omitempty"        validate:"omitempty,min=2"`
	Code       *string `json:"code,omitempty"        validate:"omitempty,min=2,max=16"`
	GradeLevel *string `json:"grade_level,omitempty" validate:"omitempty,min=1"`
	Pathway    *string `json:"pathway,omitempty"     validate:"omitempty,oneof=STEM Arts 'Social Sciences'"`
}

func (p *SubjectCreateDTO) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.GradeLevel = strings.TrimSpace(p.GradeLevel)
}

func (p *SubjectCreateDTO) ToModel(schoolID uuid.UUID) model.SubjectModel {
	return model.SubjectModel{
		SubjectSchoolID:       schoolID,
		SubjectName:           p.Name,
		SubjectCode:           p.Code,
		SubjectCurriculumType: p.CurriculumType,
		SubjectGradeLevel:     p.GradeLevel,
		SubjectPathway:        p.Pathway,
	}
}

// =======================
// Response DTO
// =======================

type SubjectResponseDTO struct {
	SubjectID      uuid.UUID `json:"subject_id"`
	SchoolID       uuid.UUID `json:"school_id"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	CurriculumType string    `json:"curriculum_type"`
	GradeLevel     string    `json:"grade_level"`
	Pathway        *string   `json:"pathway,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromModel(ent model.SubjectModel) SubjectResponseDTO {
	return SubjectResponseDTO{
		SubjectID:      ent.SubjectID,
		SchoolID:       ent.SubjectSchoolID,
		Name:           ent.SubjectName,
		Code:           ent.SubjectCode,
		CurriculumType: ent.SubjectCurriculumType,
		GradeLevel:     ent.SubjectGradeLevel,
		Pathway:        ent.SubjectPathway,
		CreatedAt:      ent.SubjectCreatedAt,
	}
}
