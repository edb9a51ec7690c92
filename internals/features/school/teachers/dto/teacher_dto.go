// file: internals/features/school/teachers/dto/teacher_dto.go
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"shuleni_backend/internals/features/school/teachers/model"
)

// =======================
// Request DTO
// =======================

type TeacherCreateDTO struct {
	UserID                  uuid.UUID  `json:"user_id" validate:"required"`
	MaxClasses              *int       `json:"max_classes,omitempty"               validate:"omitempty,min=1,max=50"`
	MaxSubjects             *int       `json:"max_subjects,omitempty"              validate:"omitempty,min=1,max=20"`
	MinWeeklyLessons        *int       `json:"min_weekly_lessons,omitempty"        validate:"omitempty,min=0"`
	MaxWeeklyLessons        *int       `json:"max_weekly_lessons,omitempty"        validate:"omitempty,min=1"`
	CurriculumSpecialization *string   `json:"curriculum_specialization,omitempty" validate:"omitempty,oneof=CBC 8-4-4 Both"`
	CombinationID           *uuid.UUID `json:"combination_id,omitempty"`
}

type TeacherUpdateDTO struct {
	MaxClasses              *int       `json:"max_classes,omitempty"               validate:"omitempty,min=1,max=50"`
	MaxSubjects             *int       `json:"max_subjects,omitempty"              validate:"omitempty,min=1,max=20"`
	MinWeeklyLessons        *int       `json:"min_weekly_lessons,omitempty"        validate:"omitempty,min=0"`
	MaxWeeklyLessons        *int       `json:"max_weekly_lessons,omitempty"        validate:"omitempty,min=1"`
	CurriculumSpecialization *string   `json:"curriculum_specialization,omitempty" validate:"omitempty,oneof=CBC 8-4-4 Both"`
	CombinationID           *uuid.UUID `json:"combination_id,omitempty"`
}

func (p *TeacherCreateDTO) Apply(ent *model.TeacherModel) {
	if p.MaxClasses != nil {
		ent.TeacherMaxClasses = *p.MaxClasses
	}
	if p.MaxSubjects != nil {
		ent.TeacherMaxSubjects = *p.MaxSubjects
	}
	if p.MinWeeklyLessons != nil {
		ent.TeacherMinWeeklyLessons = *p.MinWeeklyLessons
	}
	if p.MaxWeeklyLessons != nil {
		ent.TeacherMaxWeeklyLessons = *p.MaxWeeklyLessons
	}
	if p.CurriculumSpecialization != nil {
		ent.TeacherCurriculumSpecialization = *p.CurriculumSpecialization
	}
}

func (u *TeacherUpdateDTO) Apply(ent *model.TeacherModel) {
	if u.MaxClasses != nil {
		ent.TeacherMaxClasses = *u.MaxClasses
	}
	if u.MaxSubjects != nil {
		ent.TeacherMaxSubjects = *u.MaxSubjects
	}
	if u.MinWeeklyLessons != nil {
		ent.TeacherMinWeeklyLessons = *u.MinWeeklyLessons
	}
	if u.MaxWeeklyLessons != nil {
		ent.TeacherMaxWeeklyLessons = *u.MaxWeeklyLessons
	}
	if u.CurriculumSpecialization != nil {
		ent.TeacherCurriculumSpecialization = *u.CurriculumSpecialization
	}
}

// =======================
// Response DTO
// =======================

type TeacherResponseDTO struct {
	TeacherID                uuid.UUID  `json:"teacher_id"`
	SchoolID                 uuid.UUID  `json:"school_id"`
	UserID                   uuid.UUID  `json:"user_id"`
	FullName                 string     `json:"full_name,omitempty"`
	Email                    string     `json:"email,omitempty"`
	MaxClasses               int        `json:"max_classes"`
	MaxSubjects              int        `json:"max_subjects"`
	MinWeeklyLessons         int        `json:"min_weekly_lessons"`
	MaxWeeklyLessons         int        `json:"max_weekly_lessons"`
	CurriculumSpecialization string     `json:"curriculum_specialization"`
	CombinationID            *uuid.UUID `json:"combination_id,omitempty"`
	QualifiedSubjects        []string   `json:"qualified_subjects,omitempty"`
	CurrentClasses           int64      `json:"current_classes"`
	CreatedAt                time.Time  `json:"created_at"`
}

func FromModel(ent model.TeacherModel, fullName, email string, currentClasses int64) TeacherResponseDTO {
	resp := TeacherResponseDTO{
		TeacherID:                ent.TeacherID,
		SchoolID:                 ent.TeacherSchoolID,
		UserID:                   ent.TeacherUserID,
		FullName:                 fullName,
		Email:                    email,
		MaxClasses:               ent.TeacherMaxClasses,
		MaxSubjects:              ent.TeacherMaxSubjects,
		MinWeeklyLessons:         ent.TeacherMinWeeklyLessons,
		MaxWeeklyLessons:         ent.TeacherMaxWeeklyLessons,
		CurriculumSpecialization: ent.TeacherCurriculumSpecialization,
		CombinationID:            ent.TeacherCombinationID,
		CurrentClasses:           currentClasses,
		CreatedAt:                ent.TeacherCreatedAt,
	}
	if len(ent.TeacherQualifiedSubjects) > 0 {
		_ = json.Unmarshal(ent.TeacherQualifiedSubjects, &resp.QualifiedSubjects)
	}
	return resp
}

type CombinationResponseDTO struct {
	CombinationID uuid.UUID `json:"combination_id"`
	Code          string    `json:"code"`
	Subjects      []string  `json:"subjects"`
}

func FromCombinationModel(ent model.TeacherCombinationModel) CombinationResponseDTO {
	resp := CombinationResponseDTO{
		CombinationID: ent.CombinationID,
		Code:          ent.CombinationCode,
	}
	if len(ent.CombinationSubjects) > 0 {
		_ = json.Unmarshal(ent.CombinationSubjects, &resp.Subjects)
	}
	return resp
}
