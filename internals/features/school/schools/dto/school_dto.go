// file: internals/features/school/schools/dto/school_dto.go
package dto

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"shuleni_backend/internals/features/school/schools/model"
)

// =======================
// Request DTO
// =======================

type SchoolRegisterDTO struct {
	SchoolName          string   `json:"school_name"           validate:"required,min=3"`
	AdminEmail          string   `json:"admin_email"           validate:"required,email"`
	AdminPassword       string   `json:"admin_password"        validate:"required,min=8"`
	AdminFullName       string   `json:"admin_full_name"       validate:"required,min=3"`
	HasStreams          *bool    `json:"has_streams,omitempty"`
	PrimaryCurriculum   string   `json:"primary_curriculum"    validate:"required,oneof=CBC 8-4-4"`
	SecondaryCurriculum *string  `json:"secondary_curriculum,omitempty" validate:"omitempty,oneof=CBC 8-4-4"`
	Pathways            []string `json:"senior_secondary_pathways,omitempty" validate:"omitempty,dive,oneof=STEM Arts 'Social Sciences'"`
}

type SchoolConfigUpdateDTO struct {
	SchoolName          *string  `json:"school_name,omitempty"           validate:"omitempty,min=3"`
	HasStreams          *bool    `json:"has_streams,omitempty"`
	PrimaryCurriculum   *string  `json:"primary_curriculum,omitempty"    validate:"omitempty,oneof=CBC 8-4-4"`
	SecondaryCurriculum *string  `json:"secondary_curriculum,omitempty"  validate:"omitempty,oneof=CBC 8-4-4"`
	HasPrePrimary       *bool    `json:"has_pre_primary,omitempty"`
	HasLowerPrimary     *bool    `json:"has_lower_primary,omitempty"`
	HasUpperPrimary     *bool    `json:"has_upper_primary,omitempty"`
	HasJuniorSecondary  *bool    `json:"has_junior_secondary,omitempty"`
	HasSeniorSecondary  *bool    `json:"has_senior_secondary,omitempty"`
	Pathways            []string `json:"senior_secondary_pathways,omitempty" validate:"omitempty,dive,oneof=STEM Arts 'Social Sciences'"`
}

func (p *SchoolRegisterDTO) Normalize() {
	p.SchoolName = strings.TrimSpace(p.SchoolName)
	p.AdminEmail = strings.ToLower(strings.TrimSpace(p.AdminEmail))
	p.AdminFullName = strings.TrimSpace(p.AdminFullName)
}

func (p *SchoolRegisterDTO) ToModel() model.SchoolModel {
	hasStreams := false
	if p.HasStreams != nil {
		hasStreams = *p.HasStreams
	}
	ent := model.SchoolModel{
		SchoolName:              p.SchoolName,
		SchoolHasStreams:        hasStreams,
		SchoolPrimaryCurriculum: p.PrimaryCurriculum,
	}
	if p.SecondaryCurriculum != nil && *p.SecondaryCurriculum != "" {
		ent.SchoolSecondaryCurriculum = p.SecondaryCurriculum
	}
	if len(p.Pathways) > 0 {
		if raw, err := json.Marshal(p.Pathways); err == nil {
			ent.SchoolSeniorSecondaryPathways = datatypes.JSON(raw)
		}
	}
	return ent
}

func (u *SchoolConfigUpdateDTO) ApplyUpdates(ent *model.SchoolModel) {
	if u.SchoolName != nil {
		ent.SchoolName = strings.TrimSpace(*u.SchoolName)
	}
	if u.HasStreams != nil {
		ent.SchoolHasStreams = *u.HasStreams
	}
	if u.PrimaryCurriculum != nil {
		ent.SchoolPrimaryCurriculum = *u.PrimaryCurriculum
	}
	if u.SecondaryCurriculum != nil {
		if *u.SecondaryCurriculum == "" {
			ent.SchoolSecondaryCurriculum = nil
		} else {
			ent.SchoolSecondaryCurriculum = u.SecondaryCurriculum
		}
	}
	if u.HasPrePrimary != nil {
		ent.SchoolHasPrePrimary = *u.HasPrePrimary
	}
	if u.HasLowerPrimary != nil {
		ent.SchoolHasLowerPrimary = *u.HasLowerPrimary
	}
	if u.HasUpperPrimary != nil {
		ent.SchoolHasUpperPrimary = *u.HasUpperPrimary
	}
	if u.HasJuniorSecondary != nil {
		ent.SchoolHasJuniorSecondary = *u.HasJuniorSecondary
	}
	if u.HasSeniorSecondary != nil {
		ent.SchoolHasSeniorSecondary = *u.HasSeniorSecondary
	}
	if u.Pathways != nil {
		if raw, err := json.Marshal(u.Pathways); err == nil {
			ent.SchoolSeniorSecondaryPathways = datatypes.JSON(raw)
		}
	}
}

// =======================
// Response DTO
// =======================

type SchoolResponseDTO struct {
	SchoolID            uuid.UUID `json:"school_id"`
	SchoolName          string    `json:"school_name"`
	HasStreams          bool      `json:"has_streams"`
	PrimaryCurriculum   string    `json:"primary_curriculum"`
	SecondaryCurriculum *string   `json:"secondary_curriculum,omitempty"`
	EffectiveCurriculum string    `json:"effective_curriculum"`
	HasPrePrimary       bool      `json:"has_pre_primary"`
	HasLowerPrimary     bool      `json:"has_lower_primary"`
	HasUpperPrimary     bool      `json:"has_upper_primary"`
	HasJuniorSecondary  bool      `json:"has_junior_secondary"`
	HasSeniorSecondary  bool      `json:"has_senior_secondary"`
	Pathways            []string  `json:"senior_secondary_pathways,omitempty"`
}

func FromModel(ent model.SchoolModel) SchoolResponseDTO {
	resp := SchoolResponseDTO{
		SchoolID:            ent.SchoolID,
		SchoolName:          ent.SchoolName,
		HasStreams:          ent.SchoolHasStreams,
		PrimaryCurriculum:   ent.SchoolPrimaryCurriculum,
		SecondaryCurriculum: ent.SchoolSecondaryCurriculum,
		EffectiveCurriculum: ent.EffectiveCurriculum(),
		HasPrePrimary:       ent.SchoolHasPrePrimary,
		HasLowerPrimary:     ent.SchoolHasLowerPrimary,
		HasUpperPrimary:     ent.SchoolHasUpperPrimary,
		HasJuniorSecondary:  ent.SchoolHasJuniorSecondary,
		HasSeniorSecondary:  ent.SchoolHasSeniorSecondary,
	}
	if len(ent.SchoolSeniorSecondaryPathways) > 0 {
		_ = json.Unmarshal(ent.SchoolSeniorSecondaryPathways, &resp.Pathways)
	}
	return resp
}
