// file: internals/features/school/subjects/controller/subject_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	schoolModel "shuleni_backend/internals/features/school/schools/model"
	dto "shuleni_backend/internals/features/school/subjects/dto"
	model "shuleni_backend/internals/features/school/subjects/model"
	helper "shuleni_backend/internals/helpers"
	helperAuth "shuleni_backend/internals/helpers/auth"
	"shuleni_backend/internals/constants"
)

type SubjectController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewSubjectController(db *gorm.DB, v *validator.Validate) *SubjectController {
	if v == nil {
		v = validator.New()
	}
	return &SubjectController{DB: db, Validator: v}
}

/* ============================================
   POST /subjects (admin)
============================================ */

func (ctl *SubjectController) CreateSubject(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "subject management"); err != nil {
		return helper.FromFiberError(c, err)
	}

	var p dto.SubjectCreateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}
	p.Normalize()

	subject := p.ToModel(schoolID)
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var school schoolModel.SchoolModel
		if err := tx.First(&school, "school_id = ?", schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load school")
		}
		if !constants.CurriculumCovers(school.EffectiveCurriculum(), p.CurriculumType) {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"This school does not run the "+p.CurriculumType+" curriculum")
		}
		if err := tx.Create(&subject).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create subject")
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Subject created", dto.FromModel(subject))
}

/* ============================================
   GET /subjects, GET /subjects/:id
============================================ */

func (ctl *SubjectController) ListSubjects(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.SubjectModel{}).
		Where("subject_school_id = ?", schoolID)
	if cur := c.Query("curriculum_type"); cur != "" {
		q = q.Where("subject_curriculum_type = ?", cur)
	}
	if grade := c.Query("grade_level"); grade != "" {
		q = q.Where("subject_grade_level = ?", grade)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count subjects")
	}

	var subjects []model.SubjectModel
	if err := q.Order("subject_name ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&subjects).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load subjects")
	}

	out := make([]dto.SubjectResponseDTO, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, dto.FromModel(s))
	}
	return helper.JsonOK(c, "Subjects", fiber.Map{
		"items":      out,
		"pagination": helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}

func (ctl *SubjectController) GetSubject(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	subjectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid subject id")
	}

	var subject model.SubjectModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&subject, "subject_id = ?", subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Subject not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load subject")
	}
	if subject.SubjectSchoolID != schoolID {
		return helper.JsonError(c, fiber.StatusForbidden, "Subject belongs to a different school")
	}
	return helper.JsonOK(c, "Subject", dto.FromModel(subject))
}

/* ============================================
   PATCH /subjects/:id, DELETE /subjects/:id
============================================ */

func (ctl *SubjectController) UpdateSubject(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "subject management"); err != nil {
		return helper.FromFiberError(c, err)
	}
	subjectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid subject id")
	}

	var p dto.SubjectUpdateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	var subject model.SubjectModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&subject, "subject_id = ?", subjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Subject not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load subject")
		}
		if subject.SubjectSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Subject belongs to a different school")
		}
		if p.Name != nil {
			subject.SubjectName = *p.Name
		}
		if p.Code != nil {
			subject.SubjectCode = *p.Code
		}
		if p.GradeLevel != nil {
			subject.SubjectGradeLevel = *p.GradeLevel
		}
		if p.Pathway != nil {
			subject.SubjectPathway = p.Pathway
		}
		if err := tx.Save(&subject).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update subject")
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Subject updated", dto.FromModel(subject))
}

func (ctl *SubjectController) DeleteSubject(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "subject management"); err != nil {
		return helper.FromFiberError(c, err)
	}
	subjectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid subject id")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Where("subject_id = ? AND subject_school_id = ?", subjectID, schoolID).
		Delete(&model.SubjectModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete subject")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Subject not found")
	}
	return helper.JsonOK(c, "Subject deleted", nil)
}
