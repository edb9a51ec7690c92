// file: internals/features/school/academic_years/controller/academic_year_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "shuleni_backend/internals/features/school/academic_years/dto"
	model "shuleni_backend/internals/features/school/academic_years/model"
	service "shuleni_backend/internals/features/school/academic_years/service"
	helper "shuleni_backend/internals/helpers"
	helperAuth "shuleni_backend/internals/helpers/auth"
)

type AcademicYearController struct {
	DB        *gorm.DB
	Service   *service.AcademicYearService
	Validator *validator.Validate
}

func NewAcademicYearController(db *gorm.DB, v *validator.Validate) *AcademicYearController {
	if v == nil {
		v = validator.New()
	}
	return &AcademicYearController{DB: db, Service: service.NewAcademicYearService(db), Validator: v}
}

/* ============================================
   POST /academic-years (admin)
============================================ */

func (ctl *AcademicYearController) CreateTerm(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "academic year management"); err != nil {
		return helper.FromFiberError(c, err)
	}

	var p dto.AcademicYearCreateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	term, err := ctl.Service.CreateTerm(c.UserContext(), schoolID, p.Year, service.TermInput{
		Term:      p.Term,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
	}, p.CurriculumType)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Academic term created", dto.FromModel(*term))
}

/* ============================================
   POST /academic-years/bulk (admin)
============================================ */

func (ctl *AcademicYearController) CreateBulkTerms(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "academic year management"); err != nil {
		return helper.FromFiberError(c, err)
	}

	var p dto.BulkTermsCreateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	inputs := make([]service.TermInput, 0, len(p.Terms))
	for _, t := range p.Terms {
		inputs = append(inputs, service.TermInput{
			Term:      t.Term,
			StartDate: t.StartDate,
			EndDate:   t.EndDate,
		})
	}

	created, err := ctl.Service.CreateBulkTerms(c.UserContext(), schoolID, p.Year, inputs, p.CurriculumType)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	out := make([]dto.AcademicYearResponseDTO, 0, len(created))
	for _, t := range created {
		out = append(out, dto.FromModel(t))
	}
	return helper.JsonCreated(c, "Academic terms created", out)
}

/* ============================================
   GET /academic-years, GET /academic-years/active
============================================ */

func (ctl *AcademicYearController) ListTerms(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.AcademicYearModel{}).
		Where("academic_year_school_id = ?", schoolID)
	if year := c.Query("year"); year != "" {
		q = q.Where("academic_year_year = ?", year)
	}

	var terms []model.AcademicYearModel
	if err := q.Order("academic_year_year ASC, academic_year_term ASC").
		Find(&terms).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load academic terms")
	}

	out := make([]dto.AcademicYearResponseDTO, 0, len(terms))
	for _, t := range terms {
		out = append(out, dto.FromModel(t))
	}
	return helper.JsonOK(c, "Academic terms", out)
}

func (ctl *AcademicYearController) GetActiveTerm(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var term model.AcademicYearModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&term, "academic_year_school_id = ? AND academic_year_is_active = ?", schoolID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "No active academic term")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load active term")
	}
	return helper.JsonOK(c, "Active academic term", dto.FromModel(term))
}

/* ============================================
   POST /academic-years/:id/activate (admin)
============================================ */

func (ctl *AcademicYearController) SetActive(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "academic year management"); err != nil {
		return helper.FromFiberError(c, err)
	}
	termID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid academic year id")
	}

	term, err := ctl.Service.SetActive(c.UserContext(), schoolID, termID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Academic term activated", dto.FromModel(*term))
}

/* ============================================
   PATCH /academic-years/:id (admin) — dates only
============================================ */

func (ctl *AcademicYearController) UpdateTerm(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "academic year management"); err != nil {
		return helper.FromFiberError(c, err)
	}
	termID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid academic year id")
	}

	var p dto.AcademicYearUpdateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	var term model.AcademicYearModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&term, "academic_year_id = ?", termID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Academic term not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load term")
		}
		if term.AcademicYearSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Academic term belongs to a different school")
		}
		if p.StartDate != nil {
			term.AcademicYearStartDate = *p.StartDate
		}
		if p.EndDate != nil {
			term.AcademicYearEndDate = *p.EndDate
		}
		if term.AcademicYearEndDate.Before(term.AcademicYearStartDate) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "end_date must be on or after start_date")
		}
		if err := tx.Save(&term).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update term")
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Academic term updated", dto.FromModel(term))
}
