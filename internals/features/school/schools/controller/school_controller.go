// file: internals/features/school/schools/controller/school_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	dto "shuleni_backend/internals/features/school/schools/dto"
	model "shuleni_backend/internals/features/school/schools/model"
	userModel "shuleni_backend/internals/features/school/users/model"
	helper "shuleni_backend/internals/helpers"
	helperAuth "shuleni_backend/internals/helpers/auth"
	"shuleni_backend/internals/constants"
)

type SchoolController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewSchoolController(db *gorm.DB, v *validator.Validate) *SchoolController {
	if v == nil {
		v = validator.New()
	}
	return &SchoolController{DB: db, Validator: v}
}

/* ============================================
   POST /schools/register (public)
   School + its first admin user, one transaction.
============================================ */

func (ctl *SchoolController) Register(c *fiber.Ctx) error {
	var p dto.SchoolRegisterDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}
	p.Normalize()

	hash, err := bcrypt.GenerateFromPassword([]byte(p.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	school := p.ToModel()
	admin := userModel.UserModel{
		UserEmail:        p.AdminEmail,
		UserPasswordHash: string(hash),
		UserFullName:     p.AdminFullName,
		UserRole:         constants.RoleAdmin,
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&school).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create school")
		}
		admin.UserSchoolID = school.SchoolID
		if err := tx.Create(&admin).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Email is already registered")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create admin user")
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonCreated(c, "School registered", fiber.Map{
		"school":        dto.FromModel(school),
		"admin_user_id": admin.UserID,
	})
}

/* ============================================
   GET /schools/me (authed)
============================================ */

func (ctl *SchoolController) GetMySchool(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var school model.SchoolModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&school, "school_id = ?", schoolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "School not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load school")
	}
	return helper.JsonOK(c, "School", dto.FromModel(school))
}

/* ============================================
   PATCH /schools/me (admin)
============================================ */

func (ctl *SchoolController) UpdateConfig(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "school configuration"); err != nil {
		return helper.FromFiberError(c, err)
	}

	var p dto.SchoolConfigUpdateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	var school model.SchoolModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&school, "school_id = ?", schoolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "School not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load school")
		}
		p.ApplyUpdates(&school)
		if err := tx.Save(&school).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update school")
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "School configuration updated", dto.FromModel(school))
}
