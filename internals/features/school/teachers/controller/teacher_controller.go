// file: internals/features/school/teachers/controller/teacher_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	assignmentService "shuleni_backend/internals/features/school/assignments/service"
	dto "shuleni_backend/internals/features/school/teachers/dto"
	model "shuleni_backend/internals/features/school/teachers/model"
	userModel "shuleni_backend/internals/features/school/users/model"
	helper "shuleni_backend/internals/helpers"
	helperAuth "shuleni_backend/internals/helpers/auth"
	"shuleni_backend/internals/constants"
)

type TeacherController struct {
	DB        *gorm.DB
	Engine    *assignmentService.AssignmentEngine
	Validator *validator.Validate
}

func NewTeacherController(db *gorm.DB, v *validator.Validate) *TeacherController {
	if v == nil {
		v = validator.New()
	}
	return &TeacherController{DB: db, Engine: assignmentService.NewAssignmentEngine(db), Validator: v}
}

func (ctl *TeacherController) load(teacherID uuid.UUID) int64 {
	var fromClassrooms, fromStreams int64
	_ = ctl.DB.Table("classroom_teachers").
		Where("classroom_teacher_teacher_id = ?", teacherID).Count(&fromClassrooms).Error
	_ = ctl.DB.Table("stream_teachers").
		Where("stream_teacher_teacher_id = ?", teacherID).Count(&fromStreams).Error
	return fromClassrooms + fromStreams
}

func (ctl *TeacherController) respond(t model.TeacherModel) dto.TeacherResponseDTO {
	var user userModel.UserModel
	_ = ctl.DB.First(&user, "user_id = ?", t.TeacherUserID).Error
	return dto.FromModel(t, user.UserFullName, user.UserEmail, ctl.load(t.TeacherID))
}

/* ============================================
   POST /teachers (admin) — promote a user
============================================ */

func (ctl *TeacherController) CreateTeacher(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "teacher management"); err != nil {
		return helper.FromFiberError(c, err)
	}

	var p dto.TeacherCreateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	var teacher model.TeacherModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var user userModel.UserModel
		if err := tx.First(&user, "user_id = ?", p.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load user")
		}
		if user.UserSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "User belongs to a different school")
		}

		teacher = model.TeacherModel{
			TeacherSchoolID:                 schoolID,
			TeacherUserID:                   user.UserID,
			TeacherMaxClasses:               10,
			TeacherMaxSubjects:              5,
			TeacherMinWeeklyLessons:         12,
			TeacherMaxWeeklyLessons:         30,
			TeacherCurriculumSpecialization: constants.CurriculumBoth,
		}
		p.Apply(&teacher)

		if p.CombinationID != nil {
			var combo model.TeacherCombinationModel
			if err := tx.First(&combo, "combination_id = ?", *p.CombinationID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Combination not found")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to load combination")
			}
			teacher.TeacherCombinationID = &combo.CombinationID
			// snapshot: qualification checks read this, not the combination row
			teacher.TeacherQualifiedSubjects = combo.CombinationSubjects
		}

		if err := tx.Create(&teacher).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "User is already a teacher")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create teacher")
		}

		if user.UserRole != constants.RoleAdmin && user.UserRole != constants.RoleTeacher {
			if err := tx.Model(&userModel.UserModel{}).
				Where("user_id = ?", user.UserID).
				Update("user_role", constants.RoleTeacher).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to update user role")
			}
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Teacher created", ctl.respond(teacher))
}

/* ============================================
   GET /teachers, GET /teachers/:id
============================================ */

func (ctl *TeacherController) ListTeachers(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.TeacherModel{}).
		Where("teacher_school_id = ?", schoolID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count teachers")
	}

	var teachers []model.TeacherModel
	if err := q.Order("teacher_created_at ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&teachers).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load teachers")
	}

	out := make([]dto.TeacherResponseDTO, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, ctl.respond(t))
	}
	return helper.JsonOK(c, "Teachers", fiber.Map{
		"items":      out,
		"pagination": helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}

func (ctl *TeacherController) GetTeacher(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	teacherID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid teacher id")
	}

	var teacher model.TeacherModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&teacher, "teacher_id = ?", teacherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Teacher not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load teacher")
	}
	if teacher.TeacherSchoolID != schoolID {
		return helper.JsonError(c, fiber.StatusForbidden, "Teacher belongs to a different school")
	}
	return helper.JsonOK(c, "Teacher", ctl.respond(teacher))
}

/* ============================================
   PATCH /teachers/:id (admin)
============================================ */

func (ctl *TeacherController) UpdateTeacher(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "teacher management"); err != nil {
		return helper.FromFiberError(c, err)
	}
	teacherID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid teacher id")
	}

	var p dto.TeacherUpdateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	var teacher model.TeacherModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&teacher, "teacher_id = ?", teacherID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Teacher not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load teacher")
		}
		if teacher.TeacherSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Teacher belongs to a different school")
		}

		p.Apply(&teacher)

		if p.CombinationID != nil {
			var combo model.TeacherCombinationModel
			if err := tx.First(&combo, "combination_id = ?", *p.CombinationID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Combination not found")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to load combination")
			}
			teacher.TeacherCombinationID = &combo.CombinationID
			teacher.TeacherQualifiedSubjects = combo.CombinationSubjects
		}

		// shrinking max_classes below the current load is allowed: the cap
		// gates new assignments, it does not evict existing ones
		if err := tx.Save(&teacher).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update teacher")
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Teacher updated", ctl.respond(teacher))
}

/* ============================================
   DELETE /teachers/:id (admin) — links cascade
============================================ */

func (ctl *TeacherController) DeleteTeacher(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "teacher management"); err != nil {
		return helper.FromFiberError(c, err)
	}
	teacherID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid teacher id")
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var teacher model.TeacherModel
		if err := tx.First(&teacher, "teacher_id = ?", teacherID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Teacher not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load teacher")
		}
		if teacher.TeacherSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Teacher belongs to a different school")
		}

		if err := ctl.Engine.CascadeTeacherRemoval(c.UserContext(), tx, teacherID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to remove teacher assignments")
		}
		if err := tx.Delete(&teacher).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete teacher")
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Teacher deleted", nil)
}

/* ============================================
   GET /teacher-combinations — global reference
============================================ */

func (ctl *TeacherController) ListCombinations(c *fiber.Ctx) error {
	var combos []model.TeacherCombinationModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Order("combination_code ASC").Find(&combos).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load combinations")
	}
	out := make([]dto.CombinationResponseDTO, 0, len(combos))
	for _, combo := range combos {
		out = append(out, dto.FromCombinationModel(combo))
	}
	return helper.JsonOK(c, "Teacher combinations", out)
}
