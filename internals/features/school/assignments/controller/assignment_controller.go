// file: internals/features/school/assignments/controller/assignment_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "shuleni_backend/internals/features/school/assignments/dto"
	model "shuleni_backend/internals/features/school/assignments/model"
	service "shuleni_backend/internals/features/school/assignments/service"
	helper "shuleni_backend/internals/helpers"
	helperAuth "shuleni_backend/internals/helpers/auth"
)

/* ============================================
   Controller
============================================ */

type AssignmentController struct {
	DB        *gorm.DB
	Engine    *service.AssignmentEngine
	Validator *validator.Validate
}

func NewAssignmentController(db *gorm.DB, v *validator.Validate) *AssignmentController {
	if v == nil {
		v = validator.New()
	}
	return &AssignmentController{DB: db, Engine: service.NewAssignmentEngine(db), Validator: v}
}

// enrich looks up the display names for a link response.
func (ctl *AssignmentController) enrich(link model.ClassroomTeacherModel) dto.ClassroomTeacherResponseDTO {
	var classroomName, teacherName string
	_ = ctl.DB.Table("classrooms").
		Select("classroom_name").
		Where("classroom_id = ?", link.ClassroomTeacherClassroomID).
		Scan(&classroomName).Error
	_ = ctl.DB.Table("teachers t").
		Select("u.user_full_name").
		Joins("JOIN users u ON u.user_id = t.teacher_user_id").
		Where("t.teacher_id = ?", link.ClassroomTeacherTeacherID).
		Scan(&teacherName).Error
	return dto.FromModel(link, classroomName, teacherName)
}

/* ============================================
   POST /classrooms/:id/teachers
============================================ */

func (ctl *AssignmentController) AssignTeacherToClassroom(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "teacher assignments"); err != nil {
		return helper.FromFiberError(c, err)
	}

	classroomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid classroom id")
	}

	var p dto.AssignTeacherDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	link, err := ctl.Engine.AssignTeacherToClassroom(c.UserContext(), schoolID, p.TeacherID, classroomID, p.WantsClassTeacher())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Teacher assigned to classroom", ctl.enrich(*link))
}

/* ============================================
   POST /classrooms/:id/class-teacher
   DELETE /classrooms/:id/class-teacher
============================================ */

func (ctl *AssignmentController) AssignClassTeacher(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "class teacher assignments"); err != nil {
		return helper.FromFiberError(c, err)
	}

	classroomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid classroom id")
	}

	var p dto.AssignClassTeacherDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	link, err := ctl.Engine.AssignClassTeacher(c.UserContext(), schoolID, p.TeacherID, classroomID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Class teacher assigned", ctl.enrich(*link))
}

func (ctl *AssignmentController) RemoveClassTeacher(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "class teacher assignments"); err != nil {
		return helper.FromFiberError(c, err)
	}

	classroomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid classroom id")
	}

	if err := ctl.Engine.RemoveClassTeacher(c.UserContext(), schoolID, classroomID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Class teacher removed", nil)
}

/* ============================================
   DELETE /classrooms/:id/teachers/:teacher_id
============================================ */

func (ctl *AssignmentController) RemoveTeacherFromClassroom(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "teacher assignments"); err != nil {
		return helper.FromFiberError(c, err)
	}

	classroomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid classroom id")
	}
	teacherID, err := uuid.Parse(c.Params("teacher_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid teacher id")
	}

	if err := ctl.Engine.RemoveTeacherFromClassroom(c.UserContext(), schoolID, classroomID, teacherID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Teacher removed from classroom", nil)
}

/* ============================================
   POST /teachers/assign-to-multiple-classrooms
============================================ */

func (ctl *AssignmentController) BulkAssignTeacher(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "teacher assignments"); err != nil {
		return helper.FromFiberError(c, err)
	}

	var p dto.BulkAssignDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	result, err := ctl.Engine.AssignTeacherToManyClassrooms(c.UserContext(), schoolID, p.TeacherID, p.ClassroomIDs)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	resp := dto.BulkAssignResponseDTO{
		Assigned:        make([]dto.ClassroomTeacherResponseDTO, 0, len(result.Assigned)),
		AlreadyAssigned: result.AlreadyAssigned,
		Skipped:         result.Skipped,
	}
	for _, link := range result.Assigned {
		resp.Assigned = append(resp.Assigned, ctl.enrich(link))
	}
	return helper.JsonOK(c, "Teacher assigned to classrooms", resp)
}

/* ============================================
   Stream mirror
   POST /streams/:id/class-teacher
   DELETE /streams/:id/class-teacher
   POST /streams/:id/teachers
   DELETE /streams/:id/teachers/:teacher_id
============================================ */

func (ctl *AssignmentController) AssignClassTeacherToStream(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "class teacher assignments"); err != nil {
		return helper.FromFiberError(c, err)
	}

	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid stream id")
	}

	var p dto.AssignClassTeacherDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	stream, err := ctl.Engine.AssignClassTeacherToStream(c.UserContext(), schoolID, p.TeacherID, streamID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Class teacher assigned to stream", stream)
}

func (ctl *AssignmentController) RemoveClassTeacherFromStream(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "class teacher assignments"); err != nil {
		return helper.FromFiberError(c, err)
	}

	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid stream id")
	}

	if err := ctl.Engine.RemoveClassTeacherFromStream(c.UserContext(), schoolID, streamID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Class teacher removed from stream", nil)
}

func (ctl *AssignmentController) AssignTeachersToStream(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "teacher assignments"); err != nil {
		return helper.FromFiberError(c, err)
	}

	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid stream id")
	}

	var p dto.StreamBulkAssignDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	result, err := ctl.Engine.AssignTeachersToStream(c.UserContext(), schoolID, streamID, p.TeacherIDs)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	resp := dto.StreamBulkAssignResponseDTO{
		Assigned:        make([]dto.StreamTeacherResponseDTO, 0, len(result.Assigned)),
		AlreadyAssigned: result.AlreadyAssigned,
		Skipped:         result.Skipped,
	}
	for _, link := range result.Assigned {
		resp.Assigned = append(resp.Assigned, dto.FromStreamModel(link))
	}
	return helper.JsonOK(c, "Teachers assigned to stream", resp)
}

func (ctl *AssignmentController) RemoveTeacherFromStream(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "teacher assignments"); err != nil {
		return helper.FromFiberError(c, err)
	}

	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid stream id")
	}
	teacherID, err := uuid.Parse(c.Params("teacher_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid teacher id")
	}

	if err := ctl.Engine.RemoveTeacherFromStream(c.UserContext(), schoolID, streamID, teacherID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Teacher removed from stream", nil)
}

/* ============================================
   GET /classrooms/:id/teachers — list links
============================================ */

func (ctl *AssignmentController) ListClassroomTeachers(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	classroomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid classroom id")
	}

	var links []model.ClassroomTeacherModel
	if err := ctl.DB.
		Where("classroom_teacher_classroom_id = ? AND classroom_teacher_school_id = ?", classroomID, schoolID).
		Order("classroom_teacher_created_at ASC").
		Find(&links).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonOK(c, "Classroom teachers", []dto.ClassroomTeacherResponseDTO{})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load assignments")
	}

	out := make([]dto.ClassroomTeacherResponseDTO, 0, len(links))
	for _, link := range links {
		out = append(out, ctl.enrich(link))
	}
	return helper.JsonOK(c, "Classroom teachers", out)
}
