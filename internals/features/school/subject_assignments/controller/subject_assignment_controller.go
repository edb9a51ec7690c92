// file: internals/features/school/subject_assignments/controller/subject_assignment_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "shuleni_backend/internals/features/school/subject_assignments/dto"
	service "shuleni_backend/internals/features/school/subject_assignments/service"
	helper "shuleni_backend/internals/helpers"
	helperAuth "shuleni_backend/internals/helpers/auth"
)

type SubjectAssignmentController struct {
	DB        *gorm.DB
	Service   *service.SubjectAssignmentService
	Validator *validator.Validate
}

func NewSubjectAssignmentController(db *gorm.DB, v *validator.Validate) *SubjectAssignmentController {
	if v == nil {
		v = validator.New()
	}
	return &SubjectAssignmentController{DB: db, Service: service.NewSubjectAssignmentService(db), Validator: v}
}

func (ctl *SubjectAssignmentController) subjectName(subjectID uuid.UUID) string {
	var name string
	_ = ctl.DB.Table("subjects").
		Select("subject_name").
		Where("subject_id = ?", subjectID).
		Scan(&name).Error
	return name
}

/* ============================================
   POST /subject-assignments (admin)
============================================ */

func (ctl *SubjectAssignmentController) CreateAssignment(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "subject assignments"); err != nil {
		return helper.FromFiberError(c, err)
	}

	var p dto.SubjectAssignmentCreateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	in := service.CreateAssignmentInput{
		TeacherID:      p.TeacherID,
		SubjectID:      p.SubjectID,
		AcademicYearID: p.AcademicYearID,
		StreamID:       p.StreamID,
		ClassroomID:    p.ClassroomID,
	}
	if p.WeeklyPeriods != nil {
		in.WeeklyPeriods = *p.WeeklyPeriods
	}
	if p.AssignmentType != nil {
		in.AssignmentType = *p.AssignmentType
	}

	created, err := ctl.Service.CreateAssignment(c.UserContext(), schoolID, in)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Subject assignment created",
		dto.FromModel(*created, ctl.subjectName(created.SubjectAssignmentSubjectID)))
}

/* ============================================
   DELETE /subject-assignments/:id (admin)
============================================ */

func (ctl *SubjectAssignmentController) DeleteAssignment(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "subject assignments"); err != nil {
		return helper.FromFiberError(c, err)
	}
	assignmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid assignment id")
	}

	if err := ctl.Service.DeleteAssignment(c.UserContext(), schoolID, assignmentID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Subject assignment deleted", nil)
}

/* ============================================
   GET /teachers/:id/subject-assignments
   GET /teachers/:id/workload
============================================ */

func (ctl *SubjectAssignmentController) ListTeacherAssignments(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	teacherID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid teacher id")
	}
	yearID, err := ctl.resolveYearID(c, schoolID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	rows, err := ctl.Service.ListByTeacher(c.UserContext(), schoolID, teacherID, yearID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	out := make([]dto.SubjectAssignmentResponseDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromModel(r, ctl.subjectName(r.SubjectAssignmentSubjectID)))
	}
	return helper.JsonOK(c, "Subject assignments", out)
}

func (ctl *SubjectAssignmentController) TeacherWorkload(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	teacherID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid teacher id")
	}
	yearID, err := ctl.resolveYearID(c, schoolID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	report, err := ctl.Service.Workload(c.UserContext(), schoolID, teacherID, yearID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	resp := dto.WorkloadReportDTO{
		TeacherID:        teacherID,
		AcademicYearID:   yearID,
		TotalPeriods:     report.TotalPeriods,
		MinWeeklyLessons: report.MinWeeklyLessons,
		MaxWeeklyLessons: report.MaxWeeklyLessons,
		Underloaded:      report.Underloaded,
		Overloaded:       report.Overloaded,
		Assignments:      make([]dto.SubjectAssignmentResponseDTO, 0, len(report.Assignments)),
	}
	for _, r := range report.Assignments {
		resp.Assignments = append(resp.Assignments, dto.FromModel(r, ctl.subjectName(r.SubjectAssignmentSubjectID)))
	}
	return helper.JsonOK(c, "Teacher workload", resp)
}

// resolveYearID reads ?academic_year_id= or falls back to the active term.
func (ctl *SubjectAssignmentController) resolveYearID(c *fiber.Ctx, schoolID uuid.UUID) (uuid.UUID, error) {
	if raw := c.Query("academic_year_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid academic_year_id")
		}
		return id, nil
	}
	var id uuid.UUID
	err := ctl.DB.Table("academic_years").
		Select("academic_year_id").
		Where("academic_year_school_id = ? AND academic_year_is_active = ?", schoolID, true).
		Scan(&id).Error
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnprocessableEntity,
			"No active academic term; pass academic_year_id explicitly")
	}
	return id, nil
}
