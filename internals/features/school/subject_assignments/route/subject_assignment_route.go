// file: internals/features/school/subject_assignments/route/subject_assignment_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "shuleni_backend/internals/features/school/subject_assignments/controller"
)

func SubjectAssignmentUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewSubjectAssignmentController(db, v)
	user.Get("/teachers/:id/subject-assignments", ctl.ListTeacherAssignments)
	user.Get("/teachers/:id/workload", ctl.TeacherWorkload)
}

func SubjectAssignmentAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewSubjectAssignmentController(db, v)
	admin.Post("/subject-assignments", ctl.CreateAssignment)
	admin.Delete("/subject-assignments/:id", ctl.DeleteAssignment)
}
