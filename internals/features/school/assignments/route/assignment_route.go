// file: internals/features/school/assignments/route/assignment_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "shuleni_backend/internals/features/school/assignments/controller"
)

// AssignmentAdminRoutes mounts the assignment engine endpoints. All of them
// mutate tenant state and sit behind the admin group.
func AssignmentAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewAssignmentController(db, v)

	classrooms := admin.Group("/classrooms")
	classrooms.Get("/:id/teachers", ctl.ListClassroomTeachers)
	classrooms.Post("/:id/teachers", ctl.AssignTeacherToClassroom)
	classrooms.Delete("/:id/teachers/:teacher_id", ctl.RemoveTeacherFromClassroom)
	classrooms.Post("/:id/class-teacher", ctl.AssignClassTeacher)
	classrooms.Delete("/:id/class-teacher", ctl.RemoveClassTeacher)

	admin.Post("/teachers/assign-to-multiple-classrooms", ctl.BulkAssignTeacher)

	streams := admin.Group("/streams")
	streams.Post("/:id/teachers", ctl.AssignTeachersToStream)
	streams.Delete("/:id/teachers/:teacher_id", ctl.RemoveTeacherFromStream)
	streams.Post("/:id/class-teacher", ctl.AssignClassTeacherToStream)
	streams.Delete("/:id/class-teacher", ctl.RemoveClassTeacherFromStream)
}
