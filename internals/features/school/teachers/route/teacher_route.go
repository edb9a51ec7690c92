// file: internals/features/school/teachers/route/teacher_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "shuleni_backend/internals/features/school/teachers/controller"
)

func TeacherUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewTeacherController(db, v)
	user.Get("/teachers", ctl.ListTeachers)
	user.Get("/teachers/:id", ctl.GetTeacher)
	user.Get("/teacher-combinations", ctl.ListCombinations)
}

func TeacherAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewTeacherController(db, v)
	admin.Post("/teachers", ctl.CreateTeacher)
	admin.Patch("/teachers/:id", ctl.UpdateTeacher)
	admin.Delete("/teachers/:id", ctl.DeleteTeacher)
}
