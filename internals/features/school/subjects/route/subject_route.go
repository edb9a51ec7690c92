// file: internals/features/school/subjects/route/subject_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "shuleni_backend/internals/features/school/subjects/controller"
)

func SubjectUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewSubjectController(db, v)
	user.Get("/subjects", ctl.ListSubjects)
	user.Get("/subjects/:id", ctl.GetSubject)
}

func SubjectAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewSubjectController(db, v)
	admin.Post("/subjects", ctl.CreateSubject)
	admin.Patch("/subjects/:id", ctl.UpdateSubject)
	admin.Delete("/subjects/:id", ctl.DeleteSubject)
}
