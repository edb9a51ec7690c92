// file: internals/features/school/classrooms/route/classroom_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "shuleni_backend/internals/features/school/classrooms/controller"
)

func ClassroomUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewClassroomController(db, v)
	user.Get("/classrooms", ctl.ListClassrooms)
	user.Get("/classrooms/:id", ctl.GetClassroom)
}

func ClassroomAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewClassroomController(db, v)
	admin.Post("/classrooms", ctl.CreateClassroom)
	admin.Patch("/classrooms/:id", ctl.UpdateClassroom)
	admin.Delete("/classrooms/:id", ctl.DeleteClassroom)

	admin.Post("/classrooms/:id/streams", ctl.CreateStream)
	admin.Patch("/streams/:id", ctl.UpdateStream)
	admin.Delete("/streams/:id", ctl.DeleteStream)
}
