// file: internals/features/school/schools/route/school_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "shuleni_backend/internals/features/school/schools/controller"
)

// SchoolPublicRoutes mounts self-service registration.
func SchoolPublicRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewSchoolController(db, v)
	api.Post("/schools/register", ctl.Register)
}

// SchoolUserRoutes mounts tenant reads for any authed role.
func SchoolUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewSchoolController(db, v)
	user.Get("/schools/me", ctl.GetMySchool)
}

// SchoolAdminRoutes mounts configuration writes.
func SchoolAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewSchoolController(db, v)
	admin.Patch("/schools/me", ctl.UpdateConfig)
}
