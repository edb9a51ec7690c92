// file: internals/features/school/academic_years/route/academic_year_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "shuleni_backend/internals/features/school/academic_years/controller"
)

func AcademicYearUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewAcademicYearController(db, v)
	user.Get("/academic-years", ctl.ListTerms)
	user.Get("/academic-years/active", ctl.GetActiveTerm)
}

func AcademicYearAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewAcademicYearController(db, v)
	admin.Post("/academic-years", ctl.CreateTerm)
	admin.Post("/academic-years/bulk", ctl.CreateBulkTerms)
	admin.Post("/academic-years/:id/activate", ctl.SetActive)
	admin.Patch("/academic-years/:id", ctl.UpdateTerm)
}
