// file: internals/features/school/users/route/user_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "shuleni_backend/internals/features/school/users/controller"
)

func UserPublicRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewUserController(db, v)
	api.Post("/auth/login", ctl.Login)
}

func UserAuthedRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewUserController(db, v)
	user.Get("/users/me", ctl.GetMe)
}

func UserAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewUserController(db, v)
	admin.Post("/users", ctl.CreateUser)
	admin.Get("/users", ctl.ListUsers)
}
