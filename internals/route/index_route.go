// file: internals/route/index_route.go
package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	configs "shuleni_backend/internals/configs"
	academicYearRoute "shuleni_backend/internals/features/school/academic_years/route"
	assignmentRoute "shuleni_backend/internals/features/school/assignments/route"
	classroomRoute "shuleni_backend/internals/features/school/classrooms/route"
	schoolRoute "shuleni_backend/internals/features/school/schools/route"
	subjectAssignmentRoute "shuleni_backend/internals/features/school/subject_assignments/route"
	subjectRoute "shuleni_backend/internals/features/school/subjects/route"
	teacherRoute "shuleni_backend/internals/features/school/teachers/route"
	userRoute "shuleni_backend/internals/features/school/users/route"
	middlewares "shuleni_backend/internals/middlewares"
	authMiddleware "shuleni_backend/internals/middlewares/auth"
)

// SetupRoutes mounts the three route surfaces:
//
//	/api    — public (registration, login)
//	/api/u  — any authenticated member of a school
//	/api/a  — school admins (handlers re-check the role)
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	v := validator.New()

	api := app.Group("/api")
	api.Post("/auth/login", middlewares.LoginRateLimiter())
	api.Post("/schools/register", middlewares.RegisterRateLimiter())

	schoolRoute.SchoolPublicRoutes(api, db, v)
	userRoute.UserPublicRoutes(api, db, v)

	authed := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	user := app.Group("/api/u", authed)
	schoolRoute.SchoolUserRoutes(user, db, v)
	userRoute.UserAuthedRoutes(user, db, v)
	teacherRoute.TeacherUserRoutes(user, db, v)
	classroomRoute.ClassroomUserRoutes(user, db, v)
	subjectRoute.SubjectUserRoutes(user, db, v)
	academicYearRoute.AcademicYearUserRoutes(user, db, v)
	subjectAssignmentRoute.SubjectAssignmentUserRoutes(user, db, v)

	admin := app.Group("/api/a", authed)
	schoolRoute.SchoolAdminRoutes(admin, db, v)
	userRoute.UserAdminRoutes(admin, db, v)
	teacherRoute.TeacherAdminRoutes(admin, db, v)
	classroomRoute.ClassroomAdminRoutes(admin, db, v)
	assignmentRoute.AssignmentAdminRoutes(admin, db, v)
	subjectRoute.SubjectAdminRoutes(admin, db, v)
	academicYearRoute.AcademicYearAdminRoutes(admin, db, v)
	subjectAssignmentRoute.SubjectAssignmentAdminRoutes(admin, db, v)
}
