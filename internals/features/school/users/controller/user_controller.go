// file: internals/features/school/users/controller/user_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	configs "shuleni_backend/internals/configs"
	dto "shuleni_backend/internals/features/school/users/dto"
	model "shuleni_backend/internals/features/school/users/model"
	teacherModel "shuleni_backend/internals/features/school/teachers/model"
	helper "shuleni_backend/internals/helpers"
	helperAuth "shuleni_backend/internals/helpers/auth"
)

const tokenTTL = 24 * time.Hour

type UserController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewUserController(db *gorm.DB, v *validator.Validate) *UserController {
	if v == nil {
		v = validator.New()
	}
	return &UserController{DB: db, Validator: v}
}

/* ============================================
   POST /auth/login (public)
============================================ */

func (ctl *UserController) Login(c *fiber.Ctx) error {
	var p dto.LoginDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}
	p.Normalize()

	var user model.UserModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&user, "user_email = ?", p.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPasswordHash), []byte(p.Password)); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	// teacher_id claim rides along when the user has a teacher record
	claims := jwt.MapClaims{
		"user_id":   user.UserID.String(),
		"school_id": user.UserSchoolID.String(),
		"role":      user.UserRole,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(tokenTTL).Unix(),
	}
	var teacher teacherModel.TeacherModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&teacher, "teacher_user_id = ?", user.UserID).Error; err == nil {
		claims["teacher_id"] = teacher.TeacherID.String()
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to sign token")
	}

	return helper.JsonOK(c, "Login successful", dto.LoginResponseDTO{
		AccessToken: signed,
		ExpiresAt:   time.Now().Add(tokenTTL),
		User:        dto.FromModel(user),
	})
}

/* ============================================
   GET /users/me (authed)
============================================ */

func (ctl *UserController) GetMe(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var user model.UserModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	return helper.JsonOK(c, "User", dto.FromModel(user))
}

/* ============================================
   POST /users (admin) — staff/member accounts
============================================ */

func (ctl *UserController) CreateUser(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "user management"); err != nil {
		return helper.FromFiberError(c, err)
	}

	var p dto.UserCreateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}
	p.Normalize()

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := model.UserModel{
		UserSchoolID:     schoolID,
		UserEmail:        p.Email,
		UserPasswordHash: string(hash),
		UserFullName:     p.FullName,
		UserRole:         p.Role,
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return helper.JsonError(c, fiber.StatusConflict, "Email is already registered")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}
	return helper.JsonCreated(c, "User created", dto.FromModel(user))
}

/* ============================================
   GET /users (admin) — paginated tenant listing
============================================ */

func (ctl *UserController) ListUsers(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "user management"); err != nil {
		return helper.FromFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.UserModel{}).
		Where("user_school_id = ?", schoolID)
	if role := c.Query("role"); role != "" {
		q = q.Where("user_role = ?", role)
	}
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count users")
	}

	var users []model.UserModel
	if err := q.Order("user_created_at ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load users")
	}

	out := make([]dto.UserResponseDTO, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromModel(u))
	}
	return helper.JsonOK(c, "Users", fiber.Map{
		"items":      out,
		"pagination": helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}
