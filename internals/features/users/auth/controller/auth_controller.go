// file: internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mbgku_backend/internals/features/users/auth/dto"
	"mbgku_backend/internals/features/users/auth/service"
	helper "mbgku_backend/internals/helpers"
)

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{Service: service.New(db)}
}

/* ===================== REGISTER ===================== */
// POST /api/auth/register
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	u, err := ctrl.Service.Register(req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Akun berhasil dibuat", dto.NewUserResponse(*u))
}

/* ===================== LOGIN ===================== */
// POST /api/auth/login
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	pair, u, err := ctrl.Service.Login(req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "Login berhasil", dto.AuthResponse{
		Token:        pair.Token,
		RefreshToken: pair.RefreshToken,
		User:         dto.NewUserResponse(*u),
	})
}

/* ===================== REFRESH ===================== */
// POST /api/auth/refresh
func (ctrl *AuthController) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	pair, u, err := ctrl.Service.Refresh(req.RefreshToken)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "Token diperbarui", dto.AuthResponse{
		Token:        pair.Token,
		RefreshToken: pair.RefreshToken,
		User:         dto.NewUserResponse(*u),
	})
}

/* ===================== PROFILE ===================== */
// GET /api/u/profile
func (ctrl *AuthController) Profile(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	u, err := ctrl.Service.FindByID(userID.String())
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "OK", dto.NewUserResponse(*u))
}
