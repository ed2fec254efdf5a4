package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mbgku_backend/internals/features/users/auth/controller"
	"mbgku_backend/internals/middlewares"
)

// AuthRoutes: endpoint publik register/login dengan rate limiter ketat.
func AuthRoutes(app fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	auth := app.Group("/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/refresh", middlewares.LoginRateLimiter(), ctrl.Refresh)
}

// ProfileRoutes: butuh JWT (dipasang di group pemanggil).
func ProfileRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)
	r.Get("/profile", ctrl.Profile)
}
