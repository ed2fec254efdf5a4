package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceService "mbgku_backend/internals/features/meals/attendance/service"
	"mbgku_backend/internals/features/meals/waste/controller"
	"mbgku_backend/internals/features/meals/waste/service"
	"mbgku_backend/internals/middlewares"
)

// WasteUserRoutes: rute siswa (group sudah dibungkus AuthJWT).
func WasteUserRoutes(r fiber.Router, db *gorm.DB, storage attendanceService.Storage, suggestion *service.SuggestionService) {
	ctrl := controller.NewWasteController(db, storage, suggestion)

	waste := r.Group("/waste-utilization")
	waste.Post("/", middlewares.UploadRateLimiter(), ctrl.Submit)
	waste.Get("/", ctrl.Mine)
	waste.Get("/:id", ctrl.Detail)
}

// WasteAdminRoutes: rute verifikator (guru/admin).
func WasteAdminRoutes(r fiber.Router, db *gorm.DB, storage attendanceService.Storage, suggestion *service.SuggestionService) {
	ctrl := controller.NewWasteController(db, storage, suggestion)

	waste := r.Group("/waste-utilization")
	waste.Get("/pending", ctrl.PendingQueue)
	waste.Patch("/:id/verify", ctrl.Verify)
}
