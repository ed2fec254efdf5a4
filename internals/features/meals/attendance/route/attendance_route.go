package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mbgku_backend/internals/features/meals/attendance/controller"
	"mbgku_backend/internals/features/meals/attendance/service"
	"mbgku_backend/internals/middlewares"
)

// AttendanceUserRoutes: rute siswa (group sudah dibungkus AuthJWT).
func AttendanceUserRoutes(r fiber.Router, db *gorm.DB, storage service.Storage) {
	ctrl := controller.NewAttendanceController(db, storage)

	att := r.Group("/meal-attendance")
	att.Post("/", middlewares.UploadRateLimiter(), ctrl.Submit)
	att.Get("/", ctrl.MyAttendance)
	att.Get("/:id", ctrl.Detail)
	att.Post("/:id/reason", ctrl.SubmitReason)
}

// AttendanceAdminRoutes: rute verifikator (guru/admin).
func AttendanceAdminRoutes(r fiber.Router, db *gorm.DB, storage service.Storage) {
	ctrl := controller.NewAttendanceController(db, storage)

	att := r.Group("/meal-attendance")
	att.Get("/pending", ctrl.PendingQueue)
	att.Patch("/:id/verify", ctrl.Verify)
}
