package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mbgku_backend/internals/features/meals/points/controller"
)

// PointsRoutes: semua butuh JWT (group pemanggil).
func PointsRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPointsController(db)

	points := r.Group("/points")
	points.Get("/", ctrl.GetMyPoints)
	points.Get("/history", ctrl.GetHistory)
	points.Get("/breakdown", ctrl.GetBreakdown)
	points.Get("/leaderboard", ctrl.GetLeaderboard)
}
