package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mbgku_backend/internals/features/school/dashboard/controller"
)

// DashboardRoutes: rute staf (guru/admin/sppg), group pemanggil yang
// memasang AuthJWT + RequireRoles.
func DashboardRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewDashboardController(db)

	dash := r.Group("/dashboard")
	dash.Get("/school", ctrl.School)
	dash.Get("/sppg", ctrl.SPPG)
	dash.Get("/export", ctrl.ExportCSV)
}
