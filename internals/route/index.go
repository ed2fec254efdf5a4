// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mbgku_backend/internals/configs"
	"mbgku_backend/internals/constants"
	attendanceRoute "mbgku_backend/internals/features/meals/attendance/route"
	attendanceService "mbgku_backend/internals/features/meals/attendance/service"
	pointsRoute "mbgku_backend/internals/features/meals/points/route"
	wasteRoute "mbgku_backend/internals/features/meals/waste/route"
	wasteService "mbgku_backend/internals/features/meals/waste/service"
	dashboardRoute "mbgku_backend/internals/features/school/dashboard/route"
	menuRoute "mbgku_backend/internals/features/school/menus/route"
	authRoute "mbgku_backend/internals/features/users/auth/route"
	"mbgku_backend/internals/helpers/oss"
	authmw "mbgku_backend/internals/middlewares/auth"
)

// SetupRoutes merakit seluruh rute:
//
//	/api/auth : publik (register, login)
//	/api/u    : semua user login (siswa & staf)
//	/api/a    : verifikator (guru/admin)
//	/api/s    : staf (guru/admin/sppg): dashboard & ekspor
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	var storage attendanceService.Storage
	ossSvc, err := oss.NewOSSServiceFromEnv("mbgku")
	if err != nil {
		// Tanpa storage, submit foto pasti gagal. Jangan diam-diam jalan.
		log.Fatalf("❌ OSS tidak terkonfigurasi: %v", err)
	}
	storage = ossSvc

	suggestion := wasteService.NewSuggestionService(configs.GeminiAPIKey)

	api := app.Group("/api")

	// Publik
	authRoute.AuthRoutes(api, db)

	jwtMW := authmw.AuthJWT(authmw.AuthJWTOpts{Secret: configs.JWTSecret})

	// Semua user login
	u := api.Group("/u", jwtMW)
	authRoute.ProfileRoutes(u, db)
	attendanceRoute.AttendanceUserRoutes(u, db, storage)
	wasteRoute.WasteUserRoutes(u, db, storage, suggestion)
	pointsRoute.PointsRoutes(u, db)
	menuRoute.MenuUserRoutes(u, db)

	// Verifikator
	a := api.Group("/a", jwtMW,
		authmw.RequireRoles(constants.RoleErrorVerifier("verifikasi"), constants.VerifierRoles...))
	attendanceRoute.AttendanceAdminRoutes(a, db, storage)
	wasteRoute.WasteAdminRoutes(a, db, storage, suggestion)
	menuRoute.MenuAdminRoutes(a, db)

	// Staf (termasuk sppg untuk evaluasi menu)
	s := api.Group("/s", jwtMW,
		authmw.RequireRoles(constants.RoleErrorStaff("dashboard"), constants.StaffRoles...))
	dashboardRoute.DashboardRoutes(s, db)
}
