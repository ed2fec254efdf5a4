package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mbgku_backend/internals/features/school/menus/controller"
)

// MenuUserRoutes: baca menu (semua user login).
func MenuUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMenuController(db)

	menus := r.Group("/menus")
	menus.Get("/", ctrl.List)
	menus.Get("/today", ctrl.Today)
	menus.Get("/:id", ctrl.Detail)
}

// MenuAdminRoutes: kelola menu (guru/admin).
func MenuAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMenuController(db)

	menus := r.Group("/menus")
	menus.Post("/", ctrl.Create)
	menus.Put("/:id", ctrl.Update)
	menus.Delete("/:id", ctrl.Delete)
}
