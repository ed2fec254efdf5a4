// file: internals/features/school/menus/controller/menu_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mbgku_backend/internals/features/school/menus/dto"
	m "mbgku_backend/internals/features/school/menus/model"
	helper "mbgku_backend/internals/helpers"
)

// CRUD sederhana, langsung ke gorm, tidak ada aturan domain di sini.
type MenuController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db, validate: validator.New()}
}

/* ===================== CREATE ===================== */
// POST /api/a/menus
func (ctrl *MenuController) Create(c *fiber.Ctx) error {
	var req dto.CreateMenuRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	menu := req.ToModel()
	if err := ctrl.DB.WithContext(c.UserContext()).Create(menu).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menyimpan menu")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Menu tersimpan", dto.NewMenuResponse(menu))
}

/* ===================== LIST ===================== */
// GET /api/u/menus?tanggal=&limit=
func (ctrl *MenuController) List(c *fiber.Ctx) error {
	q := ctrl.DB.WithContext(c.UserContext()).Model(&m.MenuModel{})
	if v := c.Query("tanggal"); v != "" {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
		}
		q = q.Where("menu_tanggal = ?", v)
	}
	limit := helper.ResolveLimit(c, 30, 100)

	var rows []m.MenuModel
	if err := q.Order("menu_tanggal DESC").Limit(limit).Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil menu")
	}
	return helper.Success(c, "OK", fiber.Map{
		"menus": dto.NewMenuResponses(rows),
		"total": len(rows),
	})
}

/* ===================== TODAY ===================== */
// GET /api/u/menus/today
func (ctrl *MenuController) Today(c *fiber.Ctx) error {
	today := time.Now().Format("2006-01-02")

	var rows []m.MenuModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("menu_tanggal = ?", today).
		Order("menu_created_at ASC").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil menu hari ini")
	}
	return helper.Success(c, "OK", fiber.Map{
		"tanggal": today,
		"menus":   dto.NewMenuResponses(rows),
	})
}

/* ===================== DETAIL ===================== */
// GET /api/u/menus/:id
func (ctrl *MenuController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID menu tidak valid")
	}

	var menu m.MenuModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		First(&menu, "menu_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Menu tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil menu")
	}
	return helper.Success(c, "OK", dto.NewMenuResponse(&menu))
}

/* ===================== UPDATE ===================== */
// PUT /api/a/menus/:id
func (ctrl *MenuController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID menu tidak valid")
	}

	var req dto.UpdateMenuRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var menu m.MenuModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		First(&menu, "menu_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Menu tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil menu")
	}

	if req.Nama != nil {
		menu.MenuNama = *req.Nama
	}
	if req.Tanggal != nil {
		t, _ := time.Parse("2006-01-02", *req.Tanggal)
		menu.MenuTanggal = datatypes.Date(t)
	}
	if req.Deskripsi != nil {
		menu.MenuDeskripsi = req.Deskripsi
	}

	if err := ctrl.DB.WithContext(c.UserContext()).Save(&menu).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memperbarui menu")
	}
	return helper.Success(c, "Menu diperbarui", dto.NewMenuResponse(&menu))
}

/* ===================== DELETE ===================== */
// DELETE /api/a/menus/:id
func (ctrl *MenuController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID menu tidak valid")
	}

	res := ctrl.DB.WithContext(c.UserContext()).Delete(&m.MenuModel{}, "menu_id = ?", id)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghapus menu")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Menu tidak ditemukan")
	}
	return helper.Success(c, "Menu dihapus", nil)
}
