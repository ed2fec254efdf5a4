package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	m "mbgku_backend/internals/features/school/menus/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type CreateMenuRequest struct {
	Nama      string  `json:"nama" validate:"required,min=1,max=255"`
	Tanggal   string  `json:"tanggal" validate:"required,datetime=2006-01-02"`
	Deskripsi *string `json:"deskripsi" validate:"omitempty,max=2000"`
}

type UpdateMenuRequest struct {
	Nama      *string `json:"nama" validate:"omitempty,min=1,max=255"`
	Tanggal   *string `json:"tanggal" validate:"omitempty,datetime=2006-01-02"`
	Deskripsi *string `json:"deskripsi" validate:"omitempty,max=2000"`
}

func (r CreateMenuRequest) ToModel() *m.MenuModel {
	t, _ := time.Parse("2006-01-02", r.Tanggal)
	return &m.MenuModel{
		MenuNama:      r.Nama,
		MenuTanggal:   datatypes.Date(t),
		MenuDeskripsi: r.Deskripsi,
	}
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

type MenuResponse struct {
	MenuID    uuid.UUID `json:"menu_id"`
	Nama      string    `json:"nama"`
	Tanggal   string    `json:"tanggal"`
	Deskripsi *string   `json:"deskripsi,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMenuResponse(menu *m.MenuModel) MenuResponse {
	return MenuResponse{
		MenuID:    menu.MenuID,
		Nama:      menu.MenuNama,
		Tanggal:   time.Time(menu.MenuTanggal).Format("2006-01-02"),
		Deskripsi: menu.MenuDeskripsi,
		CreatedAt: menu.MenuCreatedAt,
	}
}

func NewMenuResponses(rows []m.MenuModel) []MenuResponse {
	out := make([]MenuResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewMenuResponse(&rows[i]))
	}
	return out
}
