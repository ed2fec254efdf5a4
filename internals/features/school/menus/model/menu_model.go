package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MenuModel = menu makan bergizi per hari. Boleh lebih dari satu menu
// per tanggal (mis. pilihan lauk).
type MenuModel struct {
	MenuID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:menu_id" json:"menu_id"`

	MenuNama      string         `gorm:"type:varchar(255);not null;column:menu_nama" json:"menu_nama"`
	MenuTanggal   datatypes.Date `gorm:"not null;index:idx_menus_tanggal;column:menu_tanggal" json:"menu_tanggal"`
	MenuDeskripsi *string        `gorm:"type:text;column:menu_deskripsi" json:"menu_deskripsi,omitempty"`

	MenuCreatedAt time.Time `gorm:"column:menu_created_at;autoCreateTime" json:"menu_created_at"`
	MenuUpdatedAt time.Time `gorm:"column:menu_updated_at;autoUpdateTime" json:"menu_updated_at"`
}

func (MenuModel) TableName() string { return "menus" }
