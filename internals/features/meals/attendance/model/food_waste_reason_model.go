package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
 * TIPE ALASAN
 * ========================================================= */

type ReasonType string

const (
	ReasonPorsiBanyak      ReasonType = "PORSI_BANYAK"
	ReasonRasaTidakCocok   ReasonType = "RASA_TIDAK_COCOK"
	ReasonMenuTidakDisukai ReasonType = "MENU_TIDAK_DISUKAI"
	ReasonKondisiKesehatan ReasonType = "KONDISI_KESEHATAN"
	ReasonLainnya          ReasonType = "LAINNYA"
)

func (r ReasonType) Valid() bool {
	switch r {
	case ReasonPorsiBanyak, ReasonRasaTidakCocok, ReasonMenuTidakDisukai, ReasonKondisiKesehatan, ReasonLainnya:
		return true
	}
	return false
}

// RequiresText: hanya LAINNYA yang wajib (dan boleh) membawa teks bebas.
func (r ReasonType) RequiresText() bool { return r == ReasonLainnya }

// PointDelta: alasan kesehatan tidak dihukum, selain itu -5.
func (r ReasonType) PointDelta() int {
	if r == ReasonKondisiKesehatan {
		return 0
	}
	return -5
}

/* =========================================================
 * MODEL
 * ========================================================= */

type FoodWasteReasonModel struct {
	FoodWasteReasonID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:food_waste_reason_id" json:"food_waste_reason_id"`

	// Maksimal satu alasan per absen, dijaga index unik, bukan cek aplikasi.
	FoodWasteReasonAttendanceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_food_waste_reason_attendance;column:food_waste_reason_attendance_id" json:"food_waste_reason_attendance_id"`

	FoodWasteReasonType ReasonType `gorm:"type:varchar(24);not null;column:food_waste_reason_type" json:"food_waste_reason_type"`
	FoodWasteReasonText *string    `gorm:"type:varchar(500);column:food_waste_reason_text" json:"food_waste_reason_text,omitempty"`

	FoodWasteReasonCreatedAt time.Time `gorm:"column:food_waste_reason_created_at;autoCreateTime" json:"food_waste_reason_created_at"`
}

func (FoodWasteReasonModel) TableName() string { return "food_waste_reasons" }
