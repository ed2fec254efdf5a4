package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================================================
 * STATUS ABSEN MAKAN
 * ========================================================= */

type AttendanceStatus string

const (
	StatusPendingVerification AttendanceStatus = "PENDING_VERIFICATION"
	StatusHabis               AttendanceStatus = "HABIS"
	StatusSisaSedikit         AttendanceStatus = "SISA_SEDIKIT"
	StatusSisaBanyak          AttendanceStatus = "SISA_BANYAK"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPendingVerification, StatusHabis, StatusSisaSedikit, StatusSisaBanyak:
		return true
	}
	return false
}

// IsResolved: status sudah punya hasil (bukan menunggu verifikasi).
func (s AttendanceStatus) IsResolved() bool {
	return s.Valid() && s != StatusPendingVerification
}

// HasLeftover: ada sisa makanan → alasan boleh diisi.
func (s AttendanceStatus) HasLeftover() bool {
	return s == StatusSisaSedikit || s == StatusSisaBanyak
}

// VerifiableTarget: status yang boleh di-set verifikator.
// PENDING_VERIFICATION bukan target yang sah; sekali ditinggalkan tidak
// pernah dimasuki lagi.
func VerifiableTarget(s AttendanceStatus) bool {
	return s.IsResolved()
}

/* =========================================================
 * MODEL
 * ========================================================= */

type MealAttendanceModel struct {
	MealAttendanceID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:meal_attendance_id" json:"meal_attendance_id"`

	MealAttendanceUserID uuid.UUID  `gorm:"type:uuid;not null;index:idx_meal_attendance_user;uniqueIndex:uq_meal_attendance_user_tanggal,priority:1;column:meal_attendance_user_id" json:"meal_attendance_user_id"`
	MealAttendanceMenuID *uuid.UUID `gorm:"type:uuid;column:meal_attendance_menu_id" json:"meal_attendance_menu_id,omitempty"`

	MealAttendanceFotoURL          string  `gorm:"type:text;not null;column:meal_attendance_foto_url" json:"meal_attendance_foto_url"`
	MealAttendanceFotoThumbnailURL *string `gorm:"type:text;column:meal_attendance_foto_thumbnail_url" json:"meal_attendance_foto_thumbnail_url,omitempty"`

	MealAttendanceStatus     AttendanceStatus `gorm:"type:varchar(24);not null;default:'PENDING_VERIFICATION';index:idx_meal_attendance_status;column:meal_attendance_status" json:"meal_attendance_status"`
	MealAttendanceConfidence *float64         `gorm:"type:decimal(5,2);column:meal_attendance_confidence" json:"meal_attendance_confidence,omitempty"`

	MealAttendanceVerifiedBy *uuid.UUID `gorm:"type:uuid;column:meal_attendance_verified_by" json:"meal_attendance_verified_by,omitempty"`
	MealAttendanceVerifiedAt *time.Time `gorm:"column:meal_attendance_verified_at" json:"meal_attendance_verified_at,omitempty"`

	// Hari kalender (tanpa jam), kunci unik bersama user_id:
	// 1 siswa = 1 foto per hari, dijaga index, bukan cek aplikasi.
	MealAttendanceTanggal datatypes.Date `gorm:"not null;index:idx_meal_attendance_tanggal;uniqueIndex:uq_meal_attendance_user_tanggal,priority:2;column:meal_attendance_tanggal" json:"meal_attendance_tanggal"`

	MealAttendanceCreatedAt time.Time `gorm:"column:meal_attendance_created_at;autoCreateTime" json:"meal_attendance_created_at"`
	MealAttendanceUpdatedAt time.Time `gorm:"column:meal_attendance_updated_at;autoUpdateTime" json:"meal_attendance_updated_at"`
}

func (MealAttendanceModel) TableName() string { return "meal_attendance" }
