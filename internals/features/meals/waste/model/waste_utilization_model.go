package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
 * JENIS & STATUS PEMANFAATAN LIMBAH
 * ========================================================= */

type WasteCategory string

const (
	WasteKompos      WasteCategory = "KOMPOS"
	WasteEcoEnzyme   WasteCategory = "ECO_ENZYME"
	WastePakanTernak WasteCategory = "PAKAN_TERNAK"
	WasteMediaTanam  WasteCategory = "MEDIA_TANAM"
	WastePrakarya    WasteCategory = "PRAKARYA"
)

func (c WasteCategory) Valid() bool {
	switch c {
	case WasteKompos, WasteEcoEnzyme, WastePakanTernak, WasteMediaTanam, WastePrakarya:
		return true
	}
	return false
}

type WasteStatus string

const (
	WastePending  WasteStatus = "PENDING"
	WasteApproved WasteStatus = "APPROVED"
	WasteRejected WasteStatus = "REJECTED"
)

func (s WasteStatus) Valid() bool {
	switch s {
	case WastePending, WasteApproved, WasteRejected:
		return true
	}
	return false
}

// Decision: keputusan verifikator yang sah.
func (s WasteStatus) Decision() bool {
	return s == WasteApproved || s == WasteRejected
}

// CanTransitionTo: PENDING → APPROVED|REJECTED, tepat sekali.
// APPROVED dan REJECTED terminal.
func (s WasteStatus) CanTransitionTo(to WasteStatus) bool {
	return s == WastePending && to.Decision()
}

// Batas poin pemanfaatan limbah.
const (
	WasteDefaultPoints = 15
	WasteMaxPoints     = 50
)

// ClampPoints normalisasi poin approve. nil atau <= 0 jatuh ke default
// (approve selalu menghasilkan poin positif), lebih dari batas dipotong.
func ClampPoints(p *int) int {
	if p == nil || *p <= 0 {
		return WasteDefaultPoints
	}
	if *p > WasteMaxPoints {
		return WasteMaxPoints
	}
	return *p
}

/* =========================================================
 * MODEL
 * ========================================================= */

type WasteUtilizationModel struct {
	WasteUtilizationID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:waste_utilization_id" json:"waste_utilization_id"`

	WasteUtilizationUserID uuid.UUID `gorm:"type:uuid;not null;index:idx_waste_utilizations_user;column:waste_utilization_user_id" json:"waste_utilization_user_id"`

	WasteUtilizationFotoURL   string        `gorm:"type:text;not null;column:waste_utilization_foto_url" json:"waste_utilization_foto_url"`
	WasteUtilizationJenis     WasteCategory `gorm:"type:varchar(20);not null;index:idx_waste_utilizations_jenis;column:waste_utilization_jenis" json:"waste_utilization_jenis"`
	WasteUtilizationDeskripsi *string       `gorm:"type:varchar(1000);column:waste_utilization_deskripsi" json:"waste_utilization_deskripsi,omitempty"`

	WasteUtilizationStatus WasteStatus `gorm:"type:varchar(10);not null;default:'PENDING';index:idx_waste_utilizations_status;column:waste_utilization_status" json:"waste_utilization_status"`

	WasteUtilizationVerifiedBy *uuid.UUID `gorm:"type:uuid;column:waste_utilization_verified_by" json:"waste_utilization_verified_by,omitempty"`
	WasteUtilizationVerifiedAt *time.Time `gorm:"column:waste_utilization_verified_at" json:"waste_utilization_verified_at,omitempty"`

	// 0 kecuali APPROVED; di-set sekali saat approve, setelah itu beku.
	WasteUtilizationPointsAwarded int `gorm:"not null;default:0;column:waste_utilization_points_awarded" json:"waste_utilization_points_awarded"`

	WasteUtilizationCreatedAt time.Time `gorm:"column:waste_utilization_created_at;autoCreateTime" json:"waste_utilization_created_at"`
	WasteUtilizationUpdatedAt time.Time `gorm:"column:waste_utilization_updated_at;autoUpdateTime" json:"waste_utilization_updated_at"`
}

func (WasteUtilizationModel) TableName() string { return "waste_utilizations" }
