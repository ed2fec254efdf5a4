package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
 * SUMBER POIN
 * ========================================================= */

type PointSourceType string

const (
	SourceMealHabis        PointSourceType = "MEAL_HABIS"
	SourceMealTidakHabis   PointSourceType = "MEAL_TIDAK_HABIS"
	SourceWasteUtilization PointSourceType = "WASTE_UTILIZATION"
)

func (t PointSourceType) Valid() bool {
	switch t {
	case SourceMealHabis, SourceMealTidakHabis, SourceWasteUtilization:
		return true
	}
	return false
}

// Batas nilai satu entri ledger.
const (
	MinPoints = -100
	MaxPoints = 100
)

/* =========================================================
 * MODEL: ledger append-only
 *
 * Entri tidak pernah di-update/di-delete. Total poin = SUM(points).
 * Idempotensi dijaga index unik parsial (lihat databases.MigrateDB):
 *   (point_attendance_id, point_type) dan
 *   (point_waste_utilization_id, point_type).
 * ========================================================= */

type PointModel struct {
	PointID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:point_id" json:"point_id"`

	PointUserID uuid.UUID `gorm:"type:uuid;not null;index:idx_points_user;column:point_user_id" json:"point_user_id"`

	PointAttendanceID       *uuid.UUID `gorm:"type:uuid;column:point_attendance_id" json:"point_attendance_id,omitempty"`
	PointWasteUtilizationID *uuid.UUID `gorm:"type:uuid;column:point_waste_utilization_id" json:"point_waste_utilization_id,omitempty"`

	PointPoints      int             `gorm:"not null;column:point_points" json:"point_points"`
	PointType        PointSourceType `gorm:"type:varchar(20);not null;index:idx_points_type;column:point_type" json:"point_type"`
	PointDescription string          `gorm:"type:text;column:point_description" json:"point_description"`

	PointCreatedAt time.Time `gorm:"column:point_created_at;autoCreateTime;index:idx_points_created_at" json:"point_created_at"`
}

func (PointModel) TableName() string { return "points" }
