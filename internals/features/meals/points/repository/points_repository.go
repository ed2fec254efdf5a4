// file: internals/features/meals/points/repository/points_repository.go
package repository

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mbgku_backend/internals/constants"
	database "mbgku_backend/internals/databases"
	m "mbgku_backend/internals/features/meals/points/model"
	"mbgku_backend/internals/features/meals/points/service"
)

type GormPointsRepo struct {
	DB *gorm.DB
}

func NewGormPointsRepo(db *gorm.DB) *GormPointsRepo { return &GormPointsRepo{DB: db} }

var _ service.Repo = (*GormPointsRepo)(nil)

// Insert append satu entri. ON CONFLICT DO NOTHING bersandar pada index
// unik parsial (reference, type); retry/award ganda jadi no-op atomik.
func (r *GormPointsRepo) Insert(ctx context.Context, e *m.PointModel) (bool, error) {
	res := database.TxFromContext(ctx, r.DB).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(e)
	if res.Error != nil {
		return false, fiber.NewError(fiber.StatusInternalServerError, "Gagal mencatat poin")
	}
	return res.RowsAffected > 0, nil
}

func (r *GormPointsRepo) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&m.PointModel{}).
		Where("point_user_id = ?", userID).
		Select("COALESCE(SUM(point_points), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung poin")
	}
	return total, nil
}

func (r *GormPointsRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&m.PointModel{}).
		Where("point_user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung riwayat poin")
	}
	return total, nil
}

func (r *GormPointsRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]m.PointModel, error) {
	var rows []m.PointModel
	err := r.DB.WithContext(ctx).
		Where("point_user_id = ?", userID).
		Order("point_created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil riwayat poin")
	}
	return rows, nil
}

func (r *GormPointsRepo) SumByUserGrouped(ctx context.Context, userID uuid.UUID) (map[m.PointSourceType]int64, error) {
	type row struct {
		PointType m.PointSourceType `gorm:"column:point_type"`
		Total     int64             `gorm:"column:total"`
	}
	var rows []row
	err := r.DB.WithContext(ctx).
		Model(&m.PointModel{}).
		Select("point_type, COALESCE(SUM(point_points), 0) AS total").
		Where("point_user_id = ?", userID).
		Group("point_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung rincian poin")
	}
	out := make(map[m.PointSourceType]int64, len(rows))
	for _, r := range rows {
		out[r.PointType] = r.Total
	}
	return out, nil
}

// Leaderboard hanya menghitung siswa. Tie-break user_id ASC (deterministik).
func (r *GormPointsRepo) Leaderboard(ctx context.Context, limit int) ([]service.LeaderboardRow, error) {
	var rows []service.LeaderboardRow
	err := r.DB.WithContext(ctx).
		Table("points").
		Select("points.point_user_id AS user_id, users.user_nama AS nama, users.user_kelas AS kelas, SUM(points.point_points) AS total_points").
		Joins("JOIN users ON users.user_id = points.point_user_id").
		Where("users.user_role = ?", constants.RoleSiswa).
		Group("points.point_user_id, users.user_nama, users.user_kelas").
		Order("total_points DESC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil leaderboard")
	}
	return rows, nil
}
