// file: internals/features/meals/waste/repository/waste_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	database "mbgku_backend/internals/databases"
	m "mbgku_backend/internals/features/meals/waste/model"
)

type GormWasteRepo struct {
	DB *gorm.DB
}

func NewGormWasteRepo(db *gorm.DB) *GormWasteRepo {
	return &GormWasteRepo{DB: db}
}

func (r *GormWasteRepo) Create(ctx context.Context, w *m.WasteUtilizationModel) error {
	if err := database.TxFromContext(ctx, r.DB).WithContext(ctx).Create(w).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan pengajuan")
	}
	return nil
}

func (r *GormWasteRepo) FindByID(ctx context.Context, id uuid.UUID) (*m.WasteUtilizationModel, error) {
	var w m.WasteUtilizationModel
	if err := r.DB.WithContext(ctx).
		First(&w, "waste_utilization_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Pengajuan tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil pengajuan")
	}
	return &w, nil
}

// MarkDecision: UPDATE berkondisi pada status PENDING. RowsAffected 0
// berarti record sudah diputuskan; transisi terminal dijaga di DB,
// bukan lewat read-modify-write.
func (r *GormWasteRepo) MarkDecision(ctx context.Context, id uuid.UUID, decision m.WasteStatus, verifierID uuid.UUID, points int) (bool, error) {
	res := database.TxFromContext(ctx, r.DB).WithContext(ctx).
		Model(&m.WasteUtilizationModel{}).
		Where("waste_utilization_id = ? AND waste_utilization_status = ?", id, m.WastePending).
		Updates(map[string]interface{}{
			"waste_utilization_status":         decision,
			"waste_utilization_verified_by":    verifierID,
			"waste_utilization_verified_at":    time.Now(),
			"waste_utilization_points_awarded": points,
		})
	if res.Error != nil {
		return false, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan verifikasi")
	}
	return res.RowsAffected > 0, nil
}

func (r *GormWasteRepo) ListByUser(ctx context.Context, userID uuid.UUID, status *m.WasteStatus, limit int) ([]m.WasteUtilizationModel, error) {
	q := r.DB.WithContext(ctx).
		Where("waste_utilization_user_id = ?", userID)
	if status != nil {
		q = q.Where("waste_utilization_status = ?", *status)
	}

	var rows []m.WasteUtilizationModel
	if err := q.
		Order("waste_utilization_created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil riwayat pengajuan")
	}
	return rows, nil
}

func (r *GormWasteRepo) ListPending(ctx context.Context, limit int) ([]m.WasteUtilizationModel, error) {
	var rows []m.WasteUtilizationModel
	if err := r.DB.WithContext(ctx).
		Where("waste_utilization_status = ?", m.WastePending).
		Order("waste_utilization_created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil antrian verifikasi")
	}
	return rows, nil
}
