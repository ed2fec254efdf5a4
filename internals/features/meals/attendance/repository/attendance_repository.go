// file: internals/features/meals/attendance/repository/attendance_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/google/uuid"

	database "mbgku_backend/internals/databases"
	m "mbgku_backend/internals/features/meals/attendance/model"
	helper "mbgku_backend/internals/helpers"
)

/* =========================================================
 * ATTENDANCE (gorm)
 * ========================================================= */

type GormAttendanceRepo struct {
	DB *gorm.DB
}

func NewGormAttendanceRepo(db *gorm.DB) *GormAttendanceRepo {
	return &GormAttendanceRepo{DB: db}
}

func (r *GormAttendanceRepo) Create(ctx context.Context, a *m.MealAttendanceModel) error {
	if err := database.TxFromContext(ctx, r.DB).WithContext(ctx).Create(a).Error; err != nil {
		// Index unik (user, tanggal): satu foto per siswa per hari.
		if helper.IsUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "Anda sudah absen makan hari ini")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan absen makan")
	}
	return nil
}

func (r *GormAttendanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*m.MealAttendanceModel, error) {
	var att m.MealAttendanceModel
	if err := r.DB.WithContext(ctx).
		First(&att, "meal_attendance_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Absen makan tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil absen makan")
	}
	return &att, nil
}

func (r *GormAttendanceRepo) Save(ctx context.Context, a *m.MealAttendanceModel) error {
	if err := database.TxFromContext(ctx, r.DB).WithContext(ctx).Save(a).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui absen makan")
	}
	return nil
}

func (r *GormAttendanceRepo) ListByUser(ctx context.Context, userID uuid.UUID, from, to *time.Time, limit int) ([]m.MealAttendanceModel, error) {
	q := r.DB.WithContext(ctx).
		Where("meal_attendance_user_id = ?", userID)
	if from != nil {
		q = q.Where("meal_attendance_tanggal >= ?", from.Format("2006-01-02"))
	}
	if to != nil {
		q = q.Where("meal_attendance_tanggal <= ?", to.Format("2006-01-02"))
	}

	var rows []m.MealAttendanceModel
	if err := q.Order("meal_attendance_tanggal DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil riwayat absen")
	}
	return rows, nil
}

func (r *GormAttendanceRepo) ListPending(ctx context.Context, limit int) ([]m.MealAttendanceModel, error) {
	var rows []m.MealAttendanceModel
	if err := r.DB.WithContext(ctx).
		Where("meal_attendance_status = ?", m.StatusPendingVerification).
		Order("meal_attendance_created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil antrian verifikasi")
	}
	return rows, nil
}

/* =========================================================
 * REASONS (gorm)
 * ========================================================= */

type GormReasonRepo struct {
	DB *gorm.DB
}

func NewGormReasonRepo(db *gorm.DB) *GormReasonRepo {
	return &GormReasonRepo{DB: db}
}

func (r *GormReasonRepo) Create(ctx context.Context, reason *m.FoodWasteReasonModel) error {
	if err := database.TxFromContext(ctx, r.DB).WithContext(ctx).Create(reason).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "Alasan untuk absen ini sudah pernah diisi")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan alasan")
	}
	return nil
}

func (r *GormReasonRepo) FindByAttendance(ctx context.Context, attendanceID uuid.UUID) (*m.FoodWasteReasonModel, error) {
	var reason m.FoodWasteReasonModel
	err := r.DB.WithContext(ctx).
		First(&reason, "food_waste_reason_attendance_id = ?", attendanceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil alasan")
	}
	return &reason, nil
}
