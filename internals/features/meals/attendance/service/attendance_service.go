// file: internals/features/meals/attendance/service/attendance_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	m "mbgku_backend/internals/features/meals/attendance/model"
	pointModel "mbgku_backend/internals/features/meals/points/model"
	pointService "mbgku_backend/internals/features/meals/points/service"
	osshelper "mbgku_backend/internals/helpers/oss"
	"mbgku_backend/internals/helpers/profanity"
)

/* =========================================================
 * KONTRAK
 * ========================================================= */

type AttendanceRepo interface {
	// Create menyimpan absen baru. Duplikat (user, tanggal) → 409.
	Create(ctx context.Context, a *m.MealAttendanceModel) error
	FindByID(ctx context.Context, id uuid.UUID) (*m.MealAttendanceModel, error)
	Save(ctx context.Context, a *m.MealAttendanceModel) error
	ListByUser(ctx context.Context, userID uuid.UUID, from, to *time.Time, limit int) ([]m.MealAttendanceModel, error)
	ListPending(ctx context.Context, limit int) ([]m.MealAttendanceModel, error)
}

type ReasonRepo interface {
	// Create menyimpan alasan. Absen yang sudah punya alasan → 409.
	Create(ctx context.Context, r *m.FoodWasteReasonModel) error
	// FindByAttendance: (nil, nil) kalau belum ada alasan.
	FindByAttendance(ctx context.Context, attendanceID uuid.UUID) (*m.FoodWasteReasonModel, error)
}

// Storage = kolaborator penyimpanan foto. *oss.OSSService memenuhinya.
type Storage interface {
	Store(ctx context.Context, data []byte, folder string) (*osshelper.StoredImage, error)
	// Delete menghapus objek berdasarkan URL publiknya. Dipakai best
	// effort untuk bersih-bersih foto yatim saat insert DB gagal.
	Delete(url string) error
}

const (
	PointsMealHabis = 10

	storageFolder = "meal-attendance"
)

/* =========================================================
 * SERVICE
 * ========================================================= */

type AttendanceService struct {
	Repo      AttendanceRepo
	Reasons   ReasonRepo
	Storage   Storage
	Ledger    pointService.Ledger
	Tx        pointService.Transactor
	Profanity profanity.Checker
}

func NewAttendanceService(repo AttendanceRepo, reasons ReasonRepo, storage Storage, ledger pointService.Ledger, tx pointService.Transactor) *AttendanceService {
	return &AttendanceService{
		Repo:      repo,
		Reasons:   reasons,
		Storage:   storage,
		Ledger:    ledger,
		Tx:        tx,
		Profanity: profanity.Default(),
	}
}

type SubmitResult struct {
	Attendance        *m.MealAttendanceModel
	NeedsVerification bool
	// false = redaksi gagal, foto tersimpan apa adanya (warning ke klien).
	Redacted bool
}

// Submit = pipeline absen makan: validasi dimensi → redaksi → simpan
// foto → deteksi → persist → poin.
//
// Urutannya penting: foto disimpan sebelum insert DB supaya record tidak
// pernah menunjuk URL yang tidak ada; gagal upload → tidak ada record.
func (s *AttendanceService) Submit(ctx context.Context, userID uuid.UUID, tanggal time.Time, imageBytes []byte, menuID *uuid.UUID) (*SubmitResult, error) {
	if err := ValidateDimensions(imageBytes); err != nil {
		return nil, err
	}

	processed, redacted := RedactAndNormalize(imageBytes)

	stored, err := s.Storage.Store(ctx, processed, storageFolder)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "Gagal menyimpan foto. Coba lagi")
	}

	det := DetectFoodWaste(processed)
	status := GatedStatus(det)
	conf := det.Confidence

	att := &m.MealAttendanceModel{
		MealAttendanceUserID:     userID,
		MealAttendanceMenuID:     menuID,
		MealAttendanceFotoURL:    stored.URL,
		MealAttendanceStatus:     status,
		MealAttendanceConfidence: &conf,
		MealAttendanceTanggal:    datatypes.Date(tanggal),
	}
	if stored.ThumbnailURL != "" {
		att.MealAttendanceFotoThumbnailURL = &stored.ThumbnailURL
	}

	// Insert dan poin dalam satu transaksi: tidak boleh ada record HABIS
	// yang poinnya hilang di tengah jalan.
	err = s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.Repo.Create(ctx, att); err != nil {
			return err
		}
		if status == m.StatusHabis {
			if _, err := s.Ledger.Award(ctx, userID, pointModel.SourceMealHabis, att.MealAttendanceID, PointsMealHabis, "Makan habis, tidak ada sisa"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Foto sudah terlanjur naik tapi record batal. Hapus supaya
		// bucket tidak menumpuk objek yatim; gagal hapus tidak fatal.
		_ = s.Storage.Delete(stored.URL)
		if stored.ThumbnailURL != "" {
			_ = s.Storage.Delete(stored.ThumbnailURL)
		}
		return nil, err
	}

	return &SubmitResult{
		Attendance:        att,
		NeedsVerification: status == m.StatusPendingVerification,
		Redacted:          redacted,
	}, nil
}

// Verify: guru/admin menetapkan status final. Boleh dipanggil ulang
// (koreksi); penulis terakhir menang; poin HABIS idempoten lewat ledger
// jadi koreksi bolak-balik tidak menggandakan poin.
func (s *AttendanceService) Verify(ctx context.Context, attendanceID, verifierID uuid.UUID, newStatus m.AttendanceStatus) (*m.MealAttendanceModel, error) {
	if !m.VerifiableTarget(newStatus) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Status verifikasi tidak valid. Pilih: HABIS, SISA_SEDIKIT, atau SISA_BANYAK")
	}

	att, err := s.Repo.FindByID(ctx, attendanceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	att.MealAttendanceStatus = newStatus
	att.MealAttendanceVerifiedBy = &verifierID
	att.MealAttendanceVerifiedAt = &now

	err = s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.Repo.Save(ctx, att); err != nil {
			return err
		}
		if newStatus == m.StatusHabis {
			if _, err := s.Ledger.Award(ctx, att.MealAttendanceUserID, pointModel.SourceMealHabis, att.MealAttendanceID, PointsMealHabis, "Makan habis (diverifikasi)"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return att, nil
}

// SubmitReason: siswa menjelaskan kenapa makanannya bersisa.
// Satu alasan per absen; teks bebas hanya untuk LAINNYA.
func (s *AttendanceService) SubmitReason(ctx context.Context, attendanceID, userID uuid.UUID, reasonType m.ReasonType, reasonText *string) (*m.FoodWasteReasonModel, error) {
	if !reasonType.Valid() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Tipe alasan tidak valid")
	}

	att, err := s.Repo.FindByID(ctx, attendanceID)
	if err != nil {
		return nil, err
	}
	if att.MealAttendanceUserID != userID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Bukan absen milik Anda")
	}
	if !att.MealAttendanceStatus.HasLeftover() {
		if att.MealAttendanceStatus == m.StatusHabis {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Makanan sudah habis, tidak perlu mengisi alasan")
		}
		return nil, fiber.NewError(fiber.StatusBadRequest, "Absen masih menunggu verifikasi")
	}

	var text *string
	if reasonType.RequiresText() {
		if reasonText == nil || strings.TrimSpace(*reasonText) == "" {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Alasan LAINNYA wajib diisi keterangan")
		}
		t := strings.TrimSpace(*reasonText)
		if len(t) > 500 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Keterangan maksimal 500 karakter")
		}
		text = &t
	}
	// Teks untuk tipe selain LAINNYA diabaikan, tapi kalau dikirim tetap
	// disaring; kata kasar ditolak apa pun tipenya.
	if reasonText != nil && s.Profanity.IsFlagged(*reasonText) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Keterangan mengandung kata yang tidak pantas")
	}

	reason := &m.FoodWasteReasonModel{
		FoodWasteReasonAttendanceID: attendanceID,
		FoodWasteReasonType:         reasonType,
		FoodWasteReasonText:         text,
	}

	// Alasan kesehatan tetap dicatat di ledger dengan 0 poin supaya
	// riwayatnya kelihatan; selain itu -5.
	err = s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.Reasons.Create(ctx, reason); err != nil {
			return err
		}
		_, err := s.Ledger.Award(ctx, userID, pointModel.SourceMealTidakHabis, attendanceID, reasonType.PointDelta(), "Alasan: "+string(reasonType))
		return err
	})
	if err != nil {
		return nil, err
	}
	return reason, nil
}

// MyAttendance = riwayat absen milik user, terbaru dulu.
func (s *AttendanceService) MyAttendance(ctx context.Context, userID uuid.UUID, from, to *time.Time, limit int) ([]m.MealAttendanceModel, error) {
	if limit <= 0 {
		limit = 30
	}
	return s.Repo.ListByUser(ctx, userID, from, to, limit)
}

type AttendanceDetail struct {
	Attendance *m.MealAttendanceModel
	Reason     *m.FoodWasteReasonModel
}

// Detail = satu absen + alasannya (kalau ada). Siswa hanya boleh melihat
// miliknya sendiri; verifikator boleh semua.
func (s *AttendanceService) Detail(ctx context.Context, attendanceID, requesterID uuid.UUID, requesterIsVerifier bool) (*AttendanceDetail, error) {
	att, err := s.Repo.FindByID(ctx, attendanceID)
	if err != nil {
		return nil, err
	}
	if !requesterIsVerifier && att.MealAttendanceUserID != requesterID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Bukan absen milik Anda")
	}

	reason, err := s.Reasons.FindByAttendance(ctx, attendanceID)
	if err != nil {
		return nil, err
	}
	return &AttendanceDetail{Attendance: att, Reason: reason}, nil
}

// PendingQueue = antrian PENDING_VERIFICATION untuk verifikator, paling
// lama dulu.
func (s *AttendanceService) PendingQueue(ctx context.Context, limit int) ([]m.MealAttendanceModel, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.Repo.ListPending(ctx, limit)
}
