// file: internals/features/meals/waste/service/waste_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	attendanceService "mbgku_backend/internals/features/meals/attendance/service"
	m "mbgku_backend/internals/features/meals/waste/model"
	pointModel "mbgku_backend/internals/features/meals/points/model"
	pointService "mbgku_backend/internals/features/meals/points/service"
	"mbgku_backend/internals/helpers/profanity"
)

/* =========================================================
 * KONTRAK
 * ========================================================= */

type WasteRepo interface {
	Create(ctx context.Context, w *m.WasteUtilizationModel) error
	FindByID(ctx context.Context, id uuid.UUID) (*m.WasteUtilizationModel, error)
	// MarkDecision set status PENDING → decision dalam satu UPDATE
	// berkondisi. decided=false berarti record sudah diputuskan duluan
	// (kalah balapan dengan verifikator lain).
	MarkDecision(ctx context.Context, id uuid.UUID, decision m.WasteStatus, verifierID uuid.UUID, points int) (decided bool, err error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *m.WasteStatus, limit int) ([]m.WasteUtilizationModel, error)
	ListPending(ctx context.Context, limit int) ([]m.WasteUtilizationModel, error)
}

const storageFolder = "waste-utilization"

/* =========================================================
 * SERVICE
 * ========================================================= */

type WasteService struct {
	Repo       WasteRepo
	Storage    attendanceService.Storage
	Ledger     pointService.Ledger
	Tx         pointService.Transactor
	Suggestion *SuggestionService
	Profanity  profanity.Checker
}

func NewWasteService(repo WasteRepo, storage attendanceService.Storage, ledger pointService.Ledger, suggestion *SuggestionService, tx pointService.Transactor) *WasteService {
	return &WasteService{
		Repo:       repo,
		Storage:    storage,
		Ledger:     ledger,
		Tx:         tx,
		Suggestion: suggestion,
		Profanity:  profanity.Default(),
	}
}

type SubmitWasteResult struct {
	Waste *m.WasteUtilizationModel
	// Saran pemanfaatan untuk ditampilkan langsung ke siswa.
	Suggestion string
}

// Submit: siswa mengunggah bukti pemanfaatan limbah. Status awal selalu
// PENDING; poin baru keluar setelah di-approve verifikator.
func (s *WasteService) Submit(ctx context.Context, userID uuid.UUID, imageBytes []byte, jenis m.WasteCategory, deskripsi *string) (*SubmitWasteResult, error) {
	if !jenis.Valid() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Jenis pemanfaatan tidak valid")
	}

	var desc *string
	if deskripsi != nil {
		d := strings.TrimSpace(*deskripsi)
		if len(d) > 1000 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Deskripsi maksimal 1000 karakter")
		}
		if d != "" {
			if s.Profanity.IsFlagged(d) {
				return nil, fiber.NewError(fiber.StatusBadRequest, "Deskripsi mengandung kata yang tidak pantas")
			}
			desc = &d
		}
	}

	if err := attendanceService.ValidateDimensions(imageBytes); err != nil {
		return nil, err
	}

	stored, err := s.Storage.Store(ctx, imageBytes, storageFolder)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "Gagal menyimpan foto. Coba lagi")
	}

	w := &m.WasteUtilizationModel{
		WasteUtilizationUserID:    userID,
		WasteUtilizationFotoURL:   stored.URL,
		WasteUtilizationJenis:     jenis,
		WasteUtilizationDeskripsi: desc,
		WasteUtilizationStatus:    m.WastePending,
	}
	if err := s.Repo.Create(ctx, w); err != nil {
		// Foto sudah naik tapi record batal; hapus best effort.
		_ = s.Storage.Delete(stored.URL)
		if stored.ThumbnailURL != "" {
			_ = s.Storage.Delete(stored.ThumbnailURL)
		}
		return nil, err
	}

	return &SubmitWasteResult{
		Waste:      w,
		Suggestion: s.Suggestion.Suggest(ctx, jenis),
	}, nil
}

// Verify: keputusan verifikator, tepat satu kali per pengajuan.
// UPDATE berkondisi di repo yang menjamin ini saat dua guru menekan
// tombol bersamaan; yang kalah dapat 409.
func (s *WasteService) Verify(ctx context.Context, wasteID, verifierID uuid.UUID, decision m.WasteStatus, points *int) (*m.WasteUtilizationModel, error) {
	if !decision.Decision() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Keputusan harus APPROVED atau REJECTED")
	}

	w, err := s.Repo.FindByID(ctx, wasteID)
	if err != nil {
		return nil, err
	}
	if !w.WasteUtilizationStatus.CanTransitionTo(decision) {
		return nil, fiber.NewError(fiber.StatusConflict, "Pengajuan sudah diverifikasi")
	}

	awarded := 0
	if decision == m.WasteApproved {
		awarded = m.ClampPoints(points)
	}

	// Keputusan dan entri ledger satu transaksi: APPROVED tanpa poin
	// tercatat tidak boleh pernah commit.
	err = s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		decided, err := s.Repo.MarkDecision(ctx, wasteID, decision, verifierID, awarded)
		if err != nil {
			return err
		}
		if !decided {
			return fiber.NewError(fiber.StatusConflict, "Pengajuan sudah diverifikasi")
		}
		if decision == m.WasteApproved {
			if _, err := s.Ledger.Award(ctx, w.WasteUtilizationUserID, pointModel.SourceWasteUtilization, wasteID, awarded, "Pemanfaatan limbah: "+string(w.WasteUtilizationJenis)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	w.WasteUtilizationStatus = decision
	w.WasteUtilizationVerifiedBy = &verifierID
	w.WasteUtilizationVerifiedAt = &now
	w.WasteUtilizationPointsAwarded = awarded
	return w, nil
}

// Mine = pengajuan milik user, terbaru dulu, opsional difilter status.
func (s *WasteService) Mine(ctx context.Context, userID uuid.UUID, status *m.WasteStatus, limit int) ([]m.WasteUtilizationModel, error) {
	if status != nil && !status.Valid() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Status filter tidak valid")
	}
	if limit <= 0 {
		limit = 30
	}
	return s.Repo.ListByUser(ctx, userID, status, limit)
}

// Detail: siswa hanya boleh melihat miliknya; verifikator boleh semua.
func (s *WasteService) Detail(ctx context.Context, wasteID, requesterID uuid.UUID, requesterIsVerifier bool) (*m.WasteUtilizationModel, error) {
	w, err := s.Repo.FindByID(ctx, wasteID)
	if err != nil {
		return nil, err
	}
	if !requesterIsVerifier && w.WasteUtilizationUserID != requesterID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Bukan pengajuan milik Anda")
	}
	return w, nil
}

// PendingQueue = antrian PENDING untuk verifikator, paling lama dulu.
func (s *WasteService) PendingQueue(ctx context.Context, limit int) ([]m.WasteUtilizationModel, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.Repo.ListPending(ctx, limit)
}
