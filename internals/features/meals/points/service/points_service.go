// file: internals/features/meals/points/service/points_service.go
package service

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	m "mbgku_backend/internals/features/meals/points/model"
)

/* =========================================================
 * KONTRAK
 * ========================================================= */

// Ledger adalah kontrak pemberian poin yang dipakai service lain
// (absen makan & pemanfaatan limbah).
type Ledger interface {
	// Award menulis satu entri. Idempoten per (referenceID, sourceType):
	// duplikat bukan error, cuma no-op (created=false).
	Award(ctx context.Context, userID uuid.UUID, sourceType m.PointSourceType, referenceID uuid.UUID, points int, description string) (created bool, err error)
}

// Transactor menjalankan fn dalam satu transaksi database. Service yang
// menulis status dan entri ledger sekaligus wajib lewat sini supaya
// keduanya commit atau batal bersama.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type LeaderboardRow struct {
	UserID      uuid.UUID `json:"user_id"`
	Nama        string    `json:"nama"`
	Kelas       *string   `json:"kelas,omitempty"`
	TotalPoints int64     `json:"total_points"`
}

// Repo adalah kontrak storage ledger. Implementasi gorm ada di
// repository/points_repository.go; test pakai fake in-memory.
type Repo interface {
	Insert(ctx context.Context, e *m.PointModel) (created bool, err error)
	SumByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]m.PointModel, error)
	SumByUserGrouped(ctx context.Context, userID uuid.UUID) (map[m.PointSourceType]int64, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error)
}

/* =========================================================
 * SERVICE
 * ========================================================= */

type PointsService struct {
	Repo Repo
}

func New(repo Repo) *PointsService { return &PointsService{Repo: repo} }

// Award menulis entri ledger. Kolom referensi mengikuti sumber:
// absen makan → point_attendance_id, limbah → point_waste_utilization_id.
func (s *PointsService) Award(ctx context.Context, userID uuid.UUID, sourceType m.PointSourceType, referenceID uuid.UUID, points int, description string) (bool, error) {
	if !sourceType.Valid() {
		return false, fiber.NewError(fiber.StatusBadRequest, "Tipe poin tidak valid")
	}
	if points < m.MinPoints || points > m.MaxPoints {
		return false, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Poin di luar batas (%d..%d)", m.MinPoints, m.MaxPoints))
	}
	if referenceID == uuid.Nil || userID == uuid.Nil {
		return false, fiber.NewError(fiber.StatusBadRequest, "Referensi poin tidak valid")
	}

	e := m.PointModel{
		PointUserID:      userID,
		PointPoints:      points,
		PointType:        sourceType,
		PointDescription: description,
	}
	if description == "" {
		e.PointDescription = fmt.Sprintf("Points from %s", sourceType)
	}
	ref := referenceID
	if sourceType == m.SourceWasteUtilization {
		e.PointWasteUtilizationID = &ref
	} else {
		e.PointAttendanceID = &ref
	}

	return s.Repo.Insert(ctx, &e)
}

// TotalFor = jumlah seluruh entri user (0 kalau belum ada).
func (s *PointsService) TotalFor(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.Repo.SumByUser(ctx, userID)
}

// HistoryFor = satu halaman entri terbaru dulu, plus total seluruh entri
// untuk metadata pagination.
func (s *PointsService) HistoryFor(ctx context.Context, userID uuid.UUID, offset, limit int) ([]m.PointModel, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.Repo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

type Breakdown struct {
	Habis      int64 `json:"habis"`
	TidakHabis int64 `json:"tidak_habis"`
	Waste      int64 `json:"waste"`
	Total      int64 `json:"total"`
}

// BreakdownFor = jumlah per sumber + grand total.
func (s *PointsService) BreakdownFor(ctx context.Context, userID uuid.UUID) (Breakdown, error) {
	sums, err := s.Repo.SumByUserGrouped(ctx, userID)
	if err != nil {
		return Breakdown{}, err
	}
	b := Breakdown{
		Habis:      sums[m.SourceMealHabis],
		TidakHabis: sums[m.SourceMealTidakHabis],
		Waste:      sums[m.SourceWasteUtilization],
	}
	b.Total = b.Habis + b.TidakHabis + b.Waste
	return b, nil
}

// Leaderboard = total per siswa, DESC. Tie-break: user_id ASC supaya
// urutan deterministik antar request.
func (s *PointsService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.Repo.Leaderboard(ctx, limit)
}
