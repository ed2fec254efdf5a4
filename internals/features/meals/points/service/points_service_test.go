package service

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mbgku_backend/internals/features/meals/points/model"
)

/* =========================================================
 * FAKE REPO (dedup di key referensi+tipe, seperti index partial)
 * ========================================================= */

type fakeRepo struct {
	rows []m.PointModel
	seen map[string]bool
}

func newFakeRepo() *fakeRepo { return &fakeRepo{seen: map[string]bool{}} }

func refKey(e *m.PointModel) string {
	switch {
	case e.PointAttendanceID != nil:
		return "att|" + e.PointAttendanceID.String() + "|" + string(e.PointType)
	case e.PointWasteUtilizationID != nil:
		return "waste|" + e.PointWasteUtilizationID.String() + "|" + string(e.PointType)
	}
	return ""
}

func (r *fakeRepo) Insert(_ context.Context, e *m.PointModel) (bool, error) {
	key := refKey(e)
	if r.seen[key] {
		return false, nil
	}
	r.seen[key] = true
	e.PointID = uuid.New()
	r.rows = append(r.rows, *e)
	return true, nil
}

func (r *fakeRepo) SumByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	for _, e := range r.rows {
		if e.PointUserID == userID {
			sum += int64(e.PointPoints)
		}
	}
	return sum, nil
}

func (r *fakeRepo) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, e := range r.rows {
		if e.PointUserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID, offset, limit int) ([]m.PointModel, error) {
	var mine []m.PointModel
	for _, e := range r.rows {
		if e.PointUserID == userID {
			mine = append(mine, e)
		}
	}
	if offset >= len(mine) {
		return nil, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], nil
}

func (r *fakeRepo) SumByUserGrouped(_ context.Context, userID uuid.UUID) (map[m.PointSourceType]int64, error) {
	out := map[m.PointSourceType]int64{}
	for _, e := range r.rows {
		if e.PointUserID == userID {
			out[e.PointType] += int64(e.PointPoints)
		}
	}
	return out, nil
}

func (r *fakeRepo) Leaderboard(_ context.Context, limit int) ([]LeaderboardRow, error) {
	return nil, nil
}

/* =========================================================
 * AWARD
 * ========================================================= */

func TestAward_Idempoten(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)
	ctx := context.Background()
	user := uuid.New()
	ref := uuid.New()

	created, err := svc.Award(ctx, user, m.SourceMealHabis, ref, 10, "Makan habis")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Award(ctx, user, m.SourceMealHabis, ref, 10, "Makan habis")
	require.NoError(t, err)
	assert.False(t, created)

	total, err := svc.TotalFor(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
}

func TestAward_TipeBedaReferensiSamaBolehDua(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)
	ctx := context.Background()
	user := uuid.New()
	ref := uuid.New()

	// Satu absen bisa punya entri HABIS (hasil koreksi) DAN entri alasan.
	_, err := svc.Award(ctx, user, m.SourceMealHabis, ref, 10, "")
	require.NoError(t, err)
	_, err = svc.Award(ctx, user, m.SourceMealTidakHabis, ref, -5, "")
	require.NoError(t, err)

	assert.Len(t, repo.rows, 2)
}

func TestAward_RoutingKolomReferensi(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.Award(ctx, user, m.SourceMealHabis, uuid.New(), 10, "")
	require.NoError(t, err)
	_, err = svc.Award(ctx, user, m.SourceWasteUtilization, uuid.New(), 15, "")
	require.NoError(t, err)

	require.Len(t, repo.rows, 2)
	assert.NotNil(t, repo.rows[0].PointAttendanceID)
	assert.Nil(t, repo.rows[0].PointWasteUtilizationID)
	assert.Nil(t, repo.rows[1].PointAttendanceID)
	assert.NotNil(t, repo.rows[1].PointWasteUtilizationID)
}

func TestAward_DeskripsiDefault(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)

	_, err := svc.Award(context.Background(), uuid.New(), m.SourceMealHabis, uuid.New(), 10, "")
	require.NoError(t, err)
	assert.Equal(t, "Points from MEAL_HABIS", repo.rows[0].PointDescription)
}

func TestAward_Validasi(t *testing.T) {
	svc := New(newFakeRepo())
	ctx := context.Background()

	tests := []struct {
		name   string
		user   uuid.UUID
		typ    m.PointSourceType
		ref    uuid.UUID
		points int
	}{
		{"tipe tidak valid", uuid.New(), m.PointSourceType("BONUS"), uuid.New(), 10},
		{"poin terlalu besar", uuid.New(), m.SourceMealHabis, uuid.New(), m.MaxPoints + 1},
		{"poin terlalu kecil", uuid.New(), m.SourceMealHabis, uuid.New(), m.MinPoints - 1},
		{"referensi kosong", uuid.New(), m.SourceMealHabis, uuid.Nil, 10},
		{"user kosong", uuid.Nil, m.SourceMealHabis, uuid.New(), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Award(ctx, tt.user, tt.typ, tt.ref, tt.points, "")
			var fe *fiber.Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, fiber.StatusBadRequest, fe.Code)
		})
	}
}

/* =========================================================
 * HISTORY
 * ========================================================= */

func TestHistory_Halaman(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)
	ctx := context.Background()
	user := uuid.New()

	for i := 0; i < 5; i++ {
		_, err := svc.Award(ctx, user, m.SourceMealHabis, uuid.New(), 10, "")
		require.NoError(t, err)
	}

	rows, total, err := svc.HistoryFor(ctx, user, 0, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(5), total)

	rows, total, err = svc.HistoryFor(ctx, user, 4, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(5), total)

	// Offset lewat akhir = halaman kosong, total tetap benar.
	rows, total, err = svc.HistoryFor(ctx, user, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, int64(5), total)
}

/* =========================================================
 * BREAKDOWN
 * ========================================================= */

func TestBreakdown(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)
	ctx := context.Background()
	user := uuid.New()

	_, _ = svc.Award(ctx, user, m.SourceMealHabis, uuid.New(), 10, "")
	_, _ = svc.Award(ctx, user, m.SourceMealHabis, uuid.New(), 10, "")
	_, _ = svc.Award(ctx, user, m.SourceMealTidakHabis, uuid.New(), -5, "")
	_, _ = svc.Award(ctx, user, m.SourceWasteUtilization, uuid.New(), 15, "")

	b, err := svc.BreakdownFor(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(20), b.Habis)
	assert.Equal(t, int64(-5), b.TidakHabis)
	assert.Equal(t, int64(15), b.Waste)
	assert.Equal(t, int64(30), b.Total)

	total, err := svc.TotalFor(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, b.Total, total)
}
