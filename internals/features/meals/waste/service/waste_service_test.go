package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mbgku_backend/internals/features/meals/waste/model"
	pointModel "mbgku_backend/internals/features/meals/points/model"
	osshelper "mbgku_backend/internals/helpers/oss"
	"mbgku_backend/internals/helpers/profanity"
)

/* =========================================================
 * FAKES
 * ========================================================= */

// fakeTx menjalankan fn langsung sambil mencatat kedalaman, jadi fake
// lain bisa memastikan dirinya dipanggil di dalam transaksi.
type fakeTx struct {
	calls int
	depth int
}

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	t.calls++
	t.depth++
	defer func() { t.depth-- }()
	return fn(ctx)
}

type fakeWasteRepo struct {
	byID       map[uuid.UUID]*m.WasteUtilizationModel
	tx         *fakeTx
	markInTx   bool
	failCreate bool
}

func newFakeWasteRepo() *fakeWasteRepo {
	return &fakeWasteRepo{byID: map[uuid.UUID]*m.WasteUtilizationModel{}}
}

func (r *fakeWasteRepo) Create(_ context.Context, w *m.WasteUtilizationModel) error {
	if r.failCreate {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan pengajuan")
	}
	w.WasteUtilizationID = uuid.New()
	r.byID[w.WasteUtilizationID] = w
	return nil
}

func (r *fakeWasteRepo) FindByID(_ context.Context, id uuid.UUID) (*m.WasteUtilizationModel, error) {
	w, ok := r.byID[id]
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "Pengajuan tidak ditemukan")
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWasteRepo) MarkDecision(_ context.Context, id uuid.UUID, decision m.WasteStatus, verifierID uuid.UUID, points int) (bool, error) {
	r.markInTx = r.tx != nil && r.tx.depth > 0
	w, ok := r.byID[id]
	if !ok || w.WasteUtilizationStatus != m.WastePending {
		return false, nil
	}
	now := time.Now()
	w.WasteUtilizationStatus = decision
	w.WasteUtilizationVerifiedBy = &verifierID
	w.WasteUtilizationVerifiedAt = &now
	w.WasteUtilizationPointsAwarded = points
	return true, nil
}

func (r *fakeWasteRepo) ListByUser(_ context.Context, userID uuid.UUID, status *m.WasteStatus, limit int) ([]m.WasteUtilizationModel, error) {
	var out []m.WasteUtilizationModel
	for _, w := range r.byID {
		if w.WasteUtilizationUserID != userID || len(out) >= limit {
			continue
		}
		if status != nil && w.WasteUtilizationStatus != *status {
			continue
		}
		out = append(out, *w)
	}
	return out, nil
}

func (r *fakeWasteRepo) ListPending(_ context.Context, limit int) ([]m.WasteUtilizationModel, error) {
	var out []m.WasteUtilizationModel
	for _, w := range r.byID {
		if w.WasteUtilizationStatus == m.WastePending && len(out) < limit {
			out = append(out, *w)
		}
	}
	return out, nil
}

type ledgerEntry struct {
	UserID uuid.UUID
	Type   pointModel.PointSourceType
	Ref    uuid.UUID
	Points int
}

type fakeLedger struct {
	entries   []ledgerEntry
	seen      map[string]bool
	tx        *fakeTx
	awardInTx bool
	fail      bool
}

func newFakeLedger() *fakeLedger { return &fakeLedger{seen: map[string]bool{}} }

func (l *fakeLedger) Award(_ context.Context, userID uuid.UUID, sourceType pointModel.PointSourceType, referenceID uuid.UUID, points int, _ string) (bool, error) {
	l.awardInTx = l.tx != nil && l.tx.depth > 0
	if l.fail {
		return false, fiber.NewError(fiber.StatusInternalServerError, "Gagal mencatat poin")
	}
	key := referenceID.String() + "|" + string(sourceType)
	if l.seen[key] {
		return false, nil
	}
	l.seen[key] = true
	l.entries = append(l.entries, ledgerEntry{UserID: userID, Type: sourceType, Ref: referenceID, Points: points})
	return true, nil
}

type fakeStorage struct {
	fail    bool
	deleted []string
}

func (s *fakeStorage) Store(_ context.Context, _ []byte, folder string) (*osshelper.StoredImage, error) {
	if s.fail {
		return nil, errors.New("oss down")
	}
	return &osshelper.StoredImage{URL: "https://bucket.example/" + folder + "/foto.webp"}, nil
}

func (s *fakeStorage) Delete(url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}

func fotoBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 250, 250))
	for y := 0; y < 250; y++ {
		for x := 0; x < 250; x++ {
			img.SetRGBA(x, y, color.RGBA{120, 90, 60, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestService() (*WasteService, *fakeWasteRepo, *fakeLedger, *fakeStorage) {
	repo := newFakeWasteRepo()
	ledger := newFakeLedger()
	storage := &fakeStorage{}
	tx := &fakeTx{}
	repo.tx = tx
	ledger.tx = tx
	svc := NewWasteService(repo, storage, ledger, NewSuggestionService(""), tx)
	return svc, repo, ledger, storage
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

/* =========================================================
 * SUBMIT
 * ========================================================= */

func TestWasteSubmit_PendingTanpaPoin(t *testing.T) {
	svc, repo, ledger, _ := newTestService()

	res, err := svc.Submit(context.Background(), uuid.New(), fotoBytes(t), m.WasteKompos, strPtr("kompos dari sisa sayur"))
	require.NoError(t, err)

	assert.Equal(t, m.WastePending, res.Waste.WasteUtilizationStatus)
	assert.Equal(t, 0, res.Waste.WasteUtilizationPointsAwarded)
	assert.Len(t, repo.byID, 1)
	assert.Empty(t, ledger.entries)

	// Mode statis: saran harus dari tabel fallback.
	assert.Equal(t, defaultSuggestions[m.WasteKompos], res.Suggestion)
}

func TestWasteSubmit_JenisTidakValid(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Submit(context.Background(), uuid.New(), fotoBytes(t), m.WasteCategory("DAUR_ULANG"), nil)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestWasteSubmit_DeskripsiKasarDitolak(t *testing.T) {
	svc, repo, _, _ := newTestService()
	svc.Profanity = profanity.NewFilter([]string{"payah"})

	_, err := svc.Submit(context.Background(), uuid.New(), fotoBytes(t), m.WasteKompos, strPtr("programnya payah"))
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Empty(t, repo.byID)
}

func TestWasteSubmit_StorageGagal(t *testing.T) {
	svc, repo, _, storage := newTestService()
	storage.fail = true

	_, err := svc.Submit(context.Background(), uuid.New(), fotoBytes(t), m.WasteEcoEnzyme, nil)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadGateway, fe.Code)
	assert.Empty(t, repo.byID)
}

/* =========================================================
 * VERIFY
 * ========================================================= */

func seedWaste(t *testing.T, repo *fakeWasteRepo, userID uuid.UUID, status m.WasteStatus) *m.WasteUtilizationModel {
	t.Helper()
	w := &m.WasteUtilizationModel{
		WasteUtilizationUserID:  userID,
		WasteUtilizationFotoURL: "https://bucket.example/foto.webp",
		WasteUtilizationJenis:   m.WasteKompos,
		WasteUtilizationStatus:  status,
	}
	require.NoError(t, repo.Create(context.Background(), w))
	return w
}

func TestWasteVerify_ApproveDefaultPoin(t *testing.T) {
	svc, repo, ledger, _ := newTestService()
	siswa := uuid.New()
	guru := uuid.New()
	w := seedWaste(t, repo, siswa, m.WastePending)

	out, err := svc.Verify(context.Background(), w.WasteUtilizationID, guru, m.WasteApproved, nil)
	require.NoError(t, err)
	assert.Equal(t, m.WasteApproved, out.WasteUtilizationStatus)
	assert.Equal(t, m.WasteDefaultPoints, out.WasteUtilizationPointsAwarded)

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, siswa, ledger.entries[0].UserID)
	assert.Equal(t, m.WasteDefaultPoints, ledger.entries[0].Points)
	assert.Equal(t, pointModel.SourceWasteUtilization, ledger.entries[0].Type)
}

func TestWasteVerify_ApprovePoinNolJadiDefault(t *testing.T) {
	svc, repo, ledger, _ := newTestService()
	w := seedWaste(t, repo, uuid.New(), m.WastePending)

	// Approve selalu berpoin positif: 0 eksplisit diperlakukan seperti
	// tidak diisi, jatuh ke default.
	out, err := svc.Verify(context.Background(), w.WasteUtilizationID, uuid.New(), m.WasteApproved, intPtr(0))
	require.NoError(t, err)
	assert.Equal(t, m.WasteDefaultPoints, out.WasteUtilizationPointsAwarded)
	require.Len(t, ledger.entries, 1)
	assert.Equal(t, m.WasteDefaultPoints, ledger.entries[0].Points)
}

func TestWasteVerify_PoinDiClamp(t *testing.T) {
	svc, repo, ledger, _ := newTestService()
	w := seedWaste(t, repo, uuid.New(), m.WastePending)

	out, err := svc.Verify(context.Background(), w.WasteUtilizationID, uuid.New(), m.WasteApproved, intPtr(9000))
	require.NoError(t, err)
	assert.Equal(t, m.WasteMaxPoints, out.WasteUtilizationPointsAwarded)
	require.Len(t, ledger.entries, 1)
	assert.Equal(t, m.WasteMaxPoints, ledger.entries[0].Points)
}

func TestWasteVerify_RejectTanpaPoin(t *testing.T) {
	svc, repo, ledger, _ := newTestService()
	w := seedWaste(t, repo, uuid.New(), m.WastePending)

	out, err := svc.Verify(context.Background(), w.WasteUtilizationID, uuid.New(), m.WasteRejected, intPtr(30))
	require.NoError(t, err)
	assert.Equal(t, m.WasteRejected, out.WasteUtilizationStatus)
	assert.Equal(t, 0, out.WasteUtilizationPointsAwarded)
	assert.Empty(t, ledger.entries)
}

func TestWasteVerify_SekaliSaja(t *testing.T) {
	svc, repo, ledger, _ := newTestService()
	w := seedWaste(t, repo, uuid.New(), m.WastePending)

	_, err := svc.Verify(context.Background(), w.WasteUtilizationID, uuid.New(), m.WasteApproved, nil)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), w.WasteUtilizationID, uuid.New(), m.WasteRejected, nil)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
	assert.Len(t, ledger.entries, 1)
}

func TestWasteVerify_KeputusanDanPoinSatuTransaksi(t *testing.T) {
	svc, repo, ledger, _ := newTestService()
	w := seedWaste(t, repo, uuid.New(), m.WastePending)

	_, err := svc.Verify(context.Background(), w.WasteUtilizationID, uuid.New(), m.WasteApproved, nil)
	require.NoError(t, err)
	assert.True(t, repo.markInTx)
	assert.True(t, ledger.awardInTx)
	assert.Equal(t, 1, svc.Tx.(*fakeTx).calls)
}

func TestWasteVerify_PoinGagalErrorDiteruskan(t *testing.T) {
	svc, repo, ledger, _ := newTestService()
	ledger.fail = true
	w := seedWaste(t, repo, uuid.New(), m.WastePending)

	_, err := svc.Verify(context.Background(), w.WasteUtilizationID, uuid.New(), m.WasteApproved, nil)
	require.Error(t, err)
}

func TestWasteSubmit_CreateGagalFotoDibersihkan(t *testing.T) {
	svc, repo, _, storage := newTestService()
	repo.failCreate = true

	_, err := svc.Submit(context.Background(), uuid.New(), fotoBytes(t), m.WasteKompos, nil)
	require.Error(t, err)
	assert.NotEmpty(t, storage.deleted)
}

func TestWasteVerify_KeputusanTidakValid(t *testing.T) {
	svc, repo, _, _ := newTestService()
	w := seedWaste(t, repo, uuid.New(), m.WastePending)

	_, err := svc.Verify(context.Background(), w.WasteUtilizationID, uuid.New(), m.WastePending, nil)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

/* =========================================================
 * SARAN
 * ========================================================= */

func TestSuggestion_FallbackStatis(t *testing.T) {
	svc := NewSuggestionService("")
	for jenis, want := range defaultSuggestions {
		assert.Equal(t, want, svc.Suggest(context.Background(), jenis))
	}
	assert.Equal(t, genericSuggestion, svc.Suggest(context.Background(), m.WasteCategory("TIDAK_DIKENAL")))
}

/* =========================================================
 * MINE
 * ========================================================= */

func TestWasteMine_FilterStatus(t *testing.T) {
	svc, repo, _, _ := newTestService()
	siswa := uuid.New()
	seedWaste(t, repo, siswa, m.WastePending)
	seedWaste(t, repo, siswa, m.WasteApproved)
	seedWaste(t, repo, uuid.New(), m.WastePending)

	all, err := svc.Mine(context.Background(), siswa, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending := m.WastePending
	only, err := svc.Mine(context.Background(), siswa, &pending, 0)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, m.WastePending, only[0].WasteUtilizationStatus)

	bad := m.WasteStatus("DITUNDA")
	_, err = svc.Mine(context.Background(), siswa, &bad, 0)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

/* =========================================================
 * DETAIL
 * ========================================================= */

func TestWasteDetail_Akses(t *testing.T) {
	svc, repo, _, _ := newTestService()
	siswa := uuid.New()
	w := seedWaste(t, repo, siswa, m.WastePending)

	_, err := svc.Detail(context.Background(), w.WasteUtilizationID, siswa, false)
	assert.NoError(t, err)

	_, err = svc.Detail(context.Background(), w.WasteUtilizationID, uuid.New(), true)
	assert.NoError(t, err)

	_, err = svc.Detail(context.Background(), w.WasteUtilizationID, uuid.New(), false)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)
}
