package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mbgku_backend/internals/features/meals/attendance/model"
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

type fakeAttRepo struct {
	byID       map[uuid.UUID]*m.MealAttendanceModel
	byUserDt   map[string]bool
	tx         *fakeTx
	createInTx bool
	saveInTx   bool
}

func newFakeAttRepo() *fakeAttRepo {
	return &fakeAttRepo{
		byID:     map[uuid.UUID]*m.MealAttendanceModel{},
		byUserDt: map[string]bool{},
	}
}

func dupKey(a *m.MealAttendanceModel) string {
	return a.MealAttendanceUserID.String() + "|" + time.Time(a.MealAttendanceTanggal).Format("2006-01-02")
}

func (r *fakeAttRepo) Create(_ context.Context, a *m.MealAttendanceModel) error {
	r.createInTx = r.tx != nil && r.tx.depth > 0
	if r.byUserDt[dupKey(a)] {
		return fiber.NewError(fiber.StatusConflict, "Anda sudah absen makan hari ini")
	}
	a.MealAttendanceID = uuid.New()
	r.byID[a.MealAttendanceID] = a
	r.byUserDt[dupKey(a)] = true
	return nil
}

func (r *fakeAttRepo) FindByID(_ context.Context, id uuid.UUID) (*m.MealAttendanceModel, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "Absen makan tidak ditemukan")
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAttRepo) Save(_ context.Context, a *m.MealAttendanceModel) error {
	r.saveInTx = r.tx != nil && r.tx.depth > 0
	r.byID[a.MealAttendanceID] = a
	return nil
}

func (r *fakeAttRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ *time.Time, limit int) ([]m.MealAttendanceModel, error) {
	var out []m.MealAttendanceModel
	for _, a := range r.byID {
		if a.MealAttendanceUserID == userID && len(out) < limit {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAttRepo) ListPending(_ context.Context, limit int) ([]m.MealAttendanceModel, error) {
	var out []m.MealAttendanceModel
	for _, a := range r.byID {
		if a.MealAttendanceStatus == m.StatusPendingVerification && len(out) < limit {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeReasonRepo struct {
	byAttendance map[uuid.UUID]*m.FoodWasteReasonModel
}

func newFakeReasonRepo() *fakeReasonRepo {
	return &fakeReasonRepo{byAttendance: map[uuid.UUID]*m.FoodWasteReasonModel{}}
}

func (r *fakeReasonRepo) Create(_ context.Context, reason *m.FoodWasteReasonModel) error {
	if _, ok := r.byAttendance[reason.FoodWasteReasonAttendanceID]; ok {
		return fiber.NewError(fiber.StatusConflict, "Alasan untuk absen ini sudah pernah diisi")
	}
	reason.FoodWasteReasonID = uuid.New()
	r.byAttendance[reason.FoodWasteReasonAttendanceID] = reason
	return nil
}

func (r *fakeReasonRepo) FindByAttendance(_ context.Context, attendanceID uuid.UUID) (*m.FoodWasteReasonModel, error) {
	return r.byAttendance[attendanceID], nil
}

type ledgerEntry struct {
	UserID uuid.UUID
	Type   pointModel.PointSourceType
	Ref    uuid.UUID
	Points int
}

// fakeLedger idempoten per (ref, type), sama seperti implementasi asli.
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
	calls   int
	deleted []string
}

func (s *fakeStorage) Store(_ context.Context, _ []byte, folder string) (*osshelper.StoredImage, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("oss down")
	}
	return &osshelper.StoredImage{
		URL:          fmt.Sprintf("https://bucket.example/%s/foto.webp", folder),
		ThumbnailURL: fmt.Sprintf("https://bucket.example/%s/thumbnails/foto.webp", folder),
	}, nil
}

func (s *fakeStorage) Delete(url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}

func newTestService() (*AttendanceService, *fakeAttRepo, *fakeReasonRepo, *fakeLedger, *fakeStorage) {
	repo := newFakeAttRepo()
	reasons := newFakeReasonRepo()
	ledger := newFakeLedger()
	storage := &fakeStorage{}
	tx := &fakeTx{}
	repo.tx = tx
	ledger.tx = tx
	svc := NewAttendanceService(repo, reasons, storage, ledger, tx)
	return svc, repo, reasons, ledger, storage
}

func strPtr(s string) *string { return &s }

/* =========================================================
 * SUBMIT
 * ========================================================= */

func TestSubmit_HabisDapatPoin(t *testing.T) {
	svc, repo, _, ledger, _ := newTestService()
	ctx := context.Background()
	userID := uuid.New()
	foto := encodePNG(t, plateImage(250, 250, 0))

	res, err := svc.Submit(ctx, userID, time.Now(), foto, nil)
	require.NoError(t, err)

	assert.Equal(t, m.StatusHabis, res.Attendance.MealAttendanceStatus)
	assert.False(t, res.NeedsVerification)
	assert.True(t, res.Redacted)
	assert.NotEmpty(t, res.Attendance.MealAttendanceFotoURL)
	require.NotNil(t, res.Attendance.MealAttendanceConfidence)
	assert.Equal(t, 0.90, *res.Attendance.MealAttendanceConfidence)
	assert.Len(t, repo.byID, 1)

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, PointsMealHabis, ledger.entries[0].Points)
	assert.Equal(t, pointModel.SourceMealHabis, ledger.entries[0].Type)
}

func TestSubmit_SisaTanpaPoin(t *testing.T) {
	svc, _, _, ledger, _ := newTestService()
	foto := encodePNG(t, plateImage(250, 250, 250)) // semua gelap

	res, err := svc.Submit(context.Background(), uuid.New(), time.Now(), foto, nil)
	require.NoError(t, err)
	assert.Equal(t, m.StatusSisaBanyak, res.Attendance.MealAttendanceStatus)
	assert.Empty(t, ledger.entries)
}

func TestSubmit_DuplikatHariSama(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()
	userID := uuid.New()
	tanggal := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	foto := encodePNG(t, plateImage(250, 250, 0))

	_, err := svc.Submit(ctx, userID, tanggal, foto, nil)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, userID, tanggal, foto, nil)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
}

func TestSubmit_DuplikatFotoKeduaDihapus(t *testing.T) {
	svc, _, _, _, storage := newTestService()
	ctx := context.Background()
	userID := uuid.New()
	tanggal := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	foto := encodePNG(t, plateImage(250, 250, 0))

	_, err := svc.Submit(ctx, userID, tanggal, foto, nil)
	require.NoError(t, err)
	require.Empty(t, storage.deleted)

	// Foto upload kedua sudah naik sebelum insert ditolak; harus
	// dibersihkan supaya bucket tidak menumpuk objek yatim.
	_, err = svc.Submit(ctx, userID, tanggal, foto, nil)
	require.Error(t, err)
	assert.Len(t, storage.deleted, 2) // foto + thumbnail
}

func TestSubmit_InsertDanPoinSatuTransaksi(t *testing.T) {
	svc, repo, _, ledger, _ := newTestService()
	foto := encodePNG(t, plateImage(250, 250, 0))

	_, err := svc.Submit(context.Background(), uuid.New(), time.Now(), foto, nil)
	require.NoError(t, err)

	assert.True(t, repo.createInTx)
	assert.True(t, ledger.awardInTx)
	assert.Equal(t, 1, svc.Tx.(*fakeTx).calls)
}

func TestSubmit_PoinGagalErrorDanFotoDibersihkan(t *testing.T) {
	svc, _, _, ledger, storage := newTestService()
	ledger.fail = true
	foto := encodePNG(t, plateImage(250, 250, 0))

	_, err := svc.Submit(context.Background(), uuid.New(), time.Now(), foto, nil)
	require.Error(t, err)
	assert.NotEmpty(t, storage.deleted)
}

func TestSubmit_GambarKecilDitolakSebelumUpload(t *testing.T) {
	svc, repo, _, _, storage := newTestService()
	foto := encodePNG(t, plateImage(100, 100, 0))

	_, err := svc.Submit(context.Background(), uuid.New(), time.Now(), foto, nil)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Zero(t, storage.calls)
	assert.Empty(t, repo.byID)
}

func TestSubmit_StorageGagalTidakAdaRecord(t *testing.T) {
	svc, repo, _, ledger, storage := newTestService()
	storage.fail = true
	foto := encodePNG(t, plateImage(250, 250, 0))

	_, err := svc.Submit(context.Background(), uuid.New(), time.Now(), foto, nil)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadGateway, fe.Code)
	assert.Empty(t, repo.byID)
	assert.Empty(t, ledger.entries)
}

/* =========================================================
 * VERIFY
 * ========================================================= */

func seedAttendance(t *testing.T, repo *fakeAttRepo, userID uuid.UUID, status m.AttendanceStatus) *m.MealAttendanceModel {
	t.Helper()
	att := &m.MealAttendanceModel{
		MealAttendanceUserID:  userID,
		MealAttendanceFotoURL: "https://bucket.example/foto.webp",
		MealAttendanceStatus:  status,
	}
	require.NoError(t, repo.Create(context.Background(), att))
	return att
}

func TestVerify_SetStatusDanPoin(t *testing.T) {
	svc, repo, _, ledger, _ := newTestService()
	ctx := context.Background()
	siswa := uuid.New()
	guru := uuid.New()
	att := seedAttendance(t, repo, siswa, m.StatusPendingVerification)

	out, err := svc.Verify(ctx, att.MealAttendanceID, guru, m.StatusHabis)
	require.NoError(t, err)
	assert.Equal(t, m.StatusHabis, out.MealAttendanceStatus)
	require.NotNil(t, out.MealAttendanceVerifiedBy)
	assert.Equal(t, guru, *out.MealAttendanceVerifiedBy)
	assert.NotNil(t, out.MealAttendanceVerifiedAt)

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, siswa, ledger.entries[0].UserID)
}

func TestVerify_KoreksiUlangTidakGandakanPoin(t *testing.T) {
	svc, repo, _, ledger, _ := newTestService()
	ctx := context.Background()
	att := seedAttendance(t, repo, uuid.New(), m.StatusPendingVerification)
	guru := uuid.New()

	_, err := svc.Verify(ctx, att.MealAttendanceID, guru, m.StatusHabis)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, att.MealAttendanceID, guru, m.StatusSisaSedikit)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, att.MealAttendanceID, guru, m.StatusHabis)
	require.NoError(t, err)

	assert.Len(t, ledger.entries, 1)
}

func TestVerify_SimpanDanPoinSatuTransaksi(t *testing.T) {
	svc, repo, _, ledger, _ := newTestService()
	att := seedAttendance(t, repo, uuid.New(), m.StatusPendingVerification)

	_, err := svc.Verify(context.Background(), att.MealAttendanceID, uuid.New(), m.StatusHabis)
	require.NoError(t, err)
	assert.True(t, repo.saveInTx)
	assert.True(t, ledger.awardInTx)
}

func TestVerify_PendingBukanTarget(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	att := seedAttendance(t, repo, uuid.New(), m.StatusSisaBanyak)

	_, err := svc.Verify(context.Background(), att.MealAttendanceID, uuid.New(), m.StatusPendingVerification)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestVerify_TidakDitemukan(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	_, err := svc.Verify(context.Background(), uuid.New(), uuid.New(), m.StatusHabis)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

/* =========================================================
 * REASON
 * ========================================================= */

func TestSubmitReason_PotongPoin(t *testing.T) {
	svc, repo, reasons, ledger, _ := newTestService()
	ctx := context.Background()
	siswa := uuid.New()
	att := seedAttendance(t, repo, siswa, m.StatusSisaBanyak)

	out, err := svc.SubmitReason(ctx, att.MealAttendanceID, siswa, m.ReasonPorsiBanyak, nil)
	require.NoError(t, err)
	assert.Equal(t, m.ReasonPorsiBanyak, out.FoodWasteReasonType)
	assert.Nil(t, out.FoodWasteReasonText)
	assert.Len(t, reasons.byAttendance, 1)

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, -5, ledger.entries[0].Points)
	assert.Equal(t, pointModel.SourceMealTidakHabis, ledger.entries[0].Type)
}

func TestSubmitReason_KesehatanNolPoinTetapTercatat(t *testing.T) {
	svc, repo, _, ledger, _ := newTestService()
	siswa := uuid.New()
	att := seedAttendance(t, repo, siswa, m.StatusSisaSedikit)

	_, err := svc.SubmitReason(context.Background(), att.MealAttendanceID, siswa, m.ReasonKondisiKesehatan, nil)
	require.NoError(t, err)

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, 0, ledger.entries[0].Points)
}

func TestSubmitReason_BukanPemilik(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	att := seedAttendance(t, repo, uuid.New(), m.StatusSisaBanyak)

	_, err := svc.SubmitReason(context.Background(), att.MealAttendanceID, uuid.New(), m.ReasonPorsiBanyak, nil)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)
}

func TestSubmitReason_StatusTidakBolehAlasan(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	siswa := uuid.New()

	for _, status := range []m.AttendanceStatus{m.StatusHabis, m.StatusPendingVerification} {
		att := seedAttendance(t, repo, siswa, status)
		_, err := svc.SubmitReason(context.Background(), att.MealAttendanceID, siswa, m.ReasonPorsiBanyak, nil)
		var fe *fiber.Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, fiber.StatusBadRequest, fe.Code, "status %s", status)
	}
}

func TestSubmitReason_LainnyaWajibTeks(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	siswa := uuid.New()
	att := seedAttendance(t, repo, siswa, m.StatusSisaBanyak)

	_, err := svc.SubmitReason(context.Background(), att.MealAttendanceID, siswa, m.ReasonLainnya, nil)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)

	_, err = svc.SubmitReason(context.Background(), att.MealAttendanceID, siswa, m.ReasonLainnya, strPtr("   "))
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestSubmitReason_TeksNonLainnyaDiabaikan(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	siswa := uuid.New()
	att := seedAttendance(t, repo, siswa, m.StatusSisaBanyak)

	out, err := svc.SubmitReason(context.Background(), att.MealAttendanceID, siswa, m.ReasonPorsiBanyak, strPtr("porsinya kebanyakan"))
	require.NoError(t, err)
	assert.Nil(t, out.FoodWasteReasonText)
}

func TestSubmitReason_KataKasarDitolak(t *testing.T) {
	svc, repo, _, ledger, _ := newTestService()
	svc.Profanity = profanity.NewFilter([]string{"jelek"})
	siswa := uuid.New()
	att := seedAttendance(t, repo, siswa, m.StatusSisaBanyak)

	_, err := svc.SubmitReason(context.Background(), att.MealAttendanceID, siswa, m.ReasonLainnya, strPtr("masakannya jelek banget"))
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Empty(t, ledger.entries)
}

func TestSubmitReason_Duplikat(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	siswa := uuid.New()
	att := seedAttendance(t, repo, siswa, m.StatusSisaBanyak)

	_, err := svc.SubmitReason(context.Background(), att.MealAttendanceID, siswa, m.ReasonPorsiBanyak, nil)
	require.NoError(t, err)

	_, err = svc.SubmitReason(context.Background(), att.MealAttendanceID, siswa, m.ReasonMenuTidakDisukai, nil)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
}

/* =========================================================
 * DETAIL
 * ========================================================= */

func TestDetail_AksesSiswaDanVerifikator(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	siswa := uuid.New()
	att := seedAttendance(t, repo, siswa, m.StatusSisaBanyak)

	_, err := svc.Detail(context.Background(), att.MealAttendanceID, siswa, false)
	assert.NoError(t, err)

	_, err = svc.Detail(context.Background(), att.MealAttendanceID, uuid.New(), true)
	assert.NoError(t, err)

	_, err = svc.Detail(context.Background(), att.MealAttendanceID, uuid.New(), false)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)
}
