// file: internals/features/meals/attendance/controller/attendance_controller.go
package controller

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mbgku_backend/internals/constants"
	database "mbgku_backend/internals/databases"
	"mbgku_backend/internals/features/meals/attendance/dto"
	"mbgku_backend/internals/features/meals/attendance/repository"
	"mbgku_backend/internals/features/meals/attendance/service"
	pointsRepo "mbgku_backend/internals/features/meals/points/repository"
	pointsService "mbgku_backend/internals/features/meals/points/service"
	helper "mbgku_backend/internals/helpers"
)

type AttendanceController struct {
	DB       *gorm.DB
	Service  *service.AttendanceService
	validate *validator.Validate
}

func NewAttendanceController(db *gorm.DB, storage service.Storage) *AttendanceController {
	ledger := pointsService.New(pointsRepo.NewGormPointsRepo(db))
	svc := service.NewAttendanceService(
		repository.NewGormAttendanceRepo(db),
		repository.NewGormReasonRepo(db),
		storage,
		ledger,
		database.NewTransactor(db),
	)
	return &AttendanceController{DB: db, Service: svc, validate: validator.New()}
}

/* ===================== SUBMIT ===================== */
// POST /api/u/meal-attendance  (multipart: foto, menu_id?, tanggal?)
func (ctrl *AttendanceController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	fh, err := c.FormFile("foto")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Foto wajib diunggah (field: foto)")
	}
	if fh.Size > constants.MaxUploadSize {
		return helper.Error(c, fiber.StatusBadRequest,
			fmt.Sprintf("Ukuran foto maksimal %d MB", constants.MaxUploadSize/(1024*1024)))
	}

	f, err := fh.Open()
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Gagal membaca file")
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Gagal membaca file")
	}

	// Sniff konten, jangan percaya header/extension dari klien.
	head := raw
	if len(head) > 512 {
		head = head[:512]
	}
	if !constants.IsAllowedImageMime(http.DetectContentType(head)) {
		return helper.Error(c, fiber.StatusBadRequest, "Format foto harus JPEG, PNG, atau WebP")
	}

	var req dto.SubmitAttendanceRequest
	if v := c.FormValue("menu_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "menu_id tidak valid")
		}
		req.MenuID = &id
	}
	if v := c.FormValue("tanggal"); v != "" {
		req.Tanggal = &v
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	tanggal := time.Now()
	if req.Tanggal != nil {
		t, err := time.Parse("2006-01-02", *req.Tanggal)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
		}
		tanggal = t
	}

	res, err := ctrl.Service.Submit(c.UserContext(), userID, tanggal, raw, req.MenuID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	msg := "Absen makan tercatat"
	if res.NeedsVerification {
		msg = "Absen tercatat, menunggu verifikasi guru"
	}
	payload := fiber.Map{
		"attendance":         dto.NewAttendanceResponse(res.Attendance),
		"needs_verification": res.NeedsVerification,
	}
	if !res.Redacted {
		payload["warning"] = "Foto tidak dapat diproses untuk redaksi privasi, tersimpan apa adanya"
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, msg, payload)
}

/* ===================== VERIFY ===================== */
// PATCH /api/a/meal-attendance/:id/verify
func (ctrl *AttendanceController) Verify(c *fiber.Ctx) error {
	verifierID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	attendanceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID absen tidak valid")
	}

	var req dto.VerifyAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	att, err := ctrl.Service.Verify(c.UserContext(), attendanceID, verifierID, req.Status)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Verifikasi tersimpan", dto.NewAttendanceResponse(att))
}

/* ===================== REASON ===================== */
// POST /api/u/meal-attendance/:id/reason
func (ctrl *AttendanceController) SubmitReason(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	attendanceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID absen tidak valid")
	}

	var req dto.SubmitReasonRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	reason, err := ctrl.Service.SubmitReason(c.UserContext(), attendanceID, userID, req.ReasonType, req.ReasonText)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Alasan tersimpan", dto.NewReasonResponse(reason))
}

/* ===================== READS ===================== */
// GET /api/u/meal-attendance?start_date=&end_date=&limit=
func (ctrl *AttendanceController) MyAttendance(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var from, to *time.Time
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "start_date harus YYYY-MM-DD")
		}
		from = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "end_date harus YYYY-MM-DD")
		}
		to = &t
	}
	limit := helper.ResolveLimit(c, 30, 100)

	rows, err := ctrl.Service.MyAttendance(c.UserContext(), userID, from, to, limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", fiber.Map{
		"attendance": dto.NewAttendanceResponses(rows),
		"total":      len(rows),
	})
}

// GET /api/u/meal-attendance/:id
func (ctrl *AttendanceController) Detail(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	attendanceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID absen tidak valid")
	}

	isVerifier := helper.HasRole(c, constants.VerifierRoles...)

	det, err := ctrl.Service.Detail(c.UserContext(), attendanceID, userID, isVerifier)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	resp := dto.AttendanceDetailResponse{
		AttendanceResponse: dto.NewAttendanceResponse(det.Attendance),
		Reason:             dto.NewReasonResponse(det.Reason),
	}
	return helper.Success(c, "OK", resp)
}

/* ===================== QUEUE ===================== */
// GET /api/a/meal-attendance/pending?limit=
func (ctrl *AttendanceController) PendingQueue(c *fiber.Ctx) error {
	limit := helper.ResolveLimit(c, 50, 200)

	rows, err := ctrl.Service.PendingQueue(c.UserContext(), limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", fiber.Map{
		"pending": dto.NewAttendanceResponses(rows),
		"total":   len(rows),
	})
}
