// file: internals/features/meals/waste/controller/waste_controller.go
package controller

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mbgku_backend/internals/constants"
	database "mbgku_backend/internals/databases"
	attendanceService "mbgku_backend/internals/features/meals/attendance/service"
	"mbgku_backend/internals/features/meals/waste/dto"
	"mbgku_backend/internals/features/meals/waste/model"
	"mbgku_backend/internals/features/meals/waste/repository"
	"mbgku_backend/internals/features/meals/waste/service"
	pointsRepo "mbgku_backend/internals/features/meals/points/repository"
	pointsService "mbgku_backend/internals/features/meals/points/service"
	helper "mbgku_backend/internals/helpers"
)

type WasteController struct {
	DB       *gorm.DB
	Service  *service.WasteService
	validate *validator.Validate
}

func NewWasteController(db *gorm.DB, storage attendanceService.Storage, suggestion *service.SuggestionService) *WasteController {
	ledger := pointsService.New(pointsRepo.NewGormPointsRepo(db))
	svc := service.NewWasteService(repository.NewGormWasteRepo(db), storage, ledger, suggestion, database.NewTransactor(db))
	return &WasteController{DB: db, Service: svc, validate: validator.New()}
}

/* ===================== SUBMIT ===================== */
// POST /api/u/waste-utilization  (multipart: foto, jenis, deskripsi?)
func (ctrl *WasteController) Submit(c *fiber.Ctx) error {
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

	head := raw
	if len(head) > 512 {
		head = head[:512]
	}
	if !constants.IsAllowedImageMime(http.DetectContentType(head)) {
		return helper.Error(c, fiber.StatusBadRequest, "Format foto harus JPEG, PNG, atau WebP")
	}

	req := dto.SubmitWasteRequest{Jenis: model.WasteCategory(c.FormValue("jenis"))}
	if v := c.FormValue("deskripsi"); v != "" {
		req.Deskripsi = &v
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctrl.Service.Submit(c.UserContext(), userID, raw, req.Jenis, req.Deskripsi)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Pengajuan tersimpan, menunggu verifikasi", fiber.Map{
		"waste":      dto.NewWasteResponse(res.Waste),
		"suggestion": res.Suggestion,
	})
}

/* ===================== VERIFY ===================== */
// PATCH /api/a/waste-utilization/:id/verify
func (ctrl *WasteController) Verify(c *fiber.Ctx) error {
	verifierID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	wasteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pengajuan tidak valid")
	}

	var req dto.VerifyWasteRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	w, err := ctrl.Service.Verify(c.UserContext(), wasteID, verifierID, req.Status, req.Points)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Verifikasi tersimpan", dto.NewWasteResponse(w))
}

/* ===================== READS ===================== */
// GET /api/u/waste-utilization?status=&limit=
func (ctrl *WasteController) Mine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	limit := helper.ResolveLimit(c, 30, 100)

	var status *model.WasteStatus
	if v := c.Query("status"); v != "" {
		s := model.WasteStatus(v)
		status = &s
	}

	rows, err := ctrl.Service.Mine(c.UserContext(), userID, status, limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", fiber.Map{
		"waste": dto.NewWasteResponses(rows),
		"total": len(rows),
	})
}

// GET /api/u/waste-utilization/:id
func (ctrl *WasteController) Detail(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	wasteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pengajuan tidak valid")
	}

	isVerifier := helper.HasRole(c, constants.VerifierRoles...)

	w, err := ctrl.Service.Detail(c.UserContext(), wasteID, userID, isVerifier)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", dto.NewWasteResponse(w))
}

/* ===================== QUEUE ===================== */
// GET /api/a/waste-utilization/pending?limit=
func (ctrl *WasteController) PendingQueue(c *fiber.Ctx) error {
	limit := helper.ResolveLimit(c, 50, 200)

	rows, err := ctrl.Service.PendingQueue(c.UserContext(), limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", fiber.Map{
		"pending": dto.NewWasteResponses(rows),
		"total":   len(rows),
	})
}
