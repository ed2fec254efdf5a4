package dto

import (
	"time"

	"github.com/google/uuid"

	m "mbgku_backend/internals/features/meals/waste/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// SubmitWasteRequest: field non-file dari form multipart.
type SubmitWasteRequest struct {
	Jenis     m.WasteCategory `form:"jenis" json:"jenis" validate:"required,oneof=KOMPOS ECO_ENZYME PAKAN_TERNAK MEDIA_TANAM PRAKARYA"`
	Deskripsi *string         `form:"deskripsi" json:"deskripsi" validate:"omitempty,max=1000"`
}

type VerifyWasteRequest struct {
	Status m.WasteStatus `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	// Hanya dipakai saat APPROVED; nil atau 0 jatuh ke default 15,
	// maksimum 50.
	Points *int `json:"points" validate:"omitempty,min=0,max=50"`
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

type WasteResponse struct {
	WasteUtilizationID uuid.UUID `json:"waste_utilization_id"`
	UserID             uuid.UUID `json:"user_id"`

	FotoURL   string          `json:"foto_url"`
	Jenis     m.WasteCategory `json:"jenis"`
	Deskripsi *string         `json:"deskripsi,omitempty"`

	Status        m.WasteStatus `json:"status"`
	PointsAwarded int           `json:"points_awarded"`

	VerifiedBy *uuid.UUID `json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func NewWasteResponse(w *m.WasteUtilizationModel) WasteResponse {
	return WasteResponse{
		WasteUtilizationID: w.WasteUtilizationID,
		UserID:             w.WasteUtilizationUserID,
		FotoURL:            w.WasteUtilizationFotoURL,
		Jenis:              w.WasteUtilizationJenis,
		Deskripsi:          w.WasteUtilizationDeskripsi,
		Status:             w.WasteUtilizationStatus,
		PointsAwarded:      w.WasteUtilizationPointsAwarded,
		VerifiedBy:         w.WasteUtilizationVerifiedBy,
		VerifiedAt:         w.WasteUtilizationVerifiedAt,
		CreatedAt:          w.WasteUtilizationCreatedAt,
	}
}

func NewWasteResponses(rows []m.WasteUtilizationModel) []WasteResponse {
	out := make([]WasteResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewWasteResponse(&rows[i]))
	}
	return out
}
