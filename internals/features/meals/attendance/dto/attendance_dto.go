package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	m "mbgku_backend/internals/features/meals/attendance/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// SubmitAttendanceRequest: field non-file dari form multipart.
// Foto diambil langsung dari form file "foto" oleh controller.
type SubmitAttendanceRequest struct {
	MenuID  *uuid.UUID `form:"menu_id" json:"menu_id" validate:"omitempty"`
	Tanggal *string    `form:"tanggal" json:"tanggal" validate:"omitempty,datetime=2006-01-02"`
}

type VerifyAttendanceRequest struct {
	Status m.AttendanceStatus `json:"status" validate:"required,oneof=HABIS SISA_SEDIKIT SISA_BANYAK"`
}

type SubmitReasonRequest struct {
	ReasonType m.ReasonType `json:"reason_type" validate:"required,oneof=PORSI_BANYAK RASA_TIDAK_COCOK MENU_TIDAK_DISUKAI KONDISI_KESEHATAN LAINNYA"`
	ReasonText *string      `json:"reason_text" validate:"omitempty,max=500"`
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

type AttendanceResponse struct {
	MealAttendanceID uuid.UUID  `json:"meal_attendance_id"`
	UserID           uuid.UUID  `json:"user_id"`
	MenuID           *uuid.UUID `json:"menu_id,omitempty"`

	FotoURL          string  `json:"foto_url"`
	FotoThumbnailURL *string `json:"foto_thumbnail_url,omitempty"`

	Status     m.AttendanceStatus `json:"status"`
	Confidence *float64           `json:"confidence,omitempty"`

	VerifiedBy *uuid.UUID `json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	Tanggal   string    `json:"tanggal"`
	CreatedAt time.Time `json:"created_at"`
}

type ReasonResponse struct {
	FoodWasteReasonID uuid.UUID    `json:"food_waste_reason_id"`
	AttendanceID      uuid.UUID    `json:"attendance_id"`
	ReasonType        m.ReasonType `json:"reason_type"`
	ReasonText        *string      `json:"reason_text,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
}

type AttendanceDetailResponse struct {
	AttendanceResponse
	Reason *ReasonResponse `json:"reason,omitempty"`
}

func formatTanggal(d datatypes.Date) string {
	return time.Time(d).Format("2006-01-02")
}

func NewAttendanceResponse(a *m.MealAttendanceModel) AttendanceResponse {
	return AttendanceResponse{
		MealAttendanceID: a.MealAttendanceID,
		UserID:           a.MealAttendanceUserID,
		MenuID:           a.MealAttendanceMenuID,
		FotoURL:          a.MealAttendanceFotoURL,
		FotoThumbnailURL: a.MealAttendanceFotoThumbnailURL,
		Status:           a.MealAttendanceStatus,
		Confidence:       a.MealAttendanceConfidence,
		VerifiedBy:       a.MealAttendanceVerifiedBy,
		VerifiedAt:       a.MealAttendanceVerifiedAt,
		Tanggal:          formatTanggal(a.MealAttendanceTanggal),
		CreatedAt:        a.MealAttendanceCreatedAt,
	}
}

func NewAttendanceResponses(rows []m.MealAttendanceModel) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewAttendanceResponse(&rows[i]))
	}
	return out
}

func NewReasonResponse(r *m.FoodWasteReasonModel) *ReasonResponse {
	if r == nil {
		return nil
	}
	return &ReasonResponse{
		FoodWasteReasonID: r.FoodWasteReasonID,
		AttendanceID:      r.FoodWasteReasonAttendanceID,
		ReasonType:        r.FoodWasteReasonType,
		ReasonText:        r.FoodWasteReasonText,
		CreatedAt:         r.FoodWasteReasonCreatedAt,
	}
}
