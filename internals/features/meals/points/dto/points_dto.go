package dto

import (
	"time"

	"github.com/google/uuid"

	m "mbgku_backend/internals/features/meals/points/model"
	"mbgku_backend/internals/features/meals/points/service"
)

/* =========================================================
 * RESPONSES
 * ========================================================= */

type PointEntryResponse struct {
	PointID     uuid.UUID         `json:"point_id"`
	Points      int               `json:"points"`
	Type        m.PointSourceType `json:"type"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
}

type TotalResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	TotalPoints int64     `json:"total_points"`
}

type LeaderboardEntryResponse struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"user_id"`
	Nama        string    `json:"nama"`
	Kelas       *string   `json:"kelas,omitempty"`
	TotalPoints int64     `json:"total_points"`
}

func NewPointEntryResponse(e m.PointModel) PointEntryResponse {
	return PointEntryResponse{
		PointID:     e.PointID,
		Points:      e.PointPoints,
		Type:        e.PointType,
		Description: e.PointDescription,
		CreatedAt:   e.PointCreatedAt,
	}
}

func NewPointEntryResponses(rows []m.PointModel) []PointEntryResponse {
	out := make([]PointEntryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewPointEntryResponse(r))
	}
	return out
}

func NewLeaderboardResponses(rows []service.LeaderboardRow) []LeaderboardEntryResponse {
	out := make([]LeaderboardEntryResponse, 0, len(rows))
	for i, r := range rows {
		out = append(out, LeaderboardEntryResponse{
			Rank:        i + 1,
			UserID:      r.UserID,
			Nama:        r.Nama,
			Kelas:       r.Kelas,
			TotalPoints: r.TotalPoints,
		})
	}
	return out
}
