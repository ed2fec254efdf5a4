// file: internals/features/meals/points/controller/points_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mbgku_backend/internals/features/meals/points/dto"
	"mbgku_backend/internals/features/meals/points/repository"
	"mbgku_backend/internals/features/meals/points/service"
	helper "mbgku_backend/internals/helpers"
)

type PointsController struct {
	Service *service.PointsService
}

func NewPointsController(db *gorm.DB) *PointsController {
	return &PointsController{Service: service.New(repository.NewGormPointsRepo(db))}
}

/* ===================== TOTAL ===================== */
// GET /api/u/points
func (ctrl *PointsController) GetMyPoints(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	total, err := ctrl.Service.TotalFor(c.UserContext(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "OK", dto.TotalResponse{UserID: userID, TotalPoints: total})
}

/* ===================== HISTORY ===================== */
// GET /api/u/points/history?page=&per_page=
func (ctrl *PointsController) GetHistory(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 50, 200)

	rows, total, err := ctrl.Service.HistoryFor(c.UserContext(), userID, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "OK", fiber.Map{
		"history":    dto.NewPointEntryResponses(rows),
		"pagination": helper.BuildPaginationFromOffset(total, p.Offset, p.Limit),
	})
}

/* ===================== BREAKDOWN ===================== */
// GET /api/u/points/breakdown
func (ctrl *PointsController) GetBreakdown(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	b, err := ctrl.Service.BreakdownFor(c.UserContext(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "OK", b)
}

/* ===================== LEADERBOARD ===================== */
// GET /api/u/points/leaderboard?limit=
func (ctrl *PointsController) GetLeaderboard(c *fiber.Ctx) error {
	limit := helper.ResolveLimit(c, 10, 100)

	rows, err := ctrl.Service.Leaderboard(c.UserContext(), limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "OK", fiber.Map{
		"leaderboard": dto.NewLeaderboardResponses(rows),
	})
}
