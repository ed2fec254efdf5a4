// file: internals/features/school/dashboard/controller/dashboard_controller.go
package controller

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceModel "mbgku_backend/internals/features/meals/attendance/model"
	helper "mbgku_backend/internals/helpers"
)

// Agregasi read-only untuk guru/admin/sppg, query langsung ke gorm.
type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// resolveRange: default 30 hari terakhir kalau query kosong.
func resolveRange(c *fiber.Ctx) (start, end string, err error) {
	start = c.Query("start_date")
	end = c.Query("end_date")
	if start == "" || end == "" {
		now := time.Now()
		return now.AddDate(0, 0, -30).Format("2006-01-02"), now.Format("2006-01-02"), nil
	}
	if _, perr := time.Parse("2006-01-02", start); perr != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "start_date harus YYYY-MM-DD")
	}
	if _, perr := time.Parse("2006-01-02", end); perr != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "end_date harus YYYY-MM-DD")
	}
	return start, end, nil
}

type menuStatRow struct {
	MenuID   *uuid.UUID `json:"menu_id"`
	MenuNama *string    `json:"menu_nama"`
	Count    int64      `json:"count"`
}

type dailyStatRow struct {
	Tanggal time.Time `json:"-"`
	Total   int64     `json:"total"`
	Habis   int64     `json:"habis"`
	Sisa    int64     `json:"sisa"`
}

type reasonStatRow struct {
	ReasonType string `json:"reason_type"`
	Count      int64  `json:"count"`
}

/* ===================== SCHOOL ===================== */
// GET /api/s/dashboard/school?start_date=&end_date=
func (ctrl *DashboardController) School(c *fiber.Ctx) error {
	start, end, err := resolveRange(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	db := ctrl.DB.WithContext(ctx)

	var total, habis, sisa, pending int64
	base := func() *gorm.DB {
		return db.Model(&attendanceModel.MealAttendanceModel{}).
			Where("meal_attendance_tanggal BETWEEN ? AND ?", start, end)
	}
	if err := base().Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghitung statistik")
	}
	if err := base().Where("meal_attendance_status = ?", attendanceModel.StatusHabis).Count(&habis).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghitung statistik")
	}
	if err := base().Where("meal_attendance_status IN ?", []attendanceModel.AttendanceStatus{attendanceModel.StatusSisaSedikit, attendanceModel.StatusSisaBanyak}).Count(&sisa).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghitung statistik")
	}
	if err := base().Where("meal_attendance_status = ?", attendanceModel.StatusPendingVerification).Count(&pending).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghitung statistik")
	}

	// Menu paling banyak bersisa (top 5)
	var menuStats []menuStatRow
	if err := db.Raw(`
		SELECT ma.meal_attendance_menu_id AS menu_id,
		       m.menu_nama               AS menu_nama,
		       COUNT(*)                  AS count
		FROM meal_attendance ma
		LEFT JOIN menus m ON m.menu_id = ma.meal_attendance_menu_id
		WHERE ma.meal_attendance_tanggal BETWEEN ? AND ?
		  AND ma.meal_attendance_status IN ('SISA_SEDIKIT','SISA_BANYAK')
		GROUP BY ma.meal_attendance_menu_id, m.menu_nama
		ORDER BY count DESC
		LIMIT 5`, start, end).Scan(&menuStats).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil statistik menu")
	}

	// Tren harian
	var daily []dailyStatRow
	if err := db.Raw(`
		SELECT meal_attendance_tanggal AS tanggal,
		       COUNT(*) AS total,
		       SUM(CASE WHEN meal_attendance_status = 'HABIS' THEN 1 ELSE 0 END) AS habis,
		       SUM(CASE WHEN meal_attendance_status IN ('SISA_SEDIKIT','SISA_BANYAK') THEN 1 ELSE 0 END) AS sisa
		FROM meal_attendance
		WHERE meal_attendance_tanggal BETWEEN ? AND ?
		GROUP BY meal_attendance_tanggal
		ORDER BY meal_attendance_tanggal ASC`, start, end).Scan(&daily).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil statistik harian")
	}
	dailyOut := make([]fiber.Map, 0, len(daily))
	for _, d := range daily {
		dailyOut = append(dailyOut, fiber.Map{
			"tanggal": d.Tanggal.Format("2006-01-02"),
			"total":   d.Total,
			"habis":   d.Habis,
			"sisa":    d.Sisa,
		})
	}

	// Sebaran alasan
	var reasons []reasonStatRow
	if err := db.Raw(`
		SELECT r.food_waste_reason_type AS reason_type,
		       COUNT(*)                 AS count
		FROM food_waste_reasons r
		JOIN meal_attendance ma ON ma.meal_attendance_id = r.food_waste_reason_attendance_id
		WHERE ma.meal_attendance_tanggal BETWEEN ? AND ?
		GROUP BY r.food_waste_reason_type
		ORDER BY count DESC`, start, end).Scan(&reasons).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil statistik alasan")
	}

	habisPct, sisaPct := 0.0, 0.0
	if total > 0 {
		habisPct = float64(habis) / float64(total) * 100
		sisaPct = float64(sisa) / float64(total) * 100
	}

	return helper.Success(c, "OK", fiber.Map{
		"stats": fiber.Map{
			"total_attendance": total,
			"habis_count":      habis,
			"sisa_count":       sisa,
			"pending_count":    pending,
			"habis_percentage": habisPct,
			"sisa_percentage":  sisaPct,
		},
		"menu_stats":   menuStats,
		"daily_stats":  dailyOut,
		"reason_stats": reasons,
	})
}

/* ===================== SPPG ===================== */

type menuEvalRow struct {
	MenuID   *uuid.UUID `json:"menu_id"`
	MenuNama *string    `json:"menu_nama"`
	Total    int64      `json:"total"`
	Habis    int64      `json:"habis"`
	Sisa     int64      `json:"sisa"`
}

// GET /api/s/dashboard/sppg?start_date=&end_date=
// Evaluasi menu untuk penyedia makanan: menu mana yang paling bersisa.
func (ctrl *DashboardController) SPPG(c *fiber.Ctx) error {
	start, end, err := resolveRange(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	db := ctrl.DB.WithContext(c.UserContext())

	var rows []menuEvalRow
	if err := db.Raw(`
		SELECT ma.meal_attendance_menu_id AS menu_id,
		       m.menu_nama               AS menu_nama,
		       COUNT(*)                  AS total,
		       SUM(CASE WHEN ma.meal_attendance_status = 'HABIS' THEN 1 ELSE 0 END) AS habis,
		       SUM(CASE WHEN ma.meal_attendance_status IN ('SISA_SEDIKIT','SISA_BANYAK') THEN 1 ELSE 0 END) AS sisa
		FROM meal_attendance ma
		LEFT JOIN menus m ON m.menu_id = ma.meal_attendance_menu_id
		WHERE ma.meal_attendance_tanggal BETWEEN ? AND ?
		GROUP BY ma.meal_attendance_menu_id, m.menu_nama
		ORDER BY sisa DESC`, start, end).Scan(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil evaluasi menu")
	}

	evaluation := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		pct := 0.0
		if r.Total > 0 {
			pct = float64(r.Sisa) / float64(r.Total) * 100
		}
		evaluation = append(evaluation, fiber.Map{
			"menu_id":          r.MenuID,
			"menu_nama":        r.MenuNama,
			"total":            r.Total,
			"habis":            r.Habis,
			"sisa":             r.Sisa,
			"waste_percentage": pct,
		})
	}

	var reasons []reasonStatRow
	if err := db.Raw(`
		SELECT r.food_waste_reason_type AS reason_type,
		       COUNT(*)                 AS count
		FROM food_waste_reasons r
		JOIN meal_attendance ma ON ma.meal_attendance_id = r.food_waste_reason_attendance_id
		WHERE ma.meal_attendance_tanggal BETWEEN ? AND ?
		GROUP BY r.food_waste_reason_type
		ORDER BY count DESC`, start, end).Scan(&reasons).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil analisis alasan")
	}

	return helper.Success(c, "OK", fiber.Map{
		"menu_evaluation": evaluation,
		"reason_analysis": reasons,
	})
}

/* ===================== EXPORT ===================== */

type exportRow struct {
	Tanggal    time.Time
	Nama       string
	Kelas      *string
	NIS        *string
	MenuNama   *string
	Status     string
	Confidence *float64
}

// GET /api/s/dashboard/export?start_date=&end_date=
// Unduhan CSV untuk rekap manual sekolah.
func (ctrl *DashboardController) ExportCSV(c *fiber.Ctx) error {
	start, end, err := resolveRange(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	db := ctrl.DB.WithContext(c.UserContext())

	var rows []exportRow
	if err := db.Raw(`
		SELECT ma.meal_attendance_tanggal    AS tanggal,
		       u.user_nama                   AS nama,
		       u.user_kelas                  AS kelas,
		       u.user_nis                    AS nis,
		       m.menu_nama                   AS menu_nama,
		       ma.meal_attendance_status     AS status,
		       ma.meal_attendance_confidence AS confidence
		FROM meal_attendance ma
		JOIN users u ON u.user_id = ma.meal_attendance_user_id
		LEFT JOIN menus m ON m.menu_id = ma.meal_attendance_menu_id
		WHERE ma.meal_attendance_tanggal BETWEEN ? AND ?
		ORDER BY ma.meal_attendance_tanggal DESC`, start, end).Scan(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data ekspor")
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write([]string{"Tanggal", "Nama", "Kelas", "NIS", "Menu", "Status", "Confidence"})
	for _, r := range rows {
		kelas, nis, menu := "", "", ""
		if r.Kelas != nil {
			kelas = *r.Kelas
		}
		if r.NIS != nil {
			nis = *r.NIS
		}
		if r.MenuNama != nil {
			menu = *r.MenuNama
		}
		conf := "0"
		if r.Confidence != nil {
			conf = fmt.Sprintf("%.2f", *r.Confidence)
		}
		_ = w.Write([]string{r.Tanggal.Format("2006-01-02"), r.Nama, kelas, nis, menu, r.Status, conf})
	}
	w.Flush()

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=mbgku-export-%s.csv`, time.Now().Format("20060102-150405")))
	return c.SendString(sb.String())
}
