package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mbgku_backend/internals/configs"
	attendanceModel "mbgku_backend/internals/features/meals/attendance/model"
	pointsModel "mbgku_backend/internals/features/meals/points/model"
	wasteModel "mbgku_backend/internals/features/meals/waste/model"
	menuModel "mbgku_backend/internals/features/school/menus/model"
	userModel "mbgku_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	// ✅ DSN lengkap + statement_timeout.
	// Kalau pakai PgBouncer, arahkan host/port ke PgBouncer dan biarkan PreferSimpleProtocol=true.
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=mbgku&options=-c statement_timeout=5000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// MigrateDB membuat skema + index yang tidak bisa dititipkan di tag gorm.
// Index unik parsial di tabel points adalah penjaga idempotensi ledger:
// satu entri per (attendance, type) dan per (waste_utilization, type).
func MigrateDB() {
	if err := DB.AutoMigrate(
		&userModel.UserModel{},
		&menuModel.MenuModel{},
		&attendanceModel.MealAttendanceModel{},
		&attendanceModel.FoodWasteReasonModel{},
		&wasteModel.WasteUtilizationModel{},
		&pointsModel.PointModel{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate gagal: %v", err)
	}

	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_points_attendance_type
			ON points (point_attendance_id, point_type)
			WHERE point_attendance_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_points_waste_type
			ON points (point_waste_utilization_id, point_type)
			WHERE point_waste_utilization_id IS NOT NULL`,
	}
	for _, s := range stmts {
		if err := DB.Exec(s).Error; err != nil {
			log.Fatalf("❌ Migrasi index gagal: %v", err)
		}
	}
	log.Println("✅ Migrasi selesai.")
}

func WarmUpQueries() {
	// jalankan ringan supaya koneksi/pool “keisi” & siap
	go func() {
		time.Sleep(500 * time.Millisecond) // beri waktu server naik
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
