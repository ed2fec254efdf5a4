package model

import (
	"time"

	"github.com/google/uuid"
)

type UserModel struct {
	UserID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:user_id" json:"user_id"`

	UserEmail        string `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email;column:user_email" json:"user_email"`
	UserPasswordHash string `gorm:"type:varchar(255);not null;column:user_password_hash" json:"-"`

	// role ∈ {siswa, guru, admin, sppg}
	UserRole string `gorm:"type:varchar(20);not null;index:idx_users_role;column:user_role" json:"user_role"`

	UserNama  string  `gorm:"type:varchar(255);not null;column:user_nama" json:"user_nama"`
	UserKelas *string `gorm:"type:varchar(50);column:user_kelas" json:"user_kelas,omitempty"`
	UserNIS   *string `gorm:"type:varchar(12);uniqueIndex:uq_users_nis;column:user_nis" json:"user_nis,omitempty"`

	UserCreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string { return "users" }
