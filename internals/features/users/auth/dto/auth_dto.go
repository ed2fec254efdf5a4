package dto

import (
	"time"

	"github.com/google/uuid"

	m "mbgku_backend/internals/features/users/user/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Nama     string  `json:"nama" validate:"required,min=2,max=255"`
	Role     string  `json:"role" validate:"required,oneof=siswa guru admin sppg"`
	Kelas    *string `json:"kelas" validate:"omitempty,max=50"`
	NIS      *string `json:"nis" validate:"omitempty,numeric,min=8,max=12"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

type UserResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Nama      string    `json:"nama"`
	Role      string    `json:"role"`
	Kelas     *string   `json:"kelas,omitempty"`
	NIS       *string   `json:"nis,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair = access token 24 jam + refresh token 7 hari.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

func NewUserResponse(u m.UserModel) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Email:     u.UserEmail,
		Nama:      u.UserNama,
		Role:      u.UserRole,
		Kelas:     u.UserKelas,
		NIS:       u.UserNIS,
		CreatedAt: u.UserCreatedAt,
	}
}
