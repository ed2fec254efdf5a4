// file: internals/features/users/auth/service/auth_service.go
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mbgku_backend/internals/configs"
	"mbgku_backend/internals/features/users/auth/dto"
	m "mbgku_backend/internals/features/users/user/model"
	helper "mbgku_backend/internals/helpers"
)

const (
	tokenTTL   = 24 * time.Hour
	refreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *AuthService { return &AuthService{DB: db} }

// ValidatePasswordPolicy: 8-128 karakter, ada huruf besar, kecil, dan angka.
func ValidatePasswordPolicy(pw string) error {
	if len(pw) < 8 || len(pw) > 128 {
		return fiber.NewError(fiber.StatusBadRequest, "Password harus 8-128 karakter")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper {
		return fiber.NewError(fiber.StatusBadRequest, "Password harus mengandung huruf kapital")
	}
	if !hasLower {
		return fiber.NewError(fiber.StatusBadRequest, "Password harus mengandung huruf kecil")
	}
	if !hasDigit {
		return fiber.NewError(fiber.StatusBadRequest, "Password harus mengandung angka")
	}
	return nil
}

func (s *AuthService) Register(req dto.RegisterRequest) (*m.UserModel, error) {
	if err := ValidatePasswordPolicy(req.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memproses password")
	}

	u := m.UserModel{
		UserEmail:        strings.ToLower(strings.TrimSpace(req.Email)),
		UserPasswordHash: string(hash),
		UserRole:         req.Role,
		UserNama:         strings.TrimSpace(req.Nama),
		UserKelas:        req.Kelas,
		UserNIS:          req.NIS,
	}
	if err := s.DB.Create(&u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, fiber.NewError(fiber.StatusConflict, "Email atau NIS sudah terdaftar")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat akun")
	}
	return &u, nil
}

func (s *AuthService) Login(req dto.LoginRequest) (*dto.TokenPair, *m.UserModel, error) {
	var u m.UserModel
	err := s.DB.Where("user_email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
		}
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if bcrypt.CompareHashAndPassword([]byte(u.UserPasswordHash), []byte(req.Password)) != nil {
		return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
	}

	pair, err := s.issueTokenPair(&u)
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat token")
	}
	return pair, &u, nil
}

// Refresh menukar refresh token yang masih berlaku dengan pasangan token
// baru (rotasi: refresh lama tidak dipakai ulang oleh klien).
func (s *AuthService) Refresh(refreshToken string) (*dto.TokenPair, *m.UserModel, error) {
	userID, err := ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.FindByID(userID)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.issueTokenPair(u)
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat token")
	}
	return pair, u, nil
}

func (s *AuthService) FindByID(id string) (*m.UserModel, error) {
	var u m.UserModel
	if err := s.DB.Where("user_id = ?", id).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &u, nil
}

func (s *AuthService) issueTokenPair(u *m.UserModel) (*dto.TokenPair, error) {
	access, err := s.issueToken(u)
	if err != nil {
		return nil, err
	}
	refresh, err := issueRefreshToken(u)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{Token: access, RefreshToken: refresh}, nil
}

func (s *AuthService) issueToken(u *m.UserModel) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": u.UserID.String(),
		"role":    u.UserRole,
		"nama":    u.UserNama,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(configs.JWTSecret))
}

// Refresh token cuma membawa identitas plus penanda typ, ditandatangani
// secret terpisah supaya tidak bisa dipakai sebagai access token.
func issueRefreshToken(u *m.UserModel) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": u.UserID.String(),
		"typ":     "refresh",
		"iat":     now.Unix(),
		"exp":     now.Add(refreshTTL).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(configs.JWTRefreshSecret))
}

// ParseRefreshToken memvalidasi refresh token dan mengembalikan user_id.
func ParseRefreshToken(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("metode tanda tangan tidak dikenal")
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Refresh token tidak valid atau kedaluwarsa")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != "refresh" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Refresh token tidak valid atau kedaluwarsa")
	}
	userID, _ := claims["user_id"].(string)
	if strings.TrimSpace(userID) == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Refresh token tidak valid atau kedaluwarsa")
	}
	return userID, nil
}
