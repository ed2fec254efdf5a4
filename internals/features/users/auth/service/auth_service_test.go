package service

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mbgku_backend/internals/configs"
	m "mbgku_backend/internals/features/users/user/model"
)

func TestValidatePasswordPolicy(t *testing.T) {
	tests := []struct {
		name string
		pw   string
		ok   bool
	}{
		{"valid", "Rahasia123", true},
		{"terlalu pendek", "Ab1", false},
		{"tanpa huruf besar", "rahasia123", false},
		{"tanpa huruf kecil", "RAHASIA123", false},
		{"tanpa angka", "RahasiaSaja", false},
		{"kosong", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordPolicy(tt.pw)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var fe *fiber.Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, fiber.StatusBadRequest, fe.Code)
		})
	}
}

/* =========================================================
 * REFRESH TOKEN
 * ========================================================= */

func TestRefreshToken_PulangPergi(t *testing.T) {
	configs.JWTRefreshSecret = "refresh-secret-test"
	u := &m.UserModel{UserID: uuid.New(), UserRole: "siswa", UserNama: "Budi"}

	tok, err := issueRefreshToken(u)
	require.NoError(t, err)

	id, err := ParseRefreshToken(tok)
	require.NoError(t, err)
	assert.Equal(t, u.UserID.String(), id)
}

func TestRefreshToken_AccessTokenDitolak(t *testing.T) {
	configs.JWTSecret = "access-secret-test"
	configs.JWTRefreshSecret = "refresh-secret-test"
	svc := &AuthService{}

	// Access token: secret beda dan tanpa claim typ, dua-duanya
	// harus bikin parse refresh gagal.
	access, err := svc.issueToken(&m.UserModel{UserID: uuid.New(), UserRole: "siswa", UserNama: "Budi"})
	require.NoError(t, err)

	_, err = ParseRefreshToken(access)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusUnauthorized, fe.Code)
}

func TestRefreshToken_Sampah(t *testing.T) {
	configs.JWTRefreshSecret = "refresh-secret-test"

	_, err := ParseRefreshToken("bukan.token.jwt")
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusUnauthorized, fe.Code)
}
