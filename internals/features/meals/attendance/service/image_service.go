// file: internals/features/meals/attendance/service/image_service.go
package service

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"

	"mbgku_backend/internals/constants"
	osshelper "mbgku_backend/internals/helpers/oss"
)

const (
	// Hasil redaksi di-fit ke kotak ini (tidak pernah diperbesar).
	normalizeMaxDim = 800

	jpegQuality = 85

	// Bagian atas foto yang dibuang: area wajah. Ini syarat privasi,
	// bukan langkah deteksi.
	redactTopFraction = 0.3
)

// ValidateDimensions decode metadata dan menolak gambar di luar
// 200..4000 px atau yang tidak bisa di-decode.
func ValidateDimensions(data []byte) error {
	cfg, err := osshelper.DecodeImageConfig(data)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "File bukan gambar yang valid")
	}
	if cfg.Width < constants.MinImageDimension || cfg.Height < constants.MinImageDimension {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Gambar terlalu kecil. Minimal %dx%d pixel", constants.MinImageDimension, constants.MinImageDimension))
	}
	if cfg.Width > constants.MaxImageDimension || cfg.Height > constants.MaxImageDimension {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Gambar terlalu besar. Maksimal %dx%d pixel", constants.MaxImageDimension, constants.MaxImageDimension))
	}
	return nil
}

// RedactAndNormalize buang 30% bagian atas foto, fit ke 800x800 tanpa
// memperbesar, re-encode JPEG quality 85.
//
// Gagal di langkah mana pun → kembalikan bytes asli + redacted=false.
// Kegagalan redaksi tidak boleh menghentikan pipeline; caller yang
// memutuskan mau menandai warning.
func RedactAndNormalize(data []byte) (out []byte, redacted bool) {
	img, err := osshelper.DecodeImage(data)
	if err != nil {
		return data, false
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cropTop := int(float64(h) * redactTopFraction)
	if cropTop >= h {
		return data, false
	}

	cropped := imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y+cropTop, b.Min.X+w, b.Min.Y+h))
	fitted := imaging.Fit(cropped, normalizeMaxDim, normalizeMaxDim, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, fitted, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return data, false
	}
	return buf.Bytes(), true
}
