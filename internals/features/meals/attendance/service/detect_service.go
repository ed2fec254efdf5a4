// file: internals/features/meals/attendance/service/detect_service.go
package service

import (
	"image"
	"math"

	m "mbgku_backend/internals/features/meals/attendance/model"
	osshelper "mbgku_backend/internals/helpers/oss"
)

/* =========================================================
 * DETEKSI SISA MAKANAN (heuristik piksel, deterministik)
 *
 * Piring putih = terang & nyaris tanpa warna; makanan = gelap atau
 * berwarna. Piksel dihitung "makanan" bila brightness < 200 ATAU
 * colorVariance > 30. Rasio makanan menentukan kategorinya.
 * ========================================================= */

type DetectionResult struct {
	Status     m.AttendanceStatus
	Confidence float64
}

const (
	foodBrightnessMax = 200.0
	foodVarianceMin   = 30.0

	habisMaxRatio       = 0.15
	sisaSedikitMaxRatio = 0.40

	// Di bawah ini hasil deteksi tidak dipercaya → PENDING_VERIFICATION.
	// Dengan confidence tetap 0.75/0.85/0.90 cabang ini belum pernah
	// kena; dipertahankan untuk classifier yang lebih dinamis nanti.
	MinAutoConfidence = 0.70

	fallbackConfidence = 0.50
)

// DetectFoodWaste decode foto lalu klasifikasi. Gagal decode bukan error
// fatal: hasil netral (PENDING_VERIFICATION, 0.50) supaya record tetap
// tersimpan dan masuk antrian verifikasi guru.
func DetectFoodWaste(data []byte) DetectionResult {
	img, err := osshelper.DecodeImage(data)
	if err != nil {
		return DetectionResult{Status: m.StatusPendingVerification, Confidence: fallbackConfidence}
	}
	return ClassifyImage(img)
}

// ClassifyImage fungsi murni: piksel → (kategori, confidence).
// Input sama selalu menghasilkan output sama.
func ClassifyImage(img image.Image) DetectionResult {
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return DetectionResult{Status: m.StatusPendingVerification, Confidence: fallbackConfidence}
	}

	foodPixels := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			r := float64(r16 >> 8)
			g := float64(g16 >> 8)
			bl := float64(b16 >> 8)

			brightness := (r + g + bl) / 3
			colorVariance := math.Sqrt(
				(r-brightness)*(r-brightness) +
					(g-brightness)*(g-brightness) +
					(bl-brightness)*(bl-brightness))

			if brightness < foodBrightnessMax || colorVariance > foodVarianceMin {
				foodPixels++
			}
		}
	}

	foodRatio := float64(foodPixels) / float64(total)
	switch {
	case foodRatio <= habisMaxRatio:
		return DetectionResult{Status: m.StatusHabis, Confidence: 0.90}
	case foodRatio <= sisaSedikitMaxRatio:
		return DetectionResult{Status: m.StatusSisaSedikit, Confidence: 0.75}
	default:
		return DetectionResult{Status: m.StatusSisaBanyak, Confidence: 0.85}
	}
}

// GatedStatus menerapkan gerbang confidence: hasil deteksi di bawah
// ambang dipaksa PENDING_VERIFICATION apa pun kategorinya.
func GatedStatus(res DetectionResult) m.AttendanceStatus {
	if res.Confidence < MinAutoConfidence {
		return m.StatusPendingVerification
	}
	return res.Status
}
