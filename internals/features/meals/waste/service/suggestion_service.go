// file: internals/features/meals/waste/service/suggestion_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	m "mbgku_backend/internals/features/meals/waste/model"
)

/* =========================================================
 * SARAN PEMANFAATAN LIMBAH (Gemini, fallback statis)
 *
 * Saran cuma pemanis UX; kegagalan API tidak boleh
 * menggagalkan submit, makanya selalu jatuh ke saran statis.
 * ========================================================= */

const suggestionModel = "gemini-2.0-flash"

var defaultSuggestions = map[m.WasteCategory]string{
	m.WasteKompos:      "Sisa makanan organik bisa dijadikan kompos! Campurkan dengan daun kering dan biarkan terurai selama 2-3 bulan. Kompos ini bisa menyuburkan tanaman di sekolah.",
	m.WasteEcoEnzyme:   "Sisa kulit buah bisa dibuat eco-enzyme! Campurkan dengan gula dan air dengan perbandingan 1:3:10. Fermentasi selama 3 bulan, hasilnya bisa untuk pembersih alami.",
	m.WastePakanTernak: "Sisa makanan yang masih layak bisa diberikan ke ternak seperti ayam atau kambing. Pastikan makanan tidak basi dan tidak mengandung bahan berbahaya.",
	m.WasteMediaTanam:  "Sisa makanan yang sudah terurai bisa dicampur dengan tanah sebagai media tanam. Ini akan menyuburkan tanaman dan mengurangi sampah organik.",
	m.WastePrakarya:    "Sisa makanan bisa dijadikan bahan prakarya kreatif! Misalnya kulit telur untuk mozaik, atau biji-bijian untuk kolase. Kreativitas tanpa batas!",
}

const genericSuggestion = "Limbah makanan bisa dimanfaatkan dengan berbagai cara kreatif. Coba eksplorasi ide-ide baru yang ramah lingkungan!"

type SuggestionService struct {
	client *genai.Client
}

// NewSuggestionService: apiKey kosong → mode statis (tanpa Gemini).
func NewSuggestionService(apiKey string) *SuggestionService {
	if apiKey == "" {
		log.Println("⚙️ GEMINI_API_KEY kosong, saran limbah pakai mode statis")
		return &SuggestionService{}
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		log.Printf("❌ Gagal inisialisasi Gemini client: %v (lanjut mode statis)", err)
		return &SuggestionService{}
	}
	return &SuggestionService{client: client}
}

// Suggest menghasilkan saran singkat untuk jenis pemanfaatan.
// Tidak pernah error: gagal apa pun → saran statis.
func (s *SuggestionService) Suggest(ctx context.Context, jenis m.WasteCategory) string {
	if s == nil || s.client == nil {
		return s.fallback(jenis)
	}

	prompt := fmt.Sprintf(`Kamu adalah asisten edukatif untuk siswa SMA yang membantu memanfaatkan limbah makanan.

Jenis limbah: %s

Berikan saran singkat (maksimal 2 kalimat) tentang cara memanfaatkan limbah ini dengan cara yang mudah dipahami siswa SMA.
Fokus pada manfaat lingkungan dan edukatif. Gunakan bahasa Indonesia yang ramah dan menarik.
Jangan gunakan kata-kata teknis yang sulit dipahami.`, jenis)

	resp, err := s.client.Models.GenerateContent(ctx,
		suggestionModel,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0.7),
			MaxOutputTokens: 150,
		},
	)
	if err != nil {
		log.Printf("❌ Gemini suggest gagal: %v (pakai saran statis)", err)
		return s.fallback(jenis)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return s.fallback(jenis)
	}
	return text
}

func (s *SuggestionService) fallback(jenis m.WasteCategory) string {
	if msg, ok := defaultSuggestions[jenis]; ok {
		return msg
	}
	return genericSuggestion
}
