package constants

// Batasan upload foto (absen makan & pemanfaatan limbah).
const (
	MaxUploadSize = 5 * 1024 * 1024 // 5MB

	MinImageDimension = 200  // px
	MaxImageDimension = 4000 // px
)

// MIME gambar yang diterima dari boundary layer.
var AllowedImageMime = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
}

func IsAllowedImageMime(ct string) bool {
	for _, m := range AllowedImageMime {
		if m == ct {
			return true
		}
	}
	return false
}
