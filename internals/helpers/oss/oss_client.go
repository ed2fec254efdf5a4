// internals/helpers/oss/oss_client.go
package oss

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

/* =======================================================================
   Decode gambar (jpeg/png/webp) dari []byte dengan sniff MIME
======================================================================= */

func DecodeImage(all []byte) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(all))
	default:
		return nil, fmt.Errorf("format tidak didukung: %s", ct)
	}
}

// DecodeImageConfig membaca dimensi tanpa decode penuh.
func DecodeImageConfig(all []byte) (image.Config, error) {
	if len(all) == 0 {
		return image.Config{}, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.DecodeConfig(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		return png.DecodeConfig(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		return webp.DecodeConfig(bytes.NewReader(all))
	default:
		return image.Config{}, fmt.Errorf("format tidak didukung: %s", ct)
	}
}

/* =======================================================================
   Resize helper (keep aspect). Pakai CatmullRom (kualitas bagus).
======================================================================= */

func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW > 0 && w > maxW) || (maxH > 0 && h > maxH) {
		scale := 1.0
		if maxW > 0 {
			scale = math.Min(scale, float64(maxW)/float64(w))
		}
		if maxH > 0 {
			scale = math.Min(scale, float64(maxH)/float64(h))
		}
		nw := int(math.Round(float64(w) * scale))
		nh := int(math.Round(float64(h) * scale))
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		return dst
	}
	return src
}

// EncodeWebP encode sekali dengan quality tetap (foto = lossy).
func EncodeWebP(img image.Image, quality float32) ([]byte, error) {
	if quality <= 0 {
		quality = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

/* =======================================================================
   OSS Service: kolaborator penyimpanan foto
======================================================================= */

// StoredImage adalah hasil simpan: URL foto + URL thumbnail.
type StoredImage struct {
	URL          string
	ThumbnailURL string
}

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string // optional: "uploads/"
}

func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := getEnv("ALI_OSS_ENDPOINT")
	ak := getEnv("ALI_OSS_ACCESS_KEY")
	sk := getEnv("ALI_OSS_SECRET_KEY")
	sts := getEnv("ALI_OSS_SECURITY_TOKEN")
	bucketName := getEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if sts != "" {
		client, err = oss.New(endpoint, ak, sk, oss.SecurityToken(sts))
	} else {
		client, err = oss.New(endpoint, ak, sk)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// Verifikasi ringan lokasi bucket
	if loc, err := client.GetBucketLocation(bucketName); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 && se.Code == "AccessDenied" {
			log.Printf("[OSS] warn: skip location check due to AccessDenied (bucket=%s). Continuing.", bucketName)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", bucketName, loc)
	}

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		Prefix:     strings.Trim(prefix, "/"),
	}, nil
}

func (s *OSSService) buildObjectKey(folder, ext string) string {
	key := fmt.Sprintf("%s/%s-%s%s", strings.Trim(folder, "/"), time.Now().Format("20060102"), uuid.New().String(), ext)
	if s.Prefix != "" {
		key = s.Prefix + "/" + key
	}
	return key
}

func (s *OSSService) publicURL(key string) string {
	// endpoint: oss-ap-southeast-5.aliyuncs.com → https://<bucket>.<endpoint>/<key>
	ep := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, ep, key)
}

// Store menyimpan foto (sudah diproses caller) sebagai webp + thumbnail 300x300.
// Gagal thumbnail tidak menggagalkan simpan: thumbnail fallback ke foto utama
// (perilaku sama dengan uploader lama).
func (s *OSSService) Store(ctx context.Context, data []byte, folder string) (*StoredImage, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	mainBytes, err := EncodeWebP(downscaleIfNeeded(img, 1200, 1200), 80)
	if err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	mainKey := s.buildObjectKey(folder, ".webp")
	if err := s.putObject(ctx, mainKey, mainBytes); err != nil {
		return nil, err
	}
	out := &StoredImage{URL: s.publicURL(mainKey)}

	// Thumbnail kecil untuk list view
	thumbBytes, terr := EncodeWebP(downscaleIfNeeded(img, 300, 300), 70)
	if terr == nil {
		thumbKey := s.buildObjectKey(folder+"/thumbnails", ".webp")
		if err := s.putObject(ctx, thumbKey, thumbBytes); err == nil {
			out.ThumbnailURL = s.publicURL(thumbKey)
		}
	}
	if out.ThumbnailURL == "" {
		out.ThumbnailURL = out.URL
	}
	return out, nil
}

func (s *OSSService) putObject(ctx context.Context, key string, data []byte) error {
	opts := []oss.Option{
		oss.ContentType("image/webp"),
		oss.CacheControl("public, max-age=31536000"),
		oss.WithContext(ctx),
	}
	if err := s.Bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return fmt.Errorf("oss put %s: %w", key, err)
	}
	return nil
}

// Delete menghapus objek berdasarkan URL publiknya (best effort).
func (s *OSSService) Delete(fullURL string) error {
	ep := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	prefix := fmt.Sprintf("https://%s.%s/", s.BucketName, ep)
	if !strings.HasPrefix(fullURL, prefix) {
		return fmt.Errorf("url bukan milik bucket ini")
	}
	return s.Bucket.DeleteObject(strings.TrimPrefix(fullURL, prefix))
}
