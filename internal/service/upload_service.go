package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultUploadDir      = "uploads"
	DefaultMaxUploadBytes = 5 << 20
	ThumbnailMaxSize      = 256
	WebPQuality           = 70
)

type UploadInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// UploadResult describes a stored image. Path is the content-addressed
// location used as profile_picture; Filename is display metadata only.
type UploadResult struct {
	Path          string `json:"path"`
	ThumbnailPath string `json:"thumbnail_path"`
	Filename      string `json:"filename"`
	SizeBytes     int64  `json:"size_bytes"`
}

type UploadService struct {
	uploadDir      string
	maxUploadBytes int64
}

func NewUploadService(cfg *config.Config) *UploadService {
	uploadDir := DefaultUploadDir
	maxUploadBytes := int64(DefaultMaxUploadBytes)

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.MaxUploadBytes > 0 {
			maxUploadBytes = cfg.MaxUploadBytes
		}
	}

	return &UploadService{
		uploadDir:      uploadDir,
		maxUploadBytes: maxUploadBytes,
	}
}

// Save validates the uploaded bytes, stores them keyed by their SHA-256 hash
// and writes a WebP thumbnail alongside. Re-uploading identical content maps
// to the same files.
func (s *UploadService) Save(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		observability.UploadsStoredTotal.WithLabelValues("rejected").Inc()
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadBytes {
		observability.UploadsStoredTotal.WithLabelValues("rejected").Inc()
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %d bytes)", s.maxUploadBytes))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		observability.UploadsStoredTotal.WithLabelValues("rejected").Inc()
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		observability.UploadsStoredTotal.WithLabelValues("rejected").Inc()
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		observability.UploadsStoredTotal.WithLabelValues("rejected").Inc()
		return nil, models.NewValidationError("Unsupported image format")
	}

	hash := hashContent(in.Content)
	ext := extensionForFormat(format)
	originalRel := hash + ext
	thumbRel := hash + "_thumb.webp"
	originalAbs := filepath.Join(s.uploadDir, originalRel)
	thumbAbs := filepath.Join(s.uploadDir, thumbRel)

	if err := writeBytesToFile(originalAbs, in.Content); err != nil {
		observability.UploadsStoredTotal.WithLabelValues("error").Inc()
		return nil, models.NewInternalError(err)
	}

	thumb := resizeToFit(decoded, ThumbnailMaxSize, ThumbnailMaxSize)
	thumbBytes, err := encodeWebP(thumb, WebPQuality)
	if err != nil {
		_ = os.Remove(originalAbs)
		observability.UploadsStoredTotal.WithLabelValues("error").Inc()
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(thumbAbs, thumbBytes); err != nil {
		_ = os.Remove(originalAbs)
		observability.UploadsStoredTotal.WithLabelValues("error").Inc()
		return nil, models.NewInternalError(err)
	}

	observability.UploadsStoredTotal.WithLabelValues("stored").Inc()
	return &UploadResult{
		Path:          "/uploads/" + originalRel,
		ThumbnailPath: "/uploads/" + thumbRel,
		Filename:      in.Filename,
		SizeBytes:     int64(len(in.Content)),
	}, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func extensionForFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return ".jpg"
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	case "webp":
		return ".webp"
	default:
		return ".bin"
	}
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
