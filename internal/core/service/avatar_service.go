package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/martijn/inkwell/internal/core/repository"
	"golang.org/x/image/draw"
)

// AvatarSize bounds both thumbnail dimensions in pixels.
const AvatarSize = 125

// MaxAvatarPixels caps width*height of an upload before it is decoded. A
// small compressed file can otherwise expand to gigabytes in memory.
const MaxAvatarPixels = 50_000_000

var avatarContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// AllowedAvatarExtension reports whether filename ends in jpg, jpeg or png,
// ignoring case.
func AllowedAvatarExtension(filename string) bool {
	_, ok := avatarContentTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

type AvatarService struct {
	storage repository.AvatarStorage
}

func NewAvatarService(storage repository.AvatarStorage) *AvatarService {
	return &AvatarService{storage: storage}
}

// Store thumbnails the uploaded image and saves it under a random name that
// keeps the original extension. Nothing is written when decoding fails or the
// image is larger than MaxAvatarPixels.
func (s *AvatarService) Store(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := filepath.Ext(filename)
	contentType, ok := avatarContentTypes[strings.ToLower(ext)]
	if !ok {
		return "", domain.ErrUnsupportedImage
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxAvatarPixels {
		return "", fmt.Errorf("%w: %dx%d exceeds %d pixels", domain.ErrInvalidImage, cfg.Width, cfg.Height, MaxAvatarPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}

	var buf bytes.Buffer
	thumb := Thumbnail(src, AvatarSize)
	if contentType == "image/png" {
		err = png.Encode(&buf, thumb)
	} else {
		err = jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode avatar: %w", err)
	}

	name := randomStem() + ext
	if err := s.storage.Save(ctx, name, contentType, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}
	return name, nil
}

// Open returns the stored avatar and its content type.
func (s *AvatarService) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	return s.storage.Open(ctx, name)
}

// Thumbnail scales src down so neither side exceeds bound, keeping the aspect
// ratio. Images already within bounds are returned unchanged.
func Thumbnail(src image.Image, bound int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= bound && h <= bound {
		return src
	}

	nw, nh := bound, bound
	if w >= h {
		nh = h * bound / w
	} else {
		nw = w * bound / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func randomStem() string {
	id := uuid.New()
	return hex.EncodeToString(id[:8])
}
