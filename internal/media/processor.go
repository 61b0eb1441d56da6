package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	apperrors "carwash/internal/errors"
)

const (
	// DefaultMaxWidth bounds the width of stored images.
	DefaultMaxWidth = 1024
	// DefaultQuality is the lossy webp quality.
	DefaultQuality = 80
	// MaxUploadBytes caps how much of an upload is read.
	MaxUploadBytes = 10 << 20
	// MaxPixels caps width*height of an upload before it is decoded.
	MaxPixels = 40_000_000

	// ContentType of every normalized image.
	ContentType = "image/webp"
)

// Processor decodes uploads and re-encodes them as bounded-width webp.
type Processor struct {
	MaxWidth int
	Quality  float32
}

// NewProcessor returns a processor; non-positive values fall back to defaults.
func NewProcessor(maxWidth int, quality float32) *Processor {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Processor{MaxWidth: maxWidth, Quality: quality}
}

// Normalize decodes jpeg, png, gif or webp input and returns webp bytes.
func (p *Processor) Normalize(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, apperrors.ErrInvalidImage
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", apperrors.ErrInvalidImage, MaxUploadBytes)
	}

	// Refuse oversized images from the header, before any pixels are allocated.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", apperrors.ErrInvalidImage, cfg.Width, cfg.Height, MaxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidImage, err)
	}

	img := p.fit(src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales src down to MaxWidth, preserving aspect ratio.
func (p *Processor) fit(src image.Image) image.Image {
	b := src.Bounds()
	if b.Dx() <= p.MaxWidth {
		return src
	}

	height := b.Dy() * p.MaxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, p.MaxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
