package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/png"

	"github.com/disintegration/imaging"
)

const (
	defaultMaxImageSize = 5 * 1024 * 1024
	defaultMaxDimension = 1600
)

var ErrInvalidImage = errors.New("invalid image")

type ImageProcessor struct {
	MaxSize      int64 // bytes
	MaxDimension int   // longest edge after normalisation
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: defaultMaxImageSize, MaxDimension: defaultMaxDimension}
}

// ValidateImage accepts JPEG and PNG up to MaxSize.
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("%w: exceeds %dMB", ErrInvalidImage, p.MaxSize/(1024*1024))
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: not an image", ErrInvalidImage)
	}

	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("%w: format %s not allowed (only jpeg/png)", ErrInvalidImage, format)
	}
}

// Normalize fits the image inside MaxDimension and re-encodes it as JPEG q90.
// Smaller images keep their size.
func (p *ImageProcessor) Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot decode", ErrInvalidImage)
	}

	bounds := img.Bounds()
	if bounds.Dx() > p.MaxDimension || bounds.Dy() > p.MaxDimension {
		img = imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
