package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // cover art is frequently served as WebP
)

// ImageService prepares song cover art for embedding in audio files.
//
// Covers are fetched in their large variant, which is bigger than most
// players display, so they are scaled down and re-encoded as JPEG before
// being written into an ID3 APIC frame.
//
//	svc := NewImageService()
//	cover, _ := svc.ResizeImage(ctx, imageData, 500, 500)
type ImageService struct {
	// Quality is the JPEG encoding quality (1-100).
	Quality int
}

// NewImageService creates an ImageService encoding at quality 90.
func NewImageService() *ImageService {
	return &ImageService{Quality: 90}
}

// ResizeImage scales data down to fit within maxWidth x maxHeight.
//
// The aspect ratio is preserved and images are never upscaled. The result is
// always JPEG encoded. A non-positive bound disables scaling.
//
// A 1500x1000 image with bounds 1000x1000 becomes 1000x666.
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode cover art: %w", err)
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)
	if width == bounds.Dx() && height == bounds.Dy() {
		return s.encode(img)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return s.encode(dst)
}

// ConvertToJPEG re-encodes data (JPEG, PNG or WebP) as JPEG.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode cover art: %w", err)
	}
	return s.encode(img)
}

func (s *ImageService) encode(img image.Image) ([]byte, error) {
	quality := s.Quality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin returns the largest size with the aspect ratio of w x h that
// fits inside maxW x maxH without growing.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if maxW <= 0 || maxH <= 0 || (w <= maxW && h <= maxH) {
		return w, h
	}
	ratio := float64(w) / float64(h)
	if float64(maxW)/float64(maxH) > ratio {
		return max(1, int(float64(maxH)*ratio)), maxH
	}
	return maxW, max(1, int(float64(maxW)/ratio))
}
