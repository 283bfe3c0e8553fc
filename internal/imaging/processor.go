// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalises uploaded catalog images: format check, EXIF
// orientation, downscaling and re-encoding with pure Go codecs.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Supported MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// ErrUnsupportedFormat is returned for anything but JPEG, PNG, GIF and WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Options bound the processed image.
type Options struct {
	MaxWidth  int
	MaxHeight int
	// Quality is the JPEG quality, 1-100.
	Quality int
}

// DefaultOptions fit catalog images into 1920x1920 at quality 85.
func DefaultOptions() Options {
	return Options{MaxWidth: 1920, MaxHeight: 1920, Quality: 85}
}

// Result is a processed image ready to store.
type Result struct {
	Data     []byte
	Width    int
	Height   int
	MimeType string
	// Ext is the file extension matching MimeType, with the dot.
	Ext string
}

// Process decodes data, applies its EXIF orientation, fits it into the
// bounds of opts and re-encodes it. Metadata is not carried over. WebP input
// is re-encoded as JPEG since there is no pure Go WebP encoder.
func Process(data []byte, opts Options) (*Result, error) {
	format := DetectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	b := img.Bounds()
	if opts.MaxWidth > 0 && opts.MaxHeight > 0 && (b.Dx() > opts.MaxWidth || b.Dy() > opts.MaxHeight) {
		img = imaging.Fit(img, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
	}

	if format == "webp" {
		format = "jpeg"
	}
	quality := opts.Quality
	if quality < 1 || quality > 100 {
		quality = DefaultOptions().Quality
	}

	out, err := encodeImage(img, format, quality)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	b = img.Bounds()
	return &Result{
		Data:     out,
		Width:    b.Dx(),
		Height:   b.Dy(),
		MimeType: formatToMimeType(format),
		Ext:      formatToExt(format),
	}, nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation undoes EXIF orientation 2-8 so the pixels are upright.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DetectFormat sniffs data and returns "jpeg", "png", "gif", "webp" or "".
// TIFF is rejected on purpose (CVE-2023-36308 in disintegration/imaging).
func DetectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "tiff"):
		return ""
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "png":
		return MimeTypePNG
	case "gif":
		return MimeTypeGIF
	case "webp":
		return MimeTypeWebP
	default:
		return MimeTypeJPEG
	}
}

func formatToExt(format string) string {
	switch format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
