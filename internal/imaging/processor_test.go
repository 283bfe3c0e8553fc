// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

func encodeGIF(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("gif.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	img := createTestImage(4, 4)

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "png", data: encodePNG(t, img), want: "png"},
		{name: "jpeg", data: encodeJPEG(t, img), want: "jpeg"},
		{name: "gif", data: encodeGIF(t, img), want: "gif"},
		{name: "webp", data: []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), want: "webp"},
		{name: "tiff rejected", data: []byte("II*\x00\x08\x00\x00\x00"), want: ""},
		{name: "text", data: []byte("hello"), want: ""},
		{name: "empty", data: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data); got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcess_KeepsSmallImages(t *testing.T) {
	res, err := Process(encodePNG(t, createTestImage(40, 30)), DefaultOptions())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if res.Width != 40 || res.Height != 30 {
		t.Errorf("size = %dx%d, want 40x30", res.Width, res.Height)
	}
	if res.MimeType != MimeTypePNG || res.Ext != ".png" {
		t.Errorf("type = %s %s, want png", res.MimeType, res.Ext)
	}
	if DetectFormat(res.Data) != "png" {
		t.Error("output is not a PNG")
	}
}

func TestProcess_FitsLargeImages(t *testing.T) {
	res, err := Process(encodeJPEG(t, createTestImage(200, 100)), Options{MaxWidth: 50, MaxHeight: 50, Quality: 70})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if res.Width != 50 || res.Height != 25 {
		t.Errorf("size = %dx%d, want 50x25", res.Width, res.Height)
	}
	if res.MimeType != MimeTypeJPEG || res.Ext != ".jpg" {
		t.Errorf("type = %s %s, want jpeg", res.MimeType, res.Ext)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 25 {
		t.Errorf("encoded size = %dx%d, want 50x25", cfg.Width, cfg.Height)
	}
}

func TestProcess_Unsupported(t *testing.T) {
	_, err := Process([]byte("definitely not an image"), DefaultOptions())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestProcess_CorruptImage(t *testing.T) {
	data := encodePNG(t, createTestImage(10, 10))
	_, err := Process(data[:len(data)/2], DefaultOptions())
	if err == nil {
		t.Fatal("expected error for truncated PNG")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Error("truncated PNG is a decode error, not an unsupported format")
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(20, 10)

	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 20, 10},
		{2, 20, 10},
		{3, 20, 10},
		{4, 20, 10},
		{5, 10, 20},
		{6, 10, 20},
		{7, 10, 20},
		{8, 10, 20},
		{99, 20, 10},
	}

	for _, tt := range tests {
		got := applyOrientation(img, tt.orientation).Bounds()
		if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
			t.Errorf("orientation %d: size = %dx%d, want %dx%d", tt.orientation, got.Dx(), got.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestReadExifOrientation_NoExif(t *testing.T) {
	if got := readExifOrientation(bytes.NewReader(encodePNG(t, createTestImage(2, 2)))); got != 1 {
		t.Errorf("readExifOrientation() = %d, want 1", got)
	}
}
