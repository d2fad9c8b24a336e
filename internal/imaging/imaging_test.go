package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/erazemk/najdeno/internal/model"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(w, h, color.RGBA{255, 0, 0, 255}), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("expected jpeg output, got %s", format)
	}
	return img
}

func TestProcessJPEG(t *testing.T) {
	result, err := Process(bytes.NewReader(jpegBytes(t, 100, 80)), PhotoOptions)
	if err != nil {
		t.Fatalf("Process JPEG: %v", err)
	}
	if result.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", result.MIME)
	}
	if result.Width != 100 || result.Height != 80 {
		t.Errorf("expected 100x80, got %dx%d", result.Width, result.Height)
	}
	decode(t, result.Data)
}

func TestProcessPNGConvertedToJPEG(t *testing.T) {
	data := pngBytes(t, solid(64, 64, color.RGBA{0, 0, 255, 255}))
	result, err := Process(bytes.NewReader(data), PhotoOptions)
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	decode(t, result.Data)
}

func TestProcessTransparentPNGFlattenedOnWhite(t *testing.T) {
	data := pngBytes(t, solid(20, 20, color.RGBA{0, 0, 0, 0}))
	result, err := Process(bytes.NewReader(data), PhotoOptions)
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	r, g, b, _ := decode(t, result.Data).At(10, 10).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected white background, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestProcessDownscaleKeepsAspect(t *testing.T) {
	result, err := Process(bytes.NewReader(jpegBytes(t, 2400, 1200)), PhotoOptions)
	if err != nil {
		t.Fatalf("Process large image: %v", err)
	}
	bounds := decode(t, result.Data).Bounds()
	if bounds.Dx() != PhotoMaxDimension || bounds.Dy() != PhotoMaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", PhotoMaxDimension, PhotoMaxDimension/2, bounds.Dx(), bounds.Dy())
	}
}

func TestProcessSmallImageNotUpscaled(t *testing.T) {
	result, err := Process(bytes.NewReader(jpegBytes(t, 50, 50)), PhotoOptions)
	if err != nil {
		t.Fatalf("Process small image: %v", err)
	}
	bounds := decode(t, result.Data).Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 50 {
		t.Errorf("small image should not be resized: got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestProcessRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		opts Options
	}{
		{"text", []byte("not an image"), PhotoOptions},
		{"gif", []byte("GIF89a..."), PhotoOptions},
		{"too large", jpegBytes(t, 100, 100), Options{MaxDimension: 100, MaxBytes: 64}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Process(bytes.NewReader(tt.data), tt.opts)
			if !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{1000, 500, 1200, 1000, 500},
		{3000, 1000, 1200, 1200, 400},
		{1000, 3000, 1200, 400, 1200},
		{5000, 1, 1200, 1200, 1},
		{800, 600, 0, 800, 600},
	}
	for _, tt := range tests {
		w, h := scaledSize(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("scaledSize(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}
