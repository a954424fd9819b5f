package html2img

// Notes:
// - Flatten must turn fully transparent pixels into exact white for every source pixel model
// - JPEG is lossy, so round-trip checks use a tolerance on decoded colors
// - PNG output is the capture byte-for-byte

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func isNear(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// ---------------------------------------------------------------------------
// Flatten
// ---------------------------------------------------------------------------

func TestFlatten_PixelModels(t *testing.T) {
	t.Parallel()

	transparentPaletted := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{
		color.NRGBA{},
		color.NRGBA{R: 255, A: 255},
	})
	// Top row opaque red, rest transparent (index 0).
	for x := 0; x < 4; x++ {
		transparentPaletted.SetColorIndex(x, 0, 1)
	}

	nrgba := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		nrgba.SetNRGBA(x, 0, color.NRGBA{R: 255, A: 255})
	}

	rgba64 := image.NewRGBA64(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		rgba64.SetRGBA64(x, 0, color.RGBA64{R: 0xffff, A: 0xffff})
	}

	tests := []struct {
		name string
		img  image.Image
	}{
		{name: "paletted", img: transparentPaletted},
		{name: "nrgba", img: nrgba},
		{name: "rgba64", img: rgba64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := Flatten(tt.img)
			if out.Bounds().Dx() != 4 || out.Bounds().Dy() != 4 {
				t.Fatalf("bounds = %v, want 4x4", out.Bounds())
			}
			if got := out.NRGBAAt(0, 3); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
				t.Errorf("transparent pixel = %v, want opaque white", got)
			}
			if got := out.NRGBAAt(0, 0); got != (color.NRGBA{R: 255, A: 255}) {
				t.Errorf("opaque pixel = %v, want opaque red", got)
			}
		})
	}
}

func TestFlatten_HalfAlphaBlendsOverWhite(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 128}) // Half-transparent black

	got := Flatten(img).NRGBAAt(0, 0)
	if got.A != 255 {
		t.Errorf("alpha = %d, want 255", got.A)
	}
	if !isNear(got.R, 127, 2) {
		t.Errorf("R = %d, want about 127", got.R)
	}
}

// ---------------------------------------------------------------------------
// ConvertBitmap
// ---------------------------------------------------------------------------

func TestConvertBitmap_PNGPassthrough(t *testing.T) {
	t.Parallel()

	in := testPNG(8, 8)
	out, err := ConvertBitmap(in, FormatPNG, 0)
	if err != nil {
		t.Fatalf("ConvertBitmap() error = %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Error("PNG output differs from capture")
	}
}

func TestConvertBitmap_JPEGHasNoBlackTransparency(t *testing.T) {
	t.Parallel()

	out, err := ConvertBitmap(testPNG(16, 16), FormatJPEG, 90)
	if err != nil {
		t.Fatalf("ConvertBitmap() error = %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding jpeg: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Fatalf("bounds = %v, want 16x16", img.Bounds())
	}

	// Bottom half was transparent in the capture.
	r, g, b, _ := img.At(8, 14).RGBA()
	if !isNear(uint8(r>>8), 255, 6) || !isNear(uint8(g>>8), 255, 6) || !isNear(uint8(b>>8), 255, 6) {
		t.Errorf("transparent region = (%d,%d,%d), want near white", r>>8, g>>8, b>>8)
	}
	// Top half was opaque red.
	r, g, _, _ = img.At(8, 2).RGBA()
	if !isNear(uint8(r>>8), 255, 12) || !isNear(uint8(g>>8), 0, 12) {
		t.Errorf("opaque region = (%d,%d), want near red", r>>8, g>>8)
	}
}

func TestConvertBitmap_JPEGZeroQualityUsesDefault(t *testing.T) {
	t.Parallel()

	capture := testPNG(16, 16)
	got, err := ConvertBitmap(capture, FormatJPEG, 0)
	if err != nil {
		t.Fatalf("ConvertBitmap(quality 0) error = %v", err)
	}
	want, err := ConvertBitmap(capture, FormatJPEG, DefaultJPEGQuality)
	if err != nil {
		t.Fatalf("ConvertBitmap(quality %d) error = %v", DefaultJPEGQuality, err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("quality 0 output differs from quality %d output", DefaultJPEGQuality)
	}
}

func TestConvertBitmap_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bitmap  []byte
		format  Format
		quality int
		wantErr error
	}{
		{name: "empty bitmap", bitmap: nil, format: FormatPNG, wantErr: ErrConversion},
		{name: "garbage bitmap", bitmap: []byte("not a png"), format: FormatJPEG, quality: 80, wantErr: ErrConversion},
		{name: "bad quality", bitmap: testPNG(2, 2), format: FormatJPEG, quality: 101, wantErr: ErrInvalidQuality},
		{name: "bad format", bitmap: testPNG(2, 2), format: "webp", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ConvertBitmap(tt.bitmap, tt.format, tt.quality)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ConvertBitmap() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeImage_QualityAffectsSize(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: uint8((x ^ y) * 4), A: 255})
		}
	}

	var low, high bytes.Buffer
	if err := EncodeImage(&low, img, FormatJPEG, 10); err != nil {
		t.Fatalf("EncodeImage(10) error = %v", err)
	}
	if err := EncodeImage(&high, img, FormatJPEG, 100); err != nil {
		t.Fatalf("EncodeImage(100) error = %v", err)
	}
	if low.Len() >= high.Len() {
		t.Errorf("quality 10 size %d >= quality 100 size %d", low.Len(), high.Len())
	}
}
