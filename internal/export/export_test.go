package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func newTestEncoder(t *testing.T) Encoder {
	t.Helper()
	enc, err := NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	return enc
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func noiseImage(w, h int) *image.RGBA {
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = byte(rng.Intn(256))
		if i%4 == 3 {
			img.Pix[i] = 255
		}
	}
	return img
}

func TestEncodeDefaultsToPNG(t *testing.T) {
	enc := newTestEncoder(t)

	src := solidImage(16, 16, color.RGBA{R: 200, A: 128})
	out, err := enc.Encode(context.Background(), src, Options{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if out.Format != FormatPNG {
		t.Fatalf("format = %q, want png", out.Format)
	}

	decoded, err := png.Decode(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("decode png output: %v", err)
	}
	_, _, _, a := decoded.At(8, 8).RGBA()
	if a == 0 || a == 0xffff {
		t.Fatalf("alpha = %d, want partial transparency preserved", a)
	}
}

func TestEncodeJPEGFlattensTransparencyOntoWhite(t *testing.T) {
	enc := newTestEncoder(t)

	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	out, err := enc.Encode(context.Background(), src, Options{Format: FormatJPEG})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if out.Format != FormatJPEG {
		t.Fatalf("format = %q, want jpeg", out.Format)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("decode jpeg output: %v", err)
	}
	r, g, b, _ := decoded.At(8, 8).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Fatalf("transparent region decoded as (%d,%d,%d), want near white", r>>8, g>>8, b>>8)
	}
}

func TestByteBudgetFallsBackToJPEG(t *testing.T) {
	enc := newTestEncoder(t)

	src := noiseImage(64, 64)
	out, err := enc.Encode(context.Background(), src, Options{Format: FormatPNG, MaxBytes: 200})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if out.Format != FormatJPEG {
		t.Fatalf("format = %q, want jpeg fallback under byte budget", out.Format)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out.Data)); err != nil {
		t.Fatalf("decode fallback output: %v", err)
	}
}

func TestByteBudgetResultAcceptedEvenWhenOverBudget(t *testing.T) {
	enc := newTestEncoder(t)

	out, err := enc.Encode(context.Background(), noiseImage(64, 64), Options{MaxBytes: 1})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if out.Format != FormatJPEG {
		t.Fatalf("format = %q, want jpeg", out.Format)
	}
	if int64(len(out.Data)) <= 1 {
		t.Fatalf("len = %d, expected output over budget to be returned as-is", len(out.Data))
	}
}

func TestZeroBudgetKeepsPNG(t *testing.T) {
	enc := newTestEncoder(t)

	out, err := enc.Encode(context.Background(), noiseImage(64, 64), Options{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if out.Format != FormatPNG {
		t.Fatalf("format = %q, want png when budget disabled", out.Format)
	}
}

func TestEncodeRejectsEmptyImage(t *testing.T) {
	enc := newTestEncoder(t)

	if _, err := enc.Encode(context.Background(), image.NewRGBA(image.Rectangle{}), Options{}); err == nil {
		t.Fatal("expected error for empty image")
	}
}

func TestEncodeHonorsContextCancellation(t *testing.T) {
	enc := newTestEncoder(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := enc.Encode(ctx, solidImage(4, 4, color.RGBA{A: 255}), Options{}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatPNG},
		{in: "png", want: FormatPNG},
		{in: " PNG ", want: FormatPNG},
		{in: "jpg", want: FormatJPEG},
		{in: "jpeg", want: FormatJPEG},
		{in: "webp", want: FormatWebP},
		{in: "tiff", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestContentType(t *testing.T) {
	if got := FormatPNG.ContentType(); got != "image/png" {
		t.Fatalf("png content type = %q", got)
	}
	if got := FormatJPEG.ContentType(); got != "image/jpeg" {
		t.Fatalf("jpeg content type = %q", got)
	}
	if got := FormatWebP.ContentType(); got != "image/webp" {
		t.Fatalf("webp content type = %q", got)
	}
}

func TestWriteFileIsAtomicAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	if err := WriteFile(path, []byte("first")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(path, []byte("second")); err != nil {
		t.Fatalf("WriteFile overwrite: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("content = %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want only the destination file", len(entries))
	}
}
