package ingest

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func sampleNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	return img
}

func TestLuma(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint8
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 255},
		{255, 0, 0, 54},
		{0, 255, 0, 182},
		{0, 0, 255, 18},
		{10, 200, 30, 147},
		{128, 128, 128, 128},
	}
	for _, tc := range cases {
		if got := Luma(tc.r, tc.g, tc.b); got != tc.want {
			t.Fatalf("Luma(%d,%d,%d) = %d, want %d", tc.r, tc.g, tc.b, got, tc.want)
		}
	}
}

func TestFromImageLumaAndRGB(t *testing.T) {
	img := sampleNRGBA()

	luma, err := FromImage(img, false)
	if err != nil {
		t.Fatalf("FromImage error: %v", err)
	}
	if !reflect.DeepEqual(luma.Pix, []uint8{54, 147}) {
		t.Fatalf("unexpected luma: %v", luma.Pix)
	}

	rgb, err := FromImage(img, true)
	if err != nil {
		t.Fatalf("FromImage error: %v", err)
	}
	want := []uint8{255, 0, 0, 10, 200, 30}
	if !reflect.DeepEqual(rgb.Pix, want) {
		t.Fatalf("unexpected rgb: got %v want %v", rgb.Pix, want)
	}
}

func TestScale16(t *testing.T) {
	cases := map[uint16]uint8{
		0:      0,
		129:    1,
		0x7f7f: 127,
		0x8080: 128,
		0xff00: 254,
		0xffff: 255,
	}
	for v, want := range cases {
		if got := Scale16(v); got != want {
			t.Fatalf("Scale16(%#x) = %d, want %d", v, got, want)
		}
	}
	for v := 0; v < 256; v++ {
		if got := Scale16(uint16(v * 257)); got != uint8(v) {
			t.Fatalf("Scale16(%d*257) = %d", v, got)
		}
	}
}

func TestFromImageSixteenBitRounds(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 2, 1))
	img.SetGray16(0, 0, color.Gray16{Y: 129})
	img.SetGray16(1, 0, color.Gray16{Y: 0xff00})

	raster, err := FromImage(img, false)
	if err != nil {
		t.Fatalf("FromImage error: %v", err)
	}
	if !reflect.DeepEqual(raster.Pix, []uint8{1, 254}) {
		t.Fatalf("unexpected luma: %v", raster.Pix)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	rgb, _, err := Decode(&buf, true)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !reflect.DeepEqual(rgb.Pix, []uint8{1, 1, 1, 254, 254, 254}) {
		t.Fatalf("unexpected rgb: %v", rgb.Pix)
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i)
	}
	sub := gray.SubImage(image.Rect(1, 2, 3, 4))

	raster, err := FromImage(sub, false)
	if err != nil {
		t.Fatalf("FromImage error: %v", err)
	}
	want := []uint8{9, 10, 13, 14}
	if !reflect.DeepEqual(raster.Pix, want) {
		t.Fatalf("unexpected pixels: got %v want %v", raster.Pix, want)
	}
}

func TestFromImageEmpty(t *testing.T) {
	_, err := FromImage(image.NewGray(image.Rect(0, 0, 0, 3)), false)
	if !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("expected ErrEmptyImage, got %v", err)
	}
}

func TestDecodeFormats(t *testing.T) {
	img := sampleNRGBA()
	encoders := map[string]func(*bytes.Buffer) error{
		"png":  func(buf *bytes.Buffer) error { return png.Encode(buf, img) },
		"bmp":  func(buf *bytes.Buffer) error { return bmp.Encode(buf, img) },
		"tiff": func(buf *bytes.Buffer) error { return tiff.Encode(buf, img, nil) },
	}
	for name, encode := range encoders {
		var buf bytes.Buffer
		if err := encode(&buf); err != nil {
			t.Fatalf("%s encode: %v", name, err)
		}
		raster, format, err := Decode(&buf, true)
		if err != nil {
			t.Fatalf("%s decode: %v", name, err)
		}
		if format != name {
			t.Fatalf("unexpected format %q for %s", format, name)
		}
		if got := raster.At(1, 0); !reflect.DeepEqual(got, []uint8{10, 200, 30}) {
			t.Fatalf("%s: unexpected pixel %v", name, got)
		}
	}
}

func TestDecodeUnsupported(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not an image at all")), false)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, sampleNRGBA()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	_ = f.Close()

	raster, format, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if format != "png" || raster.Width != 2 || raster.Height != 1 {
		t.Fatalf("unexpected result: %s %v", format, raster)
	}

	if _, _, err := Load("", false); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
	if _, _, err := Load(filepath.Join(dir, "missing.png"), false); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestHasKnownExtension(t *testing.T) {
	if !HasKnownExtension("frame.CBOR") || !HasKnownExtension("a/b.jpeg") {
		t.Fatalf("expected known extensions")
	}
	if HasKnownExtension("notes.txt") {
		t.Fatalf("txt should not be known")
	}
}
