package ingest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"img2csv/internal/types"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrEmptyImage        = errors.New("image has no pixels")
	ErrEmptyPath         = errors.New("empty image path")
)

// Extensions lists the file extensions of the registered decoders.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp", ".cbor"}

func HasKnownExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range Extensions {
		if ext == known {
			return true
		}
	}
	return false
}

// Load opens and decodes the image at path. When rgb is false the raster
// holds one BT.709 luma byte per pixel, otherwise R, G and B.
func Load(path string, rgb bool) (*types.Raster, string, error) {
	if path == "" {
		return nil, "", ErrEmptyPath
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	return Decode(f, rgb)
}

func Decode(r io.Reader, rgb bool) (*types.Raster, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupportedFormat
		}
		return nil, format, fmt.Errorf("decode %s: %w", format, err)
	}
	raster, err := FromImage(img, rgb)
	if err != nil {
		return nil, format, err
	}
	return raster, format, nil
}

// FromImage converts img to an 8-bit raster. Alpha is dropped and colors are
// taken non-premultiplied; 16-bit samples are rounded to the nearest 8-bit
// value.
func FromImage(img image.Image, rgb bool) (*types.Raster, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 1 || h < 1 {
		return nil, ErrEmptyImage
	}

	channels := 1
	if rgb {
		channels = 3
	}
	raster := types.NewRaster(w, h, channels)

	if gray, ok := img.(*image.Gray); ok && !rgb {
		for y := 0; y < h; y++ {
			start := gray.PixOffset(b.Min.X, b.Min.Y+y)
			copy(raster.Pix[y*w:(y+1)*w], gray.Pix[start:start+w])
		}
		return raster, nil
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl := sample8(img.At(b.Min.X+x, b.Min.Y+y))
			if rgb {
				raster.Set(x, y, r, g, bl)
			} else {
				raster.Set(x, y, Luma(r, g, bl))
			}
		}
	}
	return raster, nil
}

func sample8(c color.Color) (r, g, b uint8) {
	switch c := c.(type) {
	case color.NRGBA:
		return c.R, c.G, c.B
	case color.Gray:
		return c.Y, c.Y, c.Y
	case color.Gray16, color.NRGBA64, color.RGBA64:
		n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
		return Scale16(n.R), Scale16(n.G), Scale16(n.B)
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R, n.G, n.B
}

// Scale16 maps a 16-bit sample onto 0..255, rounding to nearest.
func Scale16(v uint16) uint8 {
	return uint8((uint32(v)*255 + 32767) / 65535)
}

// Luma weights an 8-bit color with ITU-R BT.709 coefficients, truncating.
func Luma(r, g, b uint8) uint8 {
	l := (2126*uint32(r) + 7152*uint32(g) + 722*uint32(b)) / 10000
	if l > 255 {
		l = 255
	}
	return uint8(l)
}
