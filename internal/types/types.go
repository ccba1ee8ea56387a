package types

import "fmt"

// Raster is a decoded image with 8-bit channels stored row-major.
// Grayscale rasters carry one luma byte per pixel, color rasters carry R, G, B.
type Raster struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

func NewRaster(width, height, channels int) *Raster {
	return &Raster{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// PixOffset returns the index of the first channel byte of pixel (x, y).
func (r *Raster) PixOffset(x, y int) int {
	return (y*r.Width + x) * r.Channels
}

func (r *Raster) InBounds(x, y int) bool {
	return x >= 0 && x < r.Width && y >= 0 && y < r.Height
}

// At returns the channel bytes of pixel (x, y). The slice aliases Pix.
func (r *Raster) At(x, y int) []uint8 {
	i := r.PixOffset(x, y)
	return r.Pix[i : i+r.Channels : i+r.Channels]
}

func (r *Raster) Set(x, y int, values ...uint8) {
	copy(r.At(x, y), values)
}

func (r *Raster) String() string {
	return fmt.Sprintf("%dx%d/%dch", r.Width, r.Height, r.Channels)
}

// Grid holds normalized values, one inner slice per output row.
type Grid [][]float32

func (g Grid) Rows() int {
	return len(g)
}

func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Layout selects which channels of each pixel end up in the table.
type Layout string

const (
	LayoutLuma Layout = "luma"
	LayoutRed  Layout = "red"
	LayoutRGB  Layout = "rgb"
)

// Channels returns the raster channel indices read for each pixel.
func (l Layout) Channels() []int {
	switch l {
	case LayoutRGB:
		return []int{0, 1, 2}
	default:
		return []int{0}
	}
}

// Color reports whether the layout needs an RGB raster rather than luma.
func (l Layout) Color() bool {
	return l == LayoutRed || l == LayoutRGB
}
