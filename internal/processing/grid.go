package processing

import (
	"fmt"

	"img2csv/internal/types"
)

// BuildGrid normalizes r in row-major order: grid[y] holds row y and each
// pixel contributes one value per layout channel, left to right.
func BuildGrid(r *types.Raster, layout types.Layout) (types.Grid, error) {
	if layout.Color() != (r.Channels == 3) {
		return nil, fmt.Errorf("layout %q does not match %d-channel raster", layout, r.Channels)
	}
	channels := layout.Channels()
	grid := make(types.Grid, r.Height)
	for y := 0; y < r.Height; y++ {
		row := make([]float32, 0, r.Width*len(channels))
		for x := 0; x < r.Width; x++ {
			values, err := Extract(r, x, y, channels)
			if err != nil {
				return nil, err
			}
			row = append(row, NormalizePixel(values)...)
		}
		grid[y] = row
	}
	return grid, nil
}

// BuildLegacyGrid reproduces the historic color layout. Pixels are first
// collected column by column into a flat slice where element i is pixel
// (i / height, i % height). The table is then read back with the width and
// height bounds swapped, keeping only red:
//
//	table[y][x] = flat[x*height + y][0], y in [0, width), x in [0, height)
//
// Square images come out correct. Wider images are reordered, and taller
// images run past the end of flat and fail with ErrIndexOutOfRange.
func BuildLegacyGrid(r *types.Raster) (types.Grid, error) {
	if r.Channels != 3 {
		return nil, fmt.Errorf("legacy layout needs an RGB raster, got %d channels", r.Channels)
	}
	width, height := r.Width, r.Height

	flat := make([][]float32, 0, width*height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			values, err := Extract(r, x, y, types.LayoutRGB.Channels())
			if err != nil {
				return nil, err
			}
			flat = append(flat, NormalizePixel(values))
		}
	}

	grid := make(types.Grid, 0, width)
	for y := 0; y < width; y++ {
		row := make([]float32, 0, height)
		for x := 0; x < height; x++ {
			i := x*height + y
			if i >= len(flat) {
				return nil, fmt.Errorf("legacy index %d into %d pixels (%dx%d): %w", i, len(flat), width, height, ErrIndexOutOfRange)
			}
			row = append(row, flat[i][0])
		}
		grid = append(grid, row)
	}
	return grid, nil
}
