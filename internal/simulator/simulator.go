package simulator

import (
	"fmt"
	"math"

	"img2csv/internal/types"
)

const (
	PatternSpot     = "spot"
	PatternGradient = "gradient"
	PatternSolid    = "solid"
)

// Generate builds a synthetic raster. Luma rasters carry the pattern
// directly; RGB rasters carry the pattern in red, its inverse in green and
// value in blue.
func Generate(pattern string, width, height int, value uint8, rgb bool) (*types.Raster, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	sample, err := sampler(pattern, width, height, value)
	if err != nil {
		return nil, err
	}

	channels := 1
	if rgb {
		channels = 3
	}
	raster := types.NewRaster(width, height, channels)
	for i := 0; i < width*height; i++ {
		x := i % width
		y := i / width
		v := sample(x, y)
		if rgb {
			raster.Set(x, y, v, math.MaxUint8-v, value)
		} else {
			raster.Set(x, y, v)
		}
	}
	return raster, nil
}

func sampler(pattern string, width, height int, value uint8) (func(x, y int) uint8, error) {
	switch pattern {
	case PatternSolid:
		return func(int, int) uint8 { return value }, nil
	case PatternGradient:
		span := width + height - 2
		if span == 0 {
			span = 1
		}
		return func(x, y int) uint8 {
			return uint8((x + y) * math.MaxUint8 / span)
		}, nil
	case PatternSpot, "":
		centerX := float64(width) / 2.0
		centerY := float64(height) / 2.0
		spread := float64(width*height) / 20
		return func(x, y int) uint8 {
			dx := float64(x) - centerX
			dy := float64(y) - centerY
			distance := math.Sqrt(dx*dx + dy*dy)
			base := math.MaxUint8 * math.Exp(-(distance*distance)/spread)
			return uint8(math.Round(base))
		}, nil
	default:
		return nil, fmt.Errorf("unknown pattern %q", pattern)
	}
}
