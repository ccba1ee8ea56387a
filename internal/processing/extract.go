package processing

import (
	"errors"
	"fmt"

	"img2csv/internal/types"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Extract returns the selected channel bytes of pixel (x, y).
func Extract(r *types.Raster, x, y int, channels []int) ([]uint8, error) {
	if !r.InBounds(x, y) {
		return nil, fmt.Errorf("pixel (%d, %d) outside %dx%d: %w", x, y, r.Width, r.Height, ErrIndexOutOfRange)
	}
	px := r.At(x, y)
	out := make([]uint8, len(channels))
	for i, ch := range channels {
		if ch < 0 || ch >= len(px) {
			return nil, fmt.Errorf("channel %d of %d: %w", ch, len(px), ErrIndexOutOfRange)
		}
		out[i] = px[ch]
	}
	return out, nil
}
