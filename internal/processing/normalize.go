package processing

import "math"

const (
	channelMin = 0
	channelMax = math.MaxUint8
)

// Normalize min-max scales an 8-bit channel value into [0, 1].
func Normalize(v uint8) float32 {
	return float32(int(v)-channelMin) / float32(channelMax-channelMin)
}

// NormalizePixel scales each channel independently.
func NormalizePixel(values []uint8) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = Normalize(v)
	}
	return out
}
