package ingest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"reflect"
	"sort"

	"github.com/fxamacker/cbor/v2"
)

const (
	tagMultiDimArray = 40
	tagUint8         = 64
	tagUint16LE      = 69
	tagDectris       = 56500
	tagSelfDescribe  = 55799
)

var ErrCompressedFrame = errors.New("compressed detector frames are not supported")

var frameDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

func init() {
	magics := []string{
		"\xd8\x28",     // bare tag 40
		"\xd9\xd9\xf7", // self-described CBOR
	}
	// Message maps: 1 to 23 keys inline, a one-byte key count, or
	// indefinite length.
	for b := 0xa1; b <= 0xb8; b++ {
		magics = append(magics, string([]byte{byte(b)}))
	}
	magics = append(magics, "\xbf")
	for _, magic := range magics {
		image.RegisterFormat("cbor", magic, decodeFrame, decodeFrameConfig)
	}
}

func decodeFrame(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := frameDecMode.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("cbor frame: %w", err)
	}
	value, err := unwrapMessage(payload)
	if err != nil {
		return nil, err
	}
	return decodeMultiDimArray(value)
}

func decodeFrameConfig(r io.Reader) (image.Config, error) {
	img, err := decodeFrame(r)
	if err != nil {
		return image.Config{}, err
	}
	b := img.Bounds()
	return image.Config{
		ColorModel: img.ColorModel(),
		Width:      b.Dx(),
		Height:     b.Dy(),
	}, nil
}

// unwrapMessage accepts either a bare multidim array or an image message
// shaped like {"type": "image", "data": {"<channel>": <multidim>}}.
// The first channel in key order is used.
func unwrapMessage(payload any) (any, error) {
	if tag, ok := payload.(cbor.Tag); ok && tag.Number == tagSelfDescribe {
		payload = tag.Content
	}
	msg, ok := payload.(map[string]any)
	if !ok {
		return payload, nil
	}
	if msgType, _ := msg["type"].(string); msgType != "" && msgType != "image" {
		return nil, fmt.Errorf("cbor frame: unexpected message type %q", msgType)
	}
	dataMap, ok := msg["data"].(map[string]any)
	if !ok || len(dataMap) == 0 {
		return nil, errors.New("cbor frame: missing data field")
	}
	channels := make([]string, 0, len(dataMap))
	for ch := range dataMap {
		channels = append(channels, ch)
	}
	sort.Strings(channels)
	return dataMap[channels[0]], nil
}

func decodeMultiDimArray(value any) (image.Image, error) {
	tag, ok := value.(cbor.Tag)
	if !ok || tag.Number != tagMultiDimArray {
		return nil, fmt.Errorf("expected multidim tag 40")
	}

	items, ok := tag.Content.([]any)
	if !ok || len(items) != 2 {
		return nil, fmt.Errorf("invalid multidim array content")
	}

	dimsRaw, ok := items[0].([]any)
	if !ok || (len(dimsRaw) != 2 && len(dimsRaw) != 3) {
		return nil, fmt.Errorf("invalid multidim dimensions")
	}

	rows, err := toInt(dimsRaw[0])
	if err != nil {
		return nil, err
	}
	cols, err := toInt(dimsRaw[1])
	if err != nil {
		return nil, err
	}
	channels := 1
	if len(dimsRaw) == 3 {
		channels, err = toInt(dimsRaw[2])
		if err != nil {
			return nil, err
		}
		if channels != 1 && channels != 3 {
			return nil, fmt.Errorf("unsupported channel count %d", channels)
		}
	}
	if rows < 1 || cols < 1 {
		return nil, ErrEmptyImage
	}

	flat, err := decodeTypedArray(items[1])
	if err != nil {
		return nil, err
	}

	switch v := flat.(type) {
	case []uint8:
		return reshapeUint8(v, rows, cols, channels)
	case []uint16:
		return reshapeUint16(v, rows, cols, channels)
	default:
		return nil, errors.New("unsupported typed array type")
	}
}

func decodeTypedArray(value any) (any, error) {
	tag, ok := value.(cbor.Tag)
	if !ok {
		return nil, fmt.Errorf("expected typed array tag")
	}

	dataBytes, err := extractBytes(tag)
	if err != nil {
		return nil, err
	}

	switch tag.Number {
	case tagUint8:
		return dataBytes, nil
	case tagUint16LE:
		return bytesToUint16(dataBytes), nil
	default:
		return nil, fmt.Errorf("unsupported typed array tag %d", tag.Number)
	}
}

func extractBytes(tag cbor.Tag) ([]byte, error) {
	switch v := tag.Content.(type) {
	case []byte:
		return v, nil
	case cbor.Tag:
		if v.Number == tagDectris {
			return nil, ErrCompressedFrame
		}
		return nil, fmt.Errorf("unsupported nested tag %d", v.Number)
	default:
		return nil, fmt.Errorf("unsupported typed array content %T", v)
	}
}

func bytesToUint16(data []byte) []uint16 {
	out := make([]uint16, len(data)/2)
	for i := 0; i < len(out); i++ {
		out[i] = binary.LittleEndian.Uint16(data[i*2 : i*2+2])
	}
	return out
}

func reshapeUint8(flat []uint8, rows, cols, channels int) (image.Image, error) {
	if err := checkDims(rows, cols, channels, len(flat)); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, cols, rows)
	if channels == 1 {
		img := image.NewGray(rect)
		copy(img.Pix, flat)
		return img, nil
	}
	img := image.NewNRGBA(rect)
	for i := 0; i < rows*cols; i++ {
		copy(img.Pix[i*4:i*4+3], flat[i*3:i*3+3])
		img.Pix[i*4+3] = 0xff
	}
	return img, nil
}

func reshapeUint16(flat []uint16, rows, cols, channels int) (image.Image, error) {
	if err := checkDims(rows, cols, channels, len(flat)); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, cols, rows)
	if channels == 1 {
		img := image.NewGray16(rect)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				img.SetGray16(c, r, color.Gray16{Y: flat[r*cols+c]})
			}
		}
		return img, nil
	}
	img := image.NewNRGBA64(rect)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := (r*cols + c) * 3
			img.SetNRGBA64(c, r, color.NRGBA64{R: flat[i], G: flat[i+1], B: flat[i+2], A: 0xffff})
		}
	}
	return img, nil
}

// checkDims compares the frame shape against n samples without forming a
// product that could overflow.
func checkDims(rows, cols, channels, n int) error {
	if cols > n/channels || rows > n/(cols*channels) || rows*cols*channels != n {
		return errors.New("dimension mismatch")
	}
	return nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case uint32:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("unsupported int type %T", v)
	}
}
