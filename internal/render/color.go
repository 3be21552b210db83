package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor understands the color strings the host UI produces: #rgb, #rgba,
// #rrggbb, #rrggbbaa, CSS named colors and "transparent".
// The style configuration never calls this; only painters do.
func ParseColor(value string) (color.RGBA, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "transparent" {
		return color.RGBA{}, nil
	}
	if hex, ok := strings.CutPrefix(v, "#"); ok {
		return parseHex(hex, value)
	}
	if named, ok := colornames.Map[v]; ok {
		return named, nil
	}
	return color.RGBA{}, fmt.Errorf("unsupported color %q", value)
}

func parseHex(hex, original string) (color.RGBA, error) {
	switch len(hex) {
	case 3, 4:
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", original)
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", original)
	}
	if len(hex) == 6 {
		value = value<<8 | 0xFF
	}
	// Alpha-premultiplied, as color.RGBA requires.
	a := uint32(value & 0xFF)
	r := uint32((value>>24)&0xFF) * a / 0xFF
	g := uint32((value>>16)&0xFF) * a / 0xFF
	b := uint32((value>>8)&0xFF) * a / 0xFF
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, nil
}
