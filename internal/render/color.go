package render

import (
	"strconv"
	"strings"
)

const (
	black = "#000000"
	white = "#ffffff"
)

// ContrastColor picks black or white text for a hex background. Values
// above the midpoint of the 24-bit range get black. Unparseable colors get
// black.
func ContrastColor(hex string) string {
	v, ok := parseHex(hex)
	if !ok || v > 0xffffff/2 {
		return black
	}
	return white
}

func parseHex(hex string) (int64, bool) {
	h, ok := strings.CutPrefix(hex, "#")
	if !ok {
		return 0, false
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, false
	}
	v, err := strconv.ParseInt(h, 16, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsHex reports whether c is a #rgb or #rrggbb color.
func IsHex(c string) bool {
	_, ok := parseHex(c)
	return ok
}
