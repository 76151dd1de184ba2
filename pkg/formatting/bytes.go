package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

var byteUnits = map[string]int64{
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
}

// ParseBytes converts a human-readable size string ("512KB", "50MB", "1GB")
// into a byte count. A bare number is interpreted as bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	unit := int64(1)
	number := s

	for suffix, multiplier := range byteUnits {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			candidate := strings.TrimSpace(strings.TrimSuffix(s, suffix))
			// "B" is a suffix of "KB"/"MB"/"GB"; prefer the longer unit.
			if suffix == "B" && len(s) >= 2 {
				if _, ok := byteUnits[s[len(s)-2:]]; ok {
					continue
				}
			}
			number = candidate
			unit = multiplier
		}
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative size %q", s)
	}

	return int64(value * float64(unit)), nil
}
