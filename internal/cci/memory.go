package cci

import (
	"strconv"
	"strings"

	"slcli/internal/guard"
)

// ParseMemory converts a memory flag value to megabytes.
//
// Plain integers are megabytes, except that values below 1024 are taken as
// gigabytes. A G or T suffix selects gigabytes or terabytes, M megabytes.
func ParseMemory(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, guard.Invalid("memory", "value is required")
	}

	if n, err := strconv.Atoi(value); err == nil {
		if n <= 0 {
			return 0, guard.Invalid("memory", "%q must be positive", value)
		}
		if n < 1024 {
			return n * 1024, nil
		}
		return n, nil
	}

	unit := value[len(value)-1]
	n, err := strconv.Atoi(strings.TrimSpace(value[:len(value)-1]))
	if err != nil || n <= 0 {
		return 0, guard.Invalid("memory", "%q is not a memory size", value)
	}
	switch unit {
	case 'M', 'm':
		return n, nil
	case 'G', 'g':
		return n * 1024, nil
	case 'T', 't':
		return n * 1024 * 1024, nil
	default:
		return 0, guard.Invalid("memory", "unknown unit %q in %q", string(unit), value)
	}
}

// FormatMemory renders megabytes as gigabytes, e.g. 2048 -> "2G".
func FormatMemory(mb int) string {
	if mb%1024 == 0 {
		return strconv.Itoa(mb/1024) + "G"
	}
	return strconv.FormatFloat(float64(mb)/1024, 'f', 1, 64) + "G"
}
