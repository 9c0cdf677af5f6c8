package vitals

import (
	"fmt"
	"strconv"
	"strings"

	"papermc/pkg/sdk"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// ParseTotalMemory turns the backend's heap setting ("4G", "512M") into bytes.
// Anything else yields 0.
func ParseTotalMemory(s string) uint64 {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return 0
	}

	var unit uint64
	switch s[len(s)-1] {
	case 'G':
		unit = gib
	case 'M':
		unit = mib
	default:
		return 0
	}

	n, err := strconv.ParseUint(s[:len(s)-1], 10, 64)
	if err != nil {
		return 0
	}
	return n * unit
}

// RAMPercent is used RAM against the configured heap, or 0 when the heap size is
// unknown.
func RAMPercent(v sdk.Vitals) float64 {
	total := ParseTotalMemory(v.TotalMemory)
	if total == 0 {
		return 0
	}
	return float64(v.RAM) / float64(total) * 100
}

// FormatRAM renders used memory in GB next to the configured heap, e.g.
// "2.0 GB / 4G".
func FormatRAM(v sdk.Vitals) string {
	used := float64(v.RAM) / gib
	total := v.TotalMemory
	if total == "" {
		total = "?"
	}
	return fmt.Sprintf("%.1f GB / %s", used, total)
}

func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func FormatCPU(v sdk.Vitals) string {
	return FormatPercent(v.CPU)
}

// StatusLabel maps a missing snapshot to "Offline".
func StatusLabel(v *sdk.Vitals) string {
	if v == nil || v.Status == "" {
		return "Offline"
	}
	return v.Status
}
