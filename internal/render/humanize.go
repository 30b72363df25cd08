package render

import "fmt"

var byteUnits = []string{"bytes", "KB", "MB", "GB"}

// HumanBytes formats size with two decimals in base 1024 units. GB is the
// largest unit.
func HumanBytes(size int64) string {
	v := float64(size)
	for i, unit := range byteUnits {
		if v < 1024 || i == len(byteUnits)-1 {
			return fmt.Sprintf("%.2f%s", v, unit)
		}
		v /= 1024
	}
	return ""
}
