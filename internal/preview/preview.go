// Package preview renders the confirmation fragment shown next to a file
// input once a file has been picked.
package preview

import "fmt"

// Checkmark prefixes every preview fragment.
const Checkmark = "✅"

// Message returns the preview HTML for a selected file. The name is
// inserted as-is; the size is shown in kilobytes with two decimals.
func Message(name string, size int64) string {
	return fmt.Sprintf("%s <strong>%s</strong><br><small>%s KB</small>", Checkmark, name, KB(size))
}

// KB formats size/1024 with exactly two decimals, rounding ties away from
// zero on the exact quotient (128 bytes is "0.13").
func KB(size int64) string {
	neg := size < 0
	if neg {
		size = -size
	}
	whole, rem := size/1024, size%1024
	hundredths := (rem*100 + 512) / 1024
	if hundredths == 100 {
		whole++
		hundredths = 0
	}
	if neg && (whole != 0 || hundredths != 0) {
		return fmt.Sprintf("-%d.%02d", whole, hundredths)
	}
	return fmt.Sprintf("%d.%02d", whole, hundredths)
}
