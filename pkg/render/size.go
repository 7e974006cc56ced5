package render

import "github.com/dustin/go-humanize"

// FormatSize renders a weight as binary bytes, e.g. "1.5 KiB".
func FormatSize(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}
