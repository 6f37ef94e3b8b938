// Package display holds console presentation helpers: the banner,
// human-readable size formatting, and the batch summary table.
package display

import (
	"github.com/dustin/go-humanize"
)

// FormatBytes returns a human-readable binary size ("1.5 KiB", "700 MiB").
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}
