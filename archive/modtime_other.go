//go:build !unix

package archive

import (
	"os"
	"time"
)

// setModTime is the non-Unix fallback: os.Chtimes, which follows symlinks.
func setModTime(path string, year, month, day, hour, minute, second int) {
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	_ = os.Chtimes(path, t, t)
}
