//go:build unix

package archive

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// setModTime stamps the extracted file's access/modification time using
// Lutimes so a symlink target isn't followed, falling back to os.Chtimes
// (which does follow symlinks) if Lutimes isn't supported on this path.
func setModTime(path string, year, month, day, hour, minute, second int) {
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	tv := []unix.Timeval{
		unix.NsecToTimeval(t.UnixNano()),
		unix.NsecToTimeval(t.UnixNano()),
	}
	if err := unix.Lutimes(path, tv); err != nil {
		_ = os.Chtimes(path, t, t)
	}
}
