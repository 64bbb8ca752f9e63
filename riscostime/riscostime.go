// Package riscostime converts between RISC OS centisecond timestamps
// ("quin"), DOS date/time fields and Go's time.Time, plus the load/exec
// addressing scheme that embeds a quin and a filetype.
package riscostime

import "time"

// UnixToRISCOSEpochSeconds is the number of seconds between the RISC OS
// epoch (1900-01-01 00:00:00 UTC) and the Unix epoch (1970-01-01 00:00:00 UTC).
const UnixToRISCOSEpochSeconds = 2208988800

// DirectoryFiletype is the filetype reported to callers for a directory.
const DirectoryFiletype = 0x1000

// DirectoryFiletypeInternal is the filetype nibble stored inside a
// directory's load address, since 0x1000 itself doesn't fit in 12 bits.
const DirectoryFiletypeInternal = 0xFFD

// Quin is a 40-bit centisecond counter since the RISC OS epoch.
type Quin uint64

// EpochToQuin converts a Unix epoch time (seconds, may be fractional) to a quin.
func EpochToQuin(t time.Time) Quin {
	cs := t.Unix()*100 + int64(t.Nanosecond())/10_000_000
	return Quin(cs + UnixToRISCOSEpochSeconds*100)
}

// QuinToEpoch converts a quin back to a UTC time.Time.
func QuinToEpoch(q Quin) time.Time {
	cs := int64(q) - UnixToRISCOSEpochSeconds*100
	sec := cs / 100
	csRemainder := cs % 100
	if csRemainder < 0 {
		csRemainder += 100
		sec--
	}
	return time.Unix(sec, csRemainder*10_000_000).UTC()
}

// LoadExecToQuin extracts the quin from a typed load/exec pair.
// ok is false when the load address is untyped (opaque).
func LoadExecToQuin(load, exec uint32) (q Quin, ok bool) {
	if load&0xFFF00000 != 0xFFF00000 {
		return 0, false
	}
	return Quin((uint64(load&0xFF) << 32) | uint64(exec)), true
}

// QuinToLoadExec builds a typed load/exec pair for the given quin and
// filetype. DirectoryFiletype is mapped to DirectoryFiletypeInternal, as
// the internal nibble can't represent 0x1000 directly.
func QuinToLoadExec(q Quin, filetype int) (load, exec uint32) {
	ft := filetype
	if ft == DirectoryFiletype {
		ft = DirectoryFiletypeInternal
	}
	load = uint32((uint64(q)>>32)&0xFF) | 0xFFF00000 | uint32(ft)<<8
	exec = uint32(uint64(q) & 0xFFFFFFFF)
	return load, exec
}

// FiletypeOfLoadAddr extracts the filetype nibble from a typed load
// address. The caller must have already checked the address is typed.
func FiletypeOfLoadAddr(load uint32) int {
	return int((load >> 8) & 0xFFF)
}

// IsTyped reports whether a load address encodes a quin/filetype pair
// rather than an opaque absolute address.
func IsTyped(load uint32) bool {
	return load&0xFFF00000 == 0xFFF00000
}

// DOSDateTime is the classic MS-DOS packed date/time pair used by ZIP
// local and central directory headers. Resolution is 2 seconds.
type DOSDateTime struct {
	Date uint16
	Time uint16
}

// ToTime converts a DOS date/time pair into a UTC time.Time.
func (d DOSDateTime) ToTime() time.Time {
	return time.Date(
		int(d.Date>>9+1980),
		time.Month(d.Date>>5&0xf),
		int(d.Date&0x1f),

		int(d.Time>>11),
		int(d.Time>>5&0x3f),
		int(d.Time&0x1f*2),
		0,
		time.UTC,
	)
}

// DOSDateTimeFromTime packs a time.Time (interpreted as UTC, truncated to
// a DOS-epoch floor of 1980-01-01) into a DOS date/time pair.
func DOSDateTimeFromTime(t time.Time) DOSDateTime {
	t = t.UTC()
	year := t.Year()
	if year < 1980 {
		year = 1980
		t = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	date := uint16((year-1980)<<9) | uint16(int(t.Month())<<5) | uint16(t.Day())
	clock := uint16(t.Hour()<<11) | uint16(t.Minute()<<5) | uint16(t.Second()/2)
	return DOSDateTime{Date: date, Time: clock}
}

// NormalizeBrokenDown carries a centisecond remainder that pushes the
// seconds field to 60 or beyond into the minutes field, and minutes into
// hours, rather than relying on time.Date's implicit roll-forward. Hours
// are not carried into the day, month or year, which pass through as given.
func NormalizeBrokenDown(year, month, day, hour, minute, second, centisecond int) (y, mo, d, h, mi, s, cs int) {
	s = second
	mi = minute
	h = hour
	for cs = centisecond; cs >= 100; cs -= 100 {
		s++
	}
	for cs < 0 {
		cs += 100
		s--
	}
	for s >= 60 {
		s -= 60
		mi++
	}
	for s < 0 {
		s += 60
		mi--
	}
	for mi >= 60 {
		mi -= 60
		h++
	}
	for mi < 0 {
		mi += 60
		h--
	}
	return year, month, day, h, mi, s, cs
}
