package riscosmeta

import (
	"time"

	"github.com/rozip/rozip/extrafield"
	"github.com/rozip/rozip/nfsencoding"
	"github.com/rozip/rozip/riscosname"
	"github.com/rozip/rozip/riscostime"
)

// DOS/MS-DOS external-attribute bits (low byte of ExternalAttr).
const (
	extAttrMSDOSReadonly  = 1 << 0
	extAttrMSDOSDirectory = 1 << 4
)

// ZIP internal-attribute bits.
const (
	internalAttrText = 1 << 0
)

// RISC OS attribute bits, per spec.md §4.6.
const (
	AttrRead         = 0x01
	AttrWrite        = 0x02
	AttrLocked       = 0x08
	AttrPublicRead   = 0x10
	AttrPublicWrite  = 0x20
	AttrPublicLocked = 0x40
)

// DirectoryFiletype is the external sentinel filetype reported for
// directories. DirectoryFiletypeInternal is what's actually packed into a
// typed load address for a directory.
const (
	DirectoryFiletype         = riscostime.DirectoryFiletype
	DirectoryFiletypeInternal = riscostime.DirectoryFiletypeInternal
)

// Record is the central metadata entity: one ZIP archive member's
// attributes, both at the ZIP level (Filename, DateTime, InternalAttr,
// ExternalAttr, FileSize) and the derived-or-explicit RISC OS level
// (load/exec, filetype, object type, attributes, RISC OS filename).
//
// Setters are not commutative (spec.md §4.7): apply them in the order the
// caller issues them, exactly as received — Record performs no implicit
// reordering.
type Record struct {
	cfg *Config

	// Filename is always canonical Unicode in POSIX layout. When
	// NFSEncoding is on, it carries the NFS-encoded suffix.
	Filename string
	// DateTime is the DOS-style (Y, M, D, h, m, s) broken-down time. It is
	// stored as given; dates before the 1980 DOS epoch are not floored here.
	DateTime [6]int
	InternalAttr uint16
	ExternalAttr uint32
	FileSize     uint64

	riscosLoadaddr explicitField[uint32]
	riscosExecaddr explicitField[uint32]
	riscosDateTime explicitField[[7]int] // y, mo, d, h, mi, s, centisecond
	riscosFiletype explicitField[int]
	riscosObjtype  explicitField[int]
	riscosAttr     explicitField[uint8]
	riscosFilename explicitField[[]byte]

	nfsEncoding   bool
	riscosPresent bool
	corruptExtra  bool

	// otherExtra holds the non-RISC-OS chunks last seen in (or built for)
	// this record's extra field, preserved byte for byte per I2.
	otherExtra []extrafield.Chunk

	// originalExtra and originalExtraDigest cache the raw extra-field bytes
	// this record was parsed from (if any), so BuildExtra can cheaply tell
	// whether the ARC0 chunk it would emit actually differs from what was
	// read in, and hand back the original bytes unchanged when it doesn't.
	originalExtra       []byte
	originalExtraDigest uint64
	hasOriginalExtra    bool
}

// New constructs an empty record at the RISC OS/DOS base date, matching
// spec.md scenario 1's default construction.
func New(cfg *Config) *Record {
	return &Record{
		cfg:      cfg,
		Filename: "NoName",
		DateTime: [6]int{1980, 1, 1, 0, 0, 0},
	}
}

// RiscosPresent reports whether any riscos_* setter has run, or the extra
// field carried an ARC0 chunk on construction (spec.md §3.3 I-present).
func (r *Record) RiscosPresent() bool { return r.riscosPresent }

// CorruptExtra reports whether the extra field failed to parse; in that
// case RiscosPresent is false and all riscos_* fields are synthesised.
func (r *Record) CorruptExtra() bool { return r.corruptExtra }

// NFSEncoding reports whether NFS filename-suffix encoding is active.
func (r *Record) NFSEncoding() bool { return r.nfsEncoding }

// RiscosObjtype returns 1 for a file or 2 for a directory.
func (r *Record) RiscosObjtype() int {
	if v, ok := r.riscosObjtype.Explicit(); ok && v != 0 {
		return v
	}
	if r.ExternalAttr&extAttrMSDOSDirectory != 0 {
		return 2
	}
	return 1
}

// RiscosFiletype returns the 12-bit filetype, DirectoryFiletype for
// directories, or -1 if untyped. See spec.md §4.5 for the inference order.
func (r *Record) RiscosFiletype() int {
	if r.RiscosObjtype() == 2 {
		return DirectoryFiletype
	}
	if v, ok := r.riscosFiletype.Explicit(); ok {
		return v
	}

	if r.nfsEncoding {
		e := nfsencoding.Extract(r.Filename)
		if e.Filetype != nil {
			return *e.Filetype
		}
		if e.Load != nil {
			return -1
		}
	}

	if load, ok := r.riscosLoadaddr.Explicit(); ok {
		if load&0xFFF00000 != 0xFFF00000 {
			return -1
		}
		return int((load >> 8) & 0xFFF)
	}

	if ft, ok := r.cfg.inferFiletype(r.Filename); ok {
		return ft
	}

	return r.cfg.defaultFiletypeFor(r.InternalAttr&internalAttrText != 0)
}

// RiscosLoadaddr returns the load address, synthesising it from the
// current RISC OS date/time and filetype if none was set explicitly.
func (r *Record) RiscosLoadaddr() uint32 {
	if load, ok := r.riscosLoadaddr.Explicit(); ok {
		if load&0xFFF00000 == 0xFFF00000 {
			ft := r.RiscosFiletype()
			internal := ft
			if ft == DirectoryFiletype {
				internal = DirectoryFiletypeInternal
			}
			return (load & 0xFFF000FF) | (uint32(internal) << 8)
		}
		return load
	}

	if r.RiscosObjtype() == 1 && r.nfsEncoding {
		e := nfsencoding.Extract(r.Filename)
		if e.Load != nil {
			return *e.Load
		}
	}

	q := riscostime.EpochToQuin(r.riscosDateTimeAsTime())
	load, _ := riscostime.QuinToLoadExec(q, r.RiscosFiletype())
	return load
}

// RiscosExecaddr returns the exec address, synthesising it from the
// current RISC OS date/time if none was set explicitly.
func (r *Record) RiscosExecaddr() uint32 {
	if exec, ok := r.riscosExecaddr.Explicit(); ok {
		return exec
	}

	if r.nfsEncoding {
		e := nfsencoding.Extract(r.Filename)
		if e.Exec != nil {
			return *e.Exec
		}
	}

	q := riscostime.EpochToQuin(r.riscosDateTimeAsTime())
	_, exec := riscostime.QuinToLoadExec(q, r.RiscosFiletype())
	return exec
}

// RiscosDateTime returns (year, month, day, hour, minute, second,
// centisecond), derived from the typed load/exec quin when present and
// not overridden, else from DateTime with a zero centisecond.
func (r *Record) RiscosDateTime() (year, month, day, hour, minute, second, centisecond int) {
	if v, ok := r.riscosDateTime.Explicit(); ok {
		return v[0], v[1], v[2], v[3], v[4], v[5], v[6]
	}

	if load, ok := r.riscosLoadaddr.Explicit(); ok {
		exec, _ := r.riscosExecaddr.Explicit()
		if q, typed := riscostime.LoadExecToQuin(load, exec); typed {
			t := riscostime.QuinToEpoch(q)
			y, mo, d := t.Date()
			h, mi, s := t.Clock()
			cs := t.Nanosecond() / 10_000_000
			return y, int(mo), d, h, mi, s, cs
		}
	}

	dt := r.DateTime
	return dt[0], dt[1], dt[2], dt[3], dt[4], dt[5], 0
}

func (r *Record) riscosDateTimeAsTime() time.Time {
	y, mo, d, h, mi, s, cs := r.RiscosDateTime()
	y, mo, d, h, mi, s, cs = riscostime.NormalizeBrokenDown(y, mo, d, h, mi, s, cs)
	return time.Date(y, time.Month(mo), d, h, mi, s, cs*10_000_000, time.UTC)
}

// RiscosAttr returns the RISC OS attribute bitfield, inferred from POSIX
// mode bits or the DOS read-only bit when not set explicitly (spec.md §4.6).
func (r *Record) RiscosAttr() uint8 {
	if v, ok := r.riscosAttr.Explicit(); ok {
		return v
	}

	if r.ExternalAttr&0xFFFF0000 != 0 {
		posix := r.ExternalAttr >> 16
		var attr uint8
		if posix&0o222 != 0 {
			attr |= AttrWrite | AttrPublicWrite
		}
		if posix&0o444 != 0 {
			attr |= AttrRead | AttrPublicRead
		}
		return attr
	}

	if r.ExternalAttr&extAttrMSDOSReadonly != 0 {
		return AttrRead | AttrPublicRead
	}

	return 0x33
}

// RiscosFilename returns the RISC OS-layout, RISC OS-locale-encoded name
// for this record's whole path (e.g. "c.file"), synthesising it from
// Filename when not set explicitly.
func (r *Record) RiscosFilename() []byte {
	if v, ok := r.riscosFilename.Explicit(); ok {
		return v
	}

	var name string
	if r.nfsEncoding {
		name = nfsencoding.Extract(r.Filename).Name
	} else {
		name = r.Filename
	}

	enc := riscosname.EncodeToRISCOS(name, r.cfg.Name)
	posix := riscosname.SanitisePOSIX(string(enc))
	layout := riscosname.ToRISCOSLayout(posix)
	return riscosname.SanitiseRISCOS([]byte(layout))
}
