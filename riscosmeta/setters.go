package riscosmeta

import (
	"strings"

	"github.com/rozip/rozip/nfsencoding"
	"github.com/rozip/rozip/riscosname"
	"github.com/rozip/rozip/riscostime"
)

// SetRiscosLoadaddr sets the load address explicitly. Per spec.md §4.7
// this clears any explicit filetype (it will be re-derived from the new
// load) and recomputes DateTime from the resulting quin.
func (r *Record) SetRiscosLoadaddr(load uint32) {
	r.riscosLoadaddr.Set(load)
	r.riscosFiletype.Clear()
	r.recomputeDateTimeFromLoadExec()
	r.riscosPresent = true
}

// SetRiscosExecaddr sets the exec address explicitly and recomputes
// DateTime from the resulting quin.
func (r *Record) SetRiscosExecaddr(exec uint32) {
	r.riscosExecaddr.Set(exec)
	r.recomputeDateTimeFromLoadExec()
	r.riscosPresent = true
}

func (r *Record) recomputeDateTimeFromLoadExec() {
	load, hasLoad := r.riscosLoadaddr.Explicit()
	exec, _ := r.riscosExecaddr.Explicit()
	if !hasLoad {
		return
	}
	q, typed := riscostime.LoadExecToQuin(load, exec)
	if !typed {
		return
	}
	t := riscostime.QuinToEpoch(q)
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	cs := t.Nanosecond() / 10_000_000
	r.riscosDateTime.Set([7]int{y, int(mo), d, h, mi, s, cs})
	r.DateTime = [6]int{y, int(mo), d, h, mi, s}
}

// SetRiscosDateTime sets the RISC OS timestamp explicitly, updating
// DateTime; if either load or exec address was already explicit, both are
// recomputed from the new quin and the current filetype (spec.md §4.7).
// Overflowing seconds/centiseconds (e.g. a fractional-second float that
// rounds to ≥60 seconds) are normalised before use.
func (r *Record) SetRiscosDateTime(year, month, day, hour, minute, second, centisecond int) {
	year, month, day, hour, minute, second, centisecond = riscostime.NormalizeBrokenDown(
		year, month, day, hour, minute, second, centisecond)

	r.riscosDateTime.Set([7]int{year, month, day, hour, minute, second, centisecond})
	r.DateTime = [6]int{year, month, day, hour, minute, second}

	_, hasLoad := r.riscosLoadaddr.Explicit()
	_, hasExec := r.riscosExecaddr.Explicit()
	if !hasLoad && !hasExec {
		return
	}

	t := r.riscosDateTimeAsTime()
	q := riscostime.EpochToQuin(t)
	load, exec := riscostime.QuinToLoadExec(q, r.RiscosFiletype())
	r.riscosLoadaddr.Set(load)
	r.riscosExecaddr.Set(exec)
}

// SetRiscosFiletype sets the filetype explicitly. Setting it to
// DirectoryFiletype switches the object to a directory (spec.md §4.7);
// any other value forces the object to be a file. If a typed load address
// is present its filetype nibble is replaced in place; if untyped, load
// and exec are rebuilt from the current RISC OS date/time. The internal
// text attribute bit is toggled to match, and the filename's NFS suffix
// (if active) is refreshed.
func (r *Record) SetRiscosFiletype(filetype int) {
	if filetype == DirectoryFiletype {
		r.riscosFiletype.Clear()
		r.SetRiscosObjtype(2)
	} else if r.RiscosObjtype() != 1 {
		r.SetRiscosObjtype(1)
	}

	if load, ok := r.riscosLoadaddr.Explicit(); ok {
		if load&0xFFF00000 == 0xFFF00000 {
			internal := filetype
			if filetype == DirectoryFiletype {
				internal = DirectoryFiletypeInternal
			}
			r.riscosLoadaddr.Set((load & 0xFFF000FF) | (uint32(internal) << 8))
		} else {
			t := r.riscosDateTimeAsTime()
			q := riscostime.EpochToQuin(t)
			newLoad, newExec := riscostime.QuinToLoadExec(q, filetype)
			r.riscosLoadaddr.Set(newLoad)
			r.riscosExecaddr.Set(newExec)
		}
	}

	if filetype == r.cfg.DefaultFiletypeText && r.cfg.DefaultFiletypeText != r.cfg.DefaultFiletype {
		r.InternalAttr |= internalAttrText
	} else {
		r.InternalAttr &^= internalAttrText
	}

	r.riscosFiletype.Set(filetype)
	r.riscosPresent = true

	if r.nfsEncoding {
		r.updateNFSEncoding()
	}
}

// SetRiscosObjtype sets the object type explicitly (1 = file, 2 =
// directory), adjusting the DOS directory bit, the trailing '/' on
// Filename, and (for directories) resetting the load address to the
// directory-internal filetype (spec.md §4.7).
func (r *Record) SetRiscosObjtype(objtype int) {
	if objtype == 2 {
		r.riscosFiletype.Clear()
		if load, ok := r.riscosLoadaddr.Explicit(); ok {
			r.riscosLoadaddr.Set((load & 0xFFF000FF) | (uint32(DirectoryFiletypeInternal) << 8))
		}
	}

	r.riscosObjtype.Set(objtype)
	r.riscosPresent = true

	if r.nfsEncoding {
		r.updateNFSEncoding()
	}

	if objtype == 2 {
		r.ExternalAttr |= extAttrMSDOSDirectory
		if r.ExternalAttr&0xFFFF0000 != 0 {
			readBits := r.ExternalAttr & (0o444 << 16)
			r.ExternalAttr |= readBits >> 2
			r.ExternalAttr |= readBits >> 1
		}
		if !strings.HasSuffix(r.Filename, "/") {
			r.Filename += "/"
		}
	} else {
		r.ExternalAttr &^= extAttrMSDOSDirectory
		r.Filename = strings.TrimSuffix(r.Filename, "/")
	}
}

// SetRiscosAttr sets the RISC OS attribute bitfield explicitly, reflecting
// the write/read state back into ExternalAttr's DOS read-only bit and, if
// POSIX mode bits are already present, its 0o222/0o444 bits (spec.md §4.6).
func (r *Record) SetRiscosAttr(attr uint8) {
	if attr&AttrWrite != 0 {
		r.ExternalAttr &^= extAttrMSDOSReadonly
		if r.ExternalAttr&0xFFFF0000 != 0 {
			r.ExternalAttr |= 0o222 << 16
		}
	} else {
		r.ExternalAttr |= extAttrMSDOSReadonly
		if r.ExternalAttr&0xFFFF0000 != 0 {
			r.ExternalAttr &^= 0o222 << 16
		}
	}

	if attr&AttrRead != 0 {
		if r.ExternalAttr&0xFFFF0000 != 0 {
			r.ExternalAttr |= 0o444 << 16
		}
	} else {
		if r.ExternalAttr&0xFFFF0000 != 0 {
			r.ExternalAttr &^= 0o444 << 16
		}
	}

	r.riscosAttr.Set(attr)
	r.riscosPresent = true
}

// SetRiscosFilename sets the RISC OS-layout, RISC OS-locale name
// explicitly (after sanitisation). When NFSEncoding is off, Filename is
// regenerated from it via the inverse transcoding.
func (r *Record) SetRiscosFilename(name []byte) {
	sanitised := riscosname.SanitiseRISCOS(name)
	stored := append([]byte(nil), sanitised...)
	r.riscosFilename.Set(stored)
	r.riscosPresent = true

	if r.nfsEncoding {
		r.updateNFSEncoding()
		return
	}

	posix := riscosname.ToPOSIXLayout(string(sanitised))
	r.Filename = riscosname.DecodeFromRISCOS([]byte(posix), r.cfg.Name)
}

// SetNFSEncoding toggles NFS filename-suffix encoding mode. Turning it off
// promotes any load/exec or filetype currently encoded in the filename
// suffix to explicit fields and restores the bare Unicode filename.
// Turning it on regenerates the filename with the current suffix.
func (r *Record) SetNFSEncoding(enabled bool) {
	if r.nfsEncoding == enabled {
		return
	}

	e := nfsencoding.Extract(r.Filename)
	r.nfsEncoding = enabled

	if !enabled {
		r.Filename = e.Name
		r.riscosFilename.Clear()
		if e.Load != nil {
			r.riscosLoadaddr.Set(*e.Load)
			if e.Exec != nil {
				r.riscosExecaddr.Set(*e.Exec)
			}
			r.riscosFiletype.Clear()
			r.riscosPresent = true
		} else if e.Filetype != nil {
			r.riscosLoadaddr.Clear()
			r.riscosExecaddr.Clear()
			r.SetRiscosFiletype(*e.Filetype)
		}
		return
	}

	r.updateNFSEncoding()
}

// updateNFSEncoding regenerates Filename with the current NFS suffix,
// mirroring the original's _update_nfs_encoding.
func (r *Record) updateNFSEncoding() {
	raw := riscosname.SanitiseRISCOS(r.RiscosFilename())
	posix := riscosname.ToPOSIXLayout(string(raw))
	name := riscosname.DecodeFromRISCOS([]byte(posix), r.cfg.Name)

	if r.RiscosObjtype() != 1 {
		r.Filename = name + "/"
		return
	}

	load := r.RiscosLoadaddr()
	exec := r.RiscosExecaddr()
	isDefault := func(ft int) bool {
		return ft == r.cfg.defaultFiletypeFor(r.InternalAttr&internalAttrText != 0)
	}
	r.Filename = nfsencoding.Build(name, &load, &exec, nil, isDefault)
}
