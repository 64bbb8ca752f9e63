package riscosmeta

import (
	"strings"
	"time"

	"github.com/rozip/rozip/extrafield"
	"github.com/rozip/rozip/riscosname"
)

// NewWithName constructs an empty record with the given canonical filename
// and NFS-encoding mode set directly, with no derived side effects —
// mirroring the original's bare constructor, which wrote the raw
// nfs_encoding attribute rather than invoking its setter property.
func NewWithName(cfg *Config, filename string, nfsEncoding bool) *Record {
	r := New(cfg)
	r.Filename = filename
	r.nfsEncoding = nfsEncoding
	return r
}

// FromContainerMember builds a Record from an already-parsed ZIP archive
// member (the "parse path", spec.md §2 data flow: extra-field bytes +
// filename + DOS date/time → metadata record). rawFilename is the name as
// decoded by the container reader; utf8Flag is the member's general-purpose
// UTF-8 bit. The record is constructed in non-NFS mode: the extra field,
// if present and valid, is authoritative (spec.md §4.8 "list").
//
// A corrupted extra field does not fail construction: the returned Record
// has RiscosPresent() == false and CorruptExtra() == true, with all
// riscos_* fields synthesised from the remaining ZIP-level attributes.
func FromContainerMember(cfg *Config, rawFilename string, utf8Flag bool, dateTime [6]int, internalAttr uint16, externalAttr uint32, extra []byte, fileSize uint64) *Record {
	r := &Record{cfg: cfg}
	r.Filename = riscosname.DecodeZipFilename(rawFilename, utf8Flag, cfg.Name)
	r.DateTime = dateTime
	r.InternalAttr = internalAttr
	r.ExternalAttr = externalAttr
	r.FileSize = fileSize

	// Some archive tools write a trailing '/' without setting the DOS
	// directory bit; treat the name as authoritative.
	if strings.HasSuffix(r.Filename, "/") {
		r.ExternalAttr |= extAttrMSDOSDirectory
	}

	r.originalExtra = append([]byte(nil), extra...)
	r.originalExtraDigest = extrafield.Digest(extra)
	r.hasOriginalExtra = true

	chunks, err := extrafield.Parse(extra)
	if err != nil {
		r.corruptExtra = true
		return r
	}

	idx := extrafield.FindARC0(chunks)
	if idx < 0 {
		r.otherExtra = chunks
		return r
	}

	arc0, ok := extrafield.ParseARC0(chunks[idx].Payload)
	if !ok {
		r.otherExtra = chunks
		return r
	}
	r.otherExtra = append(append([]extrafield.Chunk{}, chunks[:idx]...), chunks[idx+1:]...)

	load := arc0.Load
	if r.RiscosObjtype() == 2 {
		// Directory quirk (spec.md §4.4): the stored load address is often
		// a bare timestamp with no filetype nibble; force it typed.
		load = (load & 0xFF) | 0xFFF00000 | (uint32(DirectoryFiletypeInternal) << 8)
	}
	r.SetRiscosLoadaddr(load)
	r.SetRiscosExecaddr(arc0.Exec)
	r.SetRiscosAttr(uint8(arc0.Attr))
	return r
}

// FromFileInfo builds a Record from a filesystem object (the "from_file"
// path, spec.md §6.4), in NFS-encoding mode by default: a container writer
// cannot reliably preserve ARC0 chunks across all platforms, so
// add_file-style callers should flip NFSEncoding off immediately before
// writing, once the provider is known to preserve the extra field.
func FromFileInfo(cfg *Config, arcname string, modTime time.Time, isDir bool, posixMode uint32, size int64) *Record {
	r := New(cfg)

	u := modTime.UTC()
	y, mo, d := u.Date()
	h, mi, s := u.Clock()
	r.DateTime = [6]int{y, int(mo), d, h, mi, s}

	arcname = strings.TrimLeft(arcname, "/")
	if isDir {
		arcname = strings.TrimSuffix(arcname, "/") + "/"
	}
	r.Filename = arcname

	r.ExternalAttr = (posixMode & 0xFFFF) << 16
	if isDir {
		r.FileSize = 0
		r.ExternalAttr |= extAttrMSDOSDirectory
	} else {
		r.FileSize = uint64(size)
	}

	r.nfsEncoding = true
	return r
}

// BuildExtra returns the extra-field bytes that should be written for this
// record: byte-identical to what was parsed when RiscosPresent is false
// (I2); exactly one ARC0 chunk when RiscosPresent is true and NFSEncoding
// is false (I3); no ARC0 chunk when NFSEncoding is true (I4), with the
// filetype/load-exec instead carried by the filename suffix.
//
// After building the candidate output it compares its digest against the
// digest of whatever extra field this record was parsed from, and when they
// match (the common case when rewriting an archive with --settypes touching
// only some members) it hands back the original byte slice.
func (r *Record) BuildExtra() []byte {
	if !r.riscosPresent {
		if r.hasOriginalExtra {
			return r.originalExtra
		}
		return extrafield.Build(r.otherExtra)
	}

	if r.nfsEncoding {
		return extrafield.Build(r.otherExtra)
	}

	arc0 := extrafield.ARC0{
		Load: r.RiscosLoadaddr(),
		Exec: r.RiscosExecaddr(),
		Attr: uint32(r.RiscosAttr()),
	}
	built := extrafield.Build(extrafield.ReplaceOrAppendARC0(r.otherExtra, arc0))

	if r.hasOriginalExtra && extrafield.Digest(built) == r.originalExtraDigest {
		return r.originalExtra
	}
	return built
}
