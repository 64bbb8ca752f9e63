package archive

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rozip/rozip/internal/filetypes"
	"github.com/rozip/rozip/riscosmeta"
)

// Style selects the rendering used by PrintDir, adapted from
// original_source/rozipfile.py's printdir (Style Short) and
// printdir_verbose (StyleVerbose).
type Style int

const (
	StyleShort Style = iota
	StyleVerbose
)

// PrintDir renders this archive's member list to w.
func (f *Facade) PrintDir(w io.Writer, style Style) {
	switch style {
	case StyleVerbose:
		printDirVerbose(w, f.Records())
	default:
		printDirShort(w, f.Records())
	}
}

func printDirShort(w io.Writer, recs []*riscosmeta.Record) {
	longest := 10
	for _, r := range recs {
		if n := len(riscosDisplayName(r)); n > longest {
			longest = n
		}
	}

	sorted := append([]*riscosmeta.Record(nil), recs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(riscosDisplayName(sorted[i])) < strings.ToLower(riscosDisplayName(sorted[j]))
	})

	for _, r := range sorted {
		name := riscosDisplayName(r)
		objtype := r.RiscosObjtype()
		attrLabel := describeAttributes(r.RiscosAttr(), objtype)
		filetypeLabel := describeFiletype(r.RiscosFiletype(), objtype)

		var loadExecOrDateTime string
		load := r.RiscosLoadaddr()
		if load&0xFFF00000 != 0xFFF00000 {
			loadExecOrDateTime = fmt.Sprintf("%08X %08X", load, r.RiscosExecaddr())
		} else {
			loadExecOrDateTime = describeDateTime(r)
		}

		fmt.Fprintf(w, "%-*s %-9s %-10s %20s %s\n",
			longest, name, attrLabel, filetypeLabel, loadExecOrDateTime, describeFileSize(r.FileSize))
	}
}

func printDirVerbose(w io.Writer, recs []*riscosmeta.Record) {
	for i, r := range recs {
		fmt.Fprintf(w, "File #%d\n", i)
		fmt.Fprintf(w, "  Unix filename:         %q\n", r.Filename)
		fmt.Fprintf(w, "  Unix date/time:        %v\n", r.DateTime)
		fmt.Fprintf(w, "  MS DOS flags:          &%02x\n", r.ExternalAttr&0xFF)
		fmt.Fprintf(w, "  Unix mode:             0o%05o\n", r.ExternalAttr>>16)
		fmt.Fprintf(w, "  RISC OS filename:      %s\n", r.RiscosFilename())
		y, mo, d, h, mi, s, cs := r.RiscosDateTime()
		fmt.Fprintf(w, "  RISC OS date/time:     (%d, %d, %d, %d, %d, %d, %d)\n", y, mo, d, h, mi, s, cs)
		fmt.Fprintf(w, "  RISC OS load/exec:     &%08x/&%08x\n", r.RiscosLoadaddr(), r.RiscosExecaddr())
		if ft := r.RiscosFiletype(); ft == -1 {
			fmt.Fprintf(w, "  RISC OS filetype:      unset\n")
		} else {
			fmt.Fprintf(w, "  RISC OS filetype:      &%03x\n", ft)
		}
		fmt.Fprintf(w, "  RISC OS attributes:    &%02x\n", r.RiscosAttr())
		fmt.Fprintf(w, "  RISC OS object type:   %d\n", r.RiscosObjtype())
		fmt.Fprintln(w)
	}
}

func riscosDisplayName(r *riscosmeta.Record) string {
	return string(r.RiscosFilename())
}

func describeAttributes(attr uint8, objtype int) string {
	var b strings.Builder
	if objtype == 2 {
		b.WriteByte('D')
	}
	if attr&riscosmeta.AttrLocked != 0 {
		b.WriteByte('L')
	}
	if attr&riscosmeta.AttrWrite != 0 {
		b.WriteByte('W')
	}
	if attr&riscosmeta.AttrRead != 0 {
		b.WriteByte('R')
	}
	b.WriteByte('/')
	if attr&riscosmeta.AttrPublicLocked != 0 {
		b.WriteByte('L')
	}
	if attr&riscosmeta.AttrPublicWrite != 0 {
		b.WriteByte('W')
	}
	if attr&riscosmeta.AttrPublicRead != 0 {
		b.WriteByte('R')
	}
	return b.String()
}

func describeFiletype(filetype, objtype int) string {
	if objtype == 2 {
		return "Directory"
	}
	if filetype == -1 {
		return "Untyped"
	}
	return filetypes.Describe(filetype)
}

func describeDateTime(r *riscosmeta.Record) string {
	y, mo, d, h, mi, s, _ := r.RiscosDateTime()
	months := [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	month := "???"
	if mo >= 1 && mo <= 12 {
		month = months[mo-1]
	}
	return fmt.Sprintf("%02d:%02d:%02d %02d-%s-%04d", h, mi, s, d, month, y)
}

func describeFileSize(size uint64) string {
	unit := ""
	value := size
	switch {
	case size > 1024*1024:
		value = size / 1024 / 1024
		unit = "M"
	case size > 1024:
		value = size / 1024
		unit = "K"
	}
	if unit == "" {
		unit = " "
	}
	return fmt.Sprintf("%4d%sbytes", value, unit)
}
