// Package filetypes holds the static RISC OS filetype lookup tables used
// to infer a filetype when none is carried explicitly by a ZIP member's
// extra field or NFS-encoded filename: the conventional three-letter
// filetype names, and the extension/parent-directory fallback mappings
// used by RISC OS zip tooling in the absence of a MimeMap translation.
package filetypes

import (
	"fmt"
	"strings"
)

// Names maps a 12-bit filetype number to its conventional RISC OS name,
// as reported by *filetype and used by the CLI's -T lookup.
var Names = map[int]string{
	0xFFF: "Text",
	0xFFE: "Command",
	0xFFD: "Data",
	0xFFC: "Utility",
	0xFFB: "BASIC",
	0xFFA: "Module",
	0xFF9: "Sprite",
	0xFF8: "Absolute",
	0xFF7: "BBC font",
	0xFF6: "Font",
	0xFF5: "PoScript",
	0xFF4: "Printout",
	0xFF2: "Config",
	0xFF0: "TIFF",
	0xFD1: "BasicTxt",
	0xFED: "Palette",
	0xFEC: "Template",
	0xFEB: "Obey",
	0xFEA: "Desktop",
	0xFE6: "Unix Ex",
	0xFE5: "EPROM",
	0xFDC: "SoftLink",
	0xFD3: "DebImage",
	0xFCA: "Squash",
	0xFC9: "SunRastr",
	0xFAF: "HTML",
	0xFAE: "Resource",
	0xF89: "GZip",
	0xD94: "ArtWork",
	0xC85: "JPEG",
	0xBBC: "BBC ROM",
	0xB61: "XBM",
	0xB60: "PNG",
	0xB2F: "WMF",
	0xAFF: "DrawFile",
	0xA91: "Zip",
	0xA66: "WebP",
	0xA65: "JPEG2000",
	0x69E: "PNM",
	0x69D: "Targa",
	0x69C: "BMP",
	0x697: "PCX",
	0x695: "GIF",
	0x690: "Clear",
	0x1C9: "DiagData",
	0x132: "ICO",
}

// namesByLower is the reverse lookup used by NamedType, built once.
var namesByLower = func() map[string]int {
	m := make(map[string]int, len(Names))
	for ft, name := range Names {
		m[strings.ToLower(name)] = ft
	}
	return m
}()

// Describe renders filetype as RISC OS tooling does: its conventional name
// when known, or "&XXX" (three uppercase hex digits) otherwise.
func Describe(filetype int) string {
	if name, ok := Names[filetype]; ok {
		return name
	}
	return fmt.Sprintf("&%03X", filetype)
}

// NamedType resolves a conventional filetype name (case-insensitive) back
// to its numeric filetype, for CLI flags like "-T Sprite". ok is false if
// name isn't one of the known conventional names.
func NamedType(name string) (filetype int, ok bool) {
	ft, found := namesByLower[strings.ToLower(name)]
	return ft, found
}

// ExtensionMappings maps a lower-case POSIX filename extension (without
// the leading dot) to the filetype it should default to when no MimeMap
// translation and no explicit filetype is available.
var ExtensionMappings = map[string]int{
	"txt": 0xFFF,
	"c":   0xFFF,
	"c++": 0xFFF,
	"h":   0xFFF,
	"s":   0xFFF,
	"zip": 0xA91,
}

// ParentDirMappings maps a lower-case immediate parent directory name to
// the filetype its children should default to, used for source trees
// conventionally organised by language (c.foo, s.bar, h.baz).
var ParentDirMappings = map[string]int{
	"c":    0xFFF,
	"s":    0xFFF,
	"c++":  0xFFF,
	"h":    0xFFF,
	"hdr":  0xFFF,
	"cmhg": 0xFFF,
	"def":  0xFFF,
	"p":    0xFFF,
	"imp":  0xFFF,
}

// MimeMapHook looks up a filetype for a POSIX extension the way RISC OS's
// MimeMap module would, taking priority over ExtensionMappings when
// non-nil. It returns ok=false when the extension is unknown.
type MimeMapHook func(ext string) (filetype int, ok bool)

// FromFilename infers a filetype from a POSIX-layout filename's extension
// or, failing that, its immediate parent directory, consulting hook first
// if provided. It returns ok=false if nothing could be inferred, in which
// case the caller should fall back to its own default filetype.
func FromFilename(name string, hook MimeMapHook) (filetype int, ok bool) {
	base := name
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		base = name[idx+1:]
	}
	if idx := strings.LastIndexByte(base, '.'); idx >= 0 {
		ext := strings.ToLower(base[idx+1:])
		if hook != nil {
			if ft, found := hook(ext); found {
				return ft, true
			}
		}
		if ft, found := ExtensionMappings[ext]; found {
			return ft, true
		}
	}

	dir := name
	if idx := strings.LastIndexByte(dir, '/'); idx >= 0 {
		dir = dir[:idx]
	} else {
		return 0, false
	}
	if idx := strings.LastIndexByte(dir, '/'); idx >= 0 {
		dir = dir[idx+1:]
	}
	if ft, found := ParentDirMappings[strings.ToLower(dir)]; found {
		return ft, true
	}
	return 0, false
}
