// Package riscosname sanitises and translates filenames between the POSIX
// ('/'-separated) and RISC OS ('.'-separated) path layouts, and between
// Unicode and the RISC OS locale encoding.
package riscosname

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Config carries the per-archive locale settings that drive filename
// transcoding. The zero value is usable: both encodings default to
// Latin-1, matching the original RISC OS zip tooling's defaults.
type Config struct {
	// FilenameEncoding is used for the RISC OS filename byte string.
	FilenameEncoding encoding.Encoding
	// ZipFilenameEncoding is the legacy (non-UTF8-flag) encoding used by
	// RISC OS zip tools for filenames stored in the archive.
	ZipFilenameEncoding encoding.Encoding
}

func (c Config) filenameEnc() encoding.Encoding {
	if c.FilenameEncoding != nil {
		return c.FilenameEncoding
	}
	return charmap.ISO8859_1
}

func (c Config) zipFilenameEnc() encoding.Encoding {
	if c.ZipFilenameEncoding != nil {
		return c.ZipFilenameEncoding
	}
	return charmap.ISO8859_1
}

// SanitisePOSIX applies the POSIX-side safety rules from the anchoring
// invariant: no leading '/', no '..' path component, collapsed separators.
func SanitisePOSIX(name string) string {
	b := []byte(name)

	b = []byte(strings.TrimLeft(string(b), "/"))

	for strings.Contains(string(b), "//") {
		b = []byte(strings.ReplaceAll(string(b), "//", "/"))
	}

	s := string(b)
	s = strings.ReplaceAll(s, "/./", "/")
	s = strings.TrimPrefix(s, "./")
	s = strings.TrimSuffix(s, "/.")

	trailingDotDot := strings.HasSuffix(s, "/..")
	if trailingDotDot {
		s += "/"
	}

	for {
		for strings.HasPrefix(s, "../") {
			s = s[3:]
		}
		next, n := removeOneDotDot(s)
		if n == 0 {
			break
		}
		s = next
	}

	if trailingDotDot {
		s = strings.TrimSuffix(s, "/")
	}

	if s == "" || s == "." || s == ".." {
		s = "root"
	}

	return s
}

// removeOneDotDot removes the first occurrence of "<component>/../" in s,
// mirroring the original's single-pass-until-stable regex substitution.
func removeOneDotDot(s string) (string, int) {
	const marker = "/../"
	idx := strings.Index(s, marker)
	if idx < 0 {
		return s, 0
	}
	// Find the start of the component preceding marker.
	start := strings.LastIndexByte(s[:idx], '/')
	start++ // 0 if no '/' found (LastIndexByte returns -1)
	if start >= idx {
		return s, 0
	}
	return s[:start] + s[idx+len(marker):], 1
}

var riscosAnchorPrefixes = []string{"$.", "@.", "%.", "\\.", "&.", "^."}

// SanitiseRISCOS applies the RISC OS-side safety rules from spec.md §4.2,
// operating on RISC OS locale bytes (post-encoding).
func SanitiseRISCOS(name []byte) []byte {
	s := string(name)

	s = strings.ReplaceAll(s, "<", "(")
	s = strings.ReplaceAll(s, ">", ")")

	for {
		stripped := false
		for _, prefix := range riscosAnchorPrefixes {
			if strings.HasPrefix(s, prefix) {
				s = s[len(prefix):]
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}

	s = strings.ReplaceAll(s, "*", "(star)")
	s = strings.ReplaceAll(s, "?", "(q)")
	s = strings.ReplaceAll(s, ".^", "")
	s = strings.ReplaceAll(s, ":", "--")
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "#", "(h)")

	s = strings.TrimPrefix(s, ".")
	s = strings.TrimSuffix(s, ".")

	return []byte(s)
}

// ToRISCOSLayout swaps '.' and '/' to move a sanitised POSIX-layout name
// into RISC OS layout ('.' becomes the separator).
func ToRISCOSLayout(name string) string {
	return swapDotSlash(name)
}

// ToPOSIXLayout is the inverse of ToRISCOSLayout.
func ToPOSIXLayout(name string) string {
	return swapDotSlash(name)
}

func swapDotSlash(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch c {
		case '.':
			b[i] = '/'
		case '/':
			b[i] = '.'
		}
	}
	return string(b)
}

// EncodeToRISCOS converts a Unicode string into RISC OS locale bytes,
// mapping the space character to the non-breaking space byte (0xA0) first
// since plain spaces aren't permitted in RISC OS filenames.
func EncodeToRISCOS(name string, cfg Config) []byte {
	name = strings.ReplaceAll(name, " ", " ")
	out, err := cfg.filenameEnc().NewEncoder().String(name)
	if err != nil {
		// Fall back to best-effort encoding; charmap encoders replace
		// unmappable runes rather than failing outright in practice.
		out = name
	}
	return []byte(out)
}

// DecodeFromRISCOS is the inverse of EncodeToRISCOS.
func DecodeFromRISCOS(name []byte, cfg Config) string {
	out, err := cfg.filenameEnc().NewDecoder().Bytes(name)
	s := string(out)
	if err != nil {
		s = string(name)
	}
	return strings.ReplaceAll(s, " ", " ")
}

// DecodeZipFilename restores the original archive bytes of a filename
// decoded by a ZIP reader using CP437 (the implicit default when the
// UTF-8 flag bit is unset) and re-decodes them using the configured ZIP
// filename encoding. When the UTF-8 flag is set, the name is already
// correct Unicode and is returned unchanged.
func DecodeZipFilename(name string, utf8Flag bool, cfg Config) string {
	if utf8Flag {
		return name
	}
	raw, err := charmap.CodePage437.NewEncoder().String(name)
	if err != nil {
		return name
	}
	out, err := cfg.zipFilenameEnc().NewDecoder().String(raw)
	if err != nil {
		return name
	}
	return out
}

// EncodeZipFilename is the inverse transform used when writing an archive
// member: re-encode to the configured ZIP filename encoding, then decode
// as CP437 so that a CP437-assuming ZIP reader recovers the same bytes.
func EncodeZipFilename(name string, cfg Config) string {
	raw, err := cfg.zipFilenameEnc().NewEncoder().String(name)
	if err != nil {
		return name
	}
	out, err := charmap.CodePage437.NewDecoder().String(raw)
	if err != nil {
		return name
	}
	return out
}
