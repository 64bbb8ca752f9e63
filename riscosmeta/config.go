// Package riscosmeta holds the metadata record that is the central entity
// of rozip: it reconciles the ZIP-level attributes of an archive member
// (filename, date/time, DOS/POSIX attribute bits, extra field) with the
// RISC OS view of the same object (load/exec addresses, filetype, object
// type, RISC OS attributes, RISC OS filename) and the optional NFS
// filename-suffix encoding, per the derivation rules each accessor below
// documents.
package riscosmeta

import (
	"github.com/rozip/rozip/internal/filetypes"
	"github.com/rozip/rozip/internal/typecache"
	"github.com/rozip/rozip/riscosname"
)

// Config carries the per-archive settings that several Record derivations
// need: default filetypes, locale encodings, and the MimeMap-style
// extension hook. The zero value is invalid; use DefaultConfig.
type Config struct {
	// DefaultFiletype is used when no filetype can otherwise be inferred
	// for a non-text file. RISC OS zip tools use Data (0xFFD).
	DefaultFiletype int
	// DefaultFiletypeText is used instead of DefaultFiletype when the
	// member's internal "text" attribute bit is set.
	DefaultFiletypeText int

	// Name carries the filename locale settings (see riscosname.Config).
	Name riscosname.Config

	// MimeMapHook, if set, is consulted before the internal extension and
	// parent-directory tables when inferring a filetype from a filename.
	MimeMapHook filetypes.MimeMapHook

	// typeCache memoises filetype-by-filename inference. It is nil until
	// WithTypeCache is called; while nil, lookups are not cached.
	typeCache *typecache.Cache
}

// DefaultConfig returns the Config RISC OS zip tooling uses by default:
// Data/Text filetypes and Latin-1 filename encodings.
func DefaultConfig() *Config {
	return &Config{
		DefaultFiletype:     0xFFD,
		DefaultFiletypeText: 0xFFF,
	}
}

// WithTypeCache enables memoisation of filetype-by-filename inference,
// worthwhile for archives with thousands of members sharing extensions.
func (c *Config) WithTypeCache() *Config {
	c.typeCache = typecache.New(c.inferFiletypeUncached)
	return c
}

func (c *Config) inferFiletypeUncached(name string) (int, bool) {
	return filetypes.FromFilename(name, c.MimeMapHook)
}

// inferFiletype resolves a filetype from a filename's extension or parent
// directory, via the type cache if one was enabled.
func (c *Config) inferFiletype(name string) (int, bool) {
	if c.typeCache != nil {
		return c.typeCache.Lookup(name)
	}
	return c.inferFiletypeUncached(name)
}

func (c *Config) defaultFiletypeFor(textFlag bool) int {
	if textFlag {
		return c.DefaultFiletypeText
	}
	return c.DefaultFiletype
}
