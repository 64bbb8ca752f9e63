// Package nfsencoding parses and builds the NFS filename-suffix convention
// that smuggles a RISC OS filetype or load/exec pair into a leaf name on
// systems that cannot preserve the ZIP extra field.
package nfsencoding

import (
	"fmt"
	"strconv"
	"strings"
)

const hexDigits = "0123456789abcdef"

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune(hexDigits, c) {
			return false
		}
	}
	return true
}

// Extracted holds the result of parsing an NFS-encoded leaf name.
type Extracted struct {
	Name     string
	Load     *uint32
	Exec     *uint32
	Filetype *int // nil if unknown
}

// Extract parses at most one trailing NFS suffix from name. A parse
// failure (non-hex digits, wrong length) leaves the name untouched and
// returns no extracted values.
func Extract(name string) Extracted {
	if len(name) > 4 && name[len(name)-4] == ',' {
		suffix := name[len(name)-3:]
		if isHex(suffix) {
			ft64, err := strconv.ParseInt(suffix, 16, 32)
			if err == nil {
				ft := int(ft64)
				return Extracted{Name: name[:len(name)-4], Filetype: &ft}
			}
		}
	}

	if len(name) > 18 && name[len(name)-18] == ',' && name[len(name)-9] == ',' {
		loadHex := name[len(name)-17 : len(name)-9]
		execHex := name[len(name)-8:]
		if isHex(loadHex) && isHex(execHex) {
			loadV, errL := strconv.ParseUint(loadHex, 16, 32)
			execV, errE := strconv.ParseUint(execHex, 16, 32)
			if errL == nil && errE == nil {
				load := uint32(loadV)
				exec := uint32(execV)
				base := name[:len(name)-18]
				e := Extracted{Name: base, Load: &load, Exec: &exec}
				if load&0xFFF00000 == 0xFFF00000 {
					ft := int((load >> 8) & 0xFFF)
					e.Filetype = &ft
				}
				return e
			}
		}
	}

	return Extracted{Name: name}
}

// Build strips any existing NFS suffix from name, then appends a new one
// per spec.md §4.3: an untyped load/exec pair is always encoded; otherwise
// a filetype suffix is appended unless it equals the default filetype
// currently in force (isDefaultType returns true for that filetype).
func Build(name string, load, exec *uint32, filetype *int, isDefaultType func(int) bool) string {
	name = Extract(name).Name

	if load != nil && exec != nil && *load&0xFFF00000 != 0xFFF00000 {
		return fmt.Sprintf("%s,%08x,%08x", name, *load, *exec)
	}

	ft := filetype
	if ft == nil && load != nil && *load&0xFFF00000 == 0xFFF00000 {
		derived := int((*load >> 8) & 0xFFF)
		ft = &derived
	}

	if ft != nil {
		if isDefaultType == nil || !isDefaultType(*ft) {
			return fmt.Sprintf("%s,%03x", name, *ft)
		}
	}

	return name
}
