package riscosmeta

import "fmt"

func explicitOrInferred(explicit bool) string {
	if explicit {
		return "set"
	}
	return "inferred"
}

// DebugString renders the record's RISC OS view the way the original
// tooling's repr did: every derived/explicit field tagged with whether it
// was set explicitly, for troubleshooting inference order bugs.
func (r *Record) DebugString() string {
	_, loadExplicit := r.riscosLoadaddr.Explicit()
	_, execExplicit := r.riscosExecaddr.Explicit()
	_, filetypeExplicit := r.riscosFiletype.Explicit()
	_, objtypeExplicit := r.riscosObjtype.Explicit()
	_, attrExplicit := r.riscosAttr.Explicit()
	_, dateExplicit := r.riscosDateTime.Explicit()

	filetype := r.RiscosFiletype()
	var filetypeStr string
	switch filetype {
	case DirectoryFiletype:
		filetypeStr = "dir"
	case -1:
		filetypeStr = "none"
	default:
		filetypeStr = fmt.Sprintf("&%03x", filetype)
	}

	y, mo, d, h, mi, s, cs := r.RiscosDateTime()

	return fmt.Sprintf(
		"<Record(filename=%q; RO: load/exec=&%08x(%s)/&%08x(%s), filetype=%s(%s), attr=&%02x(%s), objtype=%d(%s), date=(%d,%d,%d,%d,%d,%d,%d)(%s))>",
		r.Filename,
		r.RiscosLoadaddr(), explicitOrInferred(loadExplicit),
		r.RiscosExecaddr(), explicitOrInferred(execExplicit),
		filetypeStr, explicitOrInferred(filetypeExplicit),
		r.RiscosAttr(), explicitOrInferred(attrExplicit),
		r.RiscosObjtype(), explicitOrInferred(objtypeExplicit),
		y, mo, d, h, mi, s, cs, explicitOrInferred(dateExplicit),
	)
}
