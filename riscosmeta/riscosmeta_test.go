package riscosmeta

import "testing"

func TestScenario1EmptyRecordDefaults(t *testing.T) {
	r := New(DefaultConfig())
	if got := r.RiscosLoadaddr(); got != 0xFFFFFD3A {
		t.Errorf("loadaddr = %#x, want 0xFFFFFD3A", got)
	}
	if got := r.RiscosExecaddr(); got != 0xC7524200 {
		t.Errorf("execaddr = %#x, want 0xC7524200", got)
	}
	if got := r.RiscosFiletype(); got != 0xFFD {
		t.Errorf("filetype = %#x, want 0xFFD", got)
	}
	if got := r.RiscosObjtype(); got != 1 {
		t.Errorf("objtype = %d, want 1", got)
	}
	if got := r.RiscosAttr(); got != 0x33 {
		t.Errorf("attr = %#x, want 0x33", got)
	}
}

func TestScenario2NFSFiletypeSuffix(t *testing.T) {
	r := NewWithName(DefaultConfig(), "file,ff9", true)
	if got := string(r.RiscosFilename()); got != "file" {
		t.Errorf("riscos_filename = %q, want file", got)
	}
	if got := r.RiscosFiletype(); got != 0xFF9 {
		t.Errorf("filetype = %#x, want 0xFF9", got)
	}
	if got := r.RiscosLoadaddr(); got != 0xFFFFF93A {
		t.Errorf("loadaddr = %#x, want 0xFFFFF93A", got)
	}
	if got := r.RiscosExecaddr(); got != 0xC7524200 {
		t.Errorf("execaddr = %#x, want 0xC7524200", got)
	}
}

func TestScenario3NFSTypedLoadExecSuffix(t *testing.T) {
	r := NewWithName(DefaultConfig(), "c/file,fffff93a,c7524201", true)
	if got := string(r.RiscosFilename()); got != "c.file" {
		t.Errorf("riscos_filename = %q, want c.file", got)
	}
	if got := r.RiscosLoadaddr(); got != 0xFFFFF93A {
		t.Errorf("loadaddr = %#x, want 0xFFFFF93A", got)
	}
	if got := r.RiscosExecaddr(); got != 0xC7524201 {
		t.Errorf("execaddr = %#x, want 0xC7524201", got)
	}
	if got := r.RiscosFiletype(); got != 0xFF9 {
		t.Errorf("filetype = %#x, want 0xFF9", got)
	}
}

func TestScenario4NFSUntypedLoadExecSuffix(t *testing.T) {
	r := NewWithName(DefaultConfig(), "c/file,12345678,87654321", true)
	if got := r.RiscosLoadaddr(); got != 0x12345678 {
		t.Errorf("loadaddr = %#x, want 0x12345678", got)
	}
	if got := r.RiscosExecaddr(); got != 0x87654321 {
		t.Errorf("execaddr = %#x, want 0x87654321", got)
	}
	if got := r.RiscosFiletype(); got != -1 {
		t.Errorf("filetype = %d, want -1", got)
	}
}

func TestScenario5ARC0ExtraParseWithPosixMode(t *testing.T) {
	extra := []byte{
		0x41, 0x43, 0x14, 0x00, // header id 0x4341, length 20
		0x41, 0x52, 0x43, 0x30, // "ARC0"
		0x58, 0xfd, 0xff, 0xff, // load
		0x60, 0xff, 0xe0, 0x6b, // exec
		0x33, 0x00, 0x00, 0x00, // attr
		0x00, 0x00, 0x00, 0x00, // reserved
	}
	r := FromContainerMember(DefaultConfig(), "file", true, [6]int{1980, 1, 1, 0, 0, 0}, 0, 0o111<<16, extra, 0)

	if got := r.RiscosLoadaddr(); got != 0xFFFFFD58 {
		t.Errorf("loadaddr = %#x, want 0xFFFFFD58", got)
	}
	if got := r.RiscosExecaddr(); got != 0x6BE0FF60 {
		t.Errorf("execaddr = %#x, want 0x6BE0FF60", got)
	}
	if got := r.RiscosAttr(); got != 0x33 {
		t.Errorf("attr = %#x, want 0x33", got)
	}
	posixMode := (r.ExternalAttr >> 16)
	if posixMode&0o222 != 0o222 {
		t.Errorf("posix mode %o missing write bits", posixMode)
	}
	if posixMode&0o444 != 0o444 {
		t.Errorf("posix mode %o missing read bits", posixMode)
	}
}

func TestScenario6ExtensionMapping(t *testing.T) {
	r := New(DefaultConfig())
	r.Filename = "file.zip"
	if got := string(r.RiscosFilename()); got != "file/zip" {
		t.Errorf("riscos_filename = %q, want file/zip", got)
	}
	if got := r.RiscosFiletype(); got != 0xA91 {
		t.Errorf("filetype = %#x, want 0xA91", got)
	}
}

func TestDirectoryFiletypeAndObjtype(t *testing.T) {
	r := New(DefaultConfig())
	r.Filename = "dir/"
	r.ExternalAttr = extAttrMSDOSDirectory
	if got := r.RiscosFiletype(); got != DirectoryFiletype {
		t.Errorf("filetype = %#x, want DirectoryFiletype", got)
	}
	if got := r.RiscosObjtype(); got != 2 {
		t.Errorf("objtype = %d, want 2", got)
	}
}

func TestEmptyExtraFieldYieldsNoOtherChunks(t *testing.T) {
	r := FromContainerMember(DefaultConfig(), "plain", true, [6]int{1980, 1, 1, 0, 0, 0}, 0, 0, nil, 0)
	if r.RiscosPresent() {
		t.Errorf("expected RiscosPresent() == false for a member with no extra field")
	}
	if r.CorruptExtra() {
		t.Errorf("expected CorruptExtra() == false for an empty extra field")
	}
	if got := r.BuildExtra(); len(got) != 0 {
		t.Errorf("BuildExtra() = %x, want empty (I2: byte-identical round trip)", got)
	}
}

func TestCorruptExtraSurfacesPerRecord(t *testing.T) {
	bad := []byte{0x41, 0x43, 0xff, 0xff, 1, 2} // declares a length that overruns
	r := FromContainerMember(DefaultConfig(), "broken", true, [6]int{1980, 1, 1, 0, 0, 0}, 0, 0, bad, 0)
	if !r.CorruptExtra() {
		t.Fatalf("expected CorruptExtra() == true")
	}
	if r.RiscosPresent() {
		t.Errorf("expected RiscosPresent() == false when extra is corrupt")
	}
	// Still synthesises a usable filetype rather than panicking.
	if got := r.RiscosFiletype(); got != 0xFFD {
		t.Errorf("filetype = %#x, want default 0xFFD", got)
	}
}

func TestNFSSuffixNonHexLeftAlone(t *testing.T) {
	r := NewWithName(DefaultConfig(), "name,fft", true)
	if got := string(r.RiscosFilename()); got != "name,fft" {
		t.Errorf("riscos_filename = %q, want name,fft kept whole", got)
	}
}

func TestSetRiscosFiletypeSwitchesToDirectory(t *testing.T) {
	r := New(DefaultConfig())
	r.Filename = "leaf"
	r.SetRiscosFiletype(DirectoryFiletype)
	if got := r.RiscosObjtype(); got != 2 {
		t.Errorf("objtype = %d, want 2 after setting directory filetype", got)
	}
	if got := r.Filename; got != "leaf/" {
		t.Errorf("filename = %q, want trailing slash", got)
	}
	if !r.RiscosPresent() {
		t.Errorf("expected RiscosPresent() == true after an explicit setter")
	}
}

func TestSetRiscosLoadaddrClearsExplicitFiletype(t *testing.T) {
	r := New(DefaultConfig())
	r.SetRiscosFiletype(0xFF9)
	r.SetRiscosLoadaddr(0x12345678) // untyped: filetype should re-derive, not stay pinned at 0xFF9
	if got := r.RiscosFiletype(); got == 0xFF9 {
		t.Errorf("filetype should have been re-derived after SetRiscosLoadaddr, still %#x", got)
	}
}

func TestBuildExtraI3ExactlyOneARC0Chunk(t *testing.T) {
	r := New(DefaultConfig())
	r.SetRiscosFiletype(0xFF9)
	extra := r.BuildExtra()
	if len(extra) != 24 { // 4-byte chunk header + 20-byte ARC0 payload
		t.Fatalf("BuildExtra() length = %d, want 24", len(extra))
	}
}

func TestBuildExtraI4NoARC0WhenNFSEncoding(t *testing.T) {
	r := New(DefaultConfig())
	r.SetRiscosFiletype(0xFF9)
	r.SetNFSEncoding(true)
	extra := r.BuildExtra()
	if len(extra) != 0 {
		t.Errorf("BuildExtra() with NFSEncoding on = %x, want no ARC0 chunk", extra)
	}
}
