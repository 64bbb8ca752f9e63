// Package archive is the container facade atop the standard library's
// archive/zip: it never parses DEFLATE or the central directory itself,
// only zip.FileHeader/zip.File, and translates each member to and from a
// riscosmeta.Record.
package archive

import (
	"archive/zip"
	"compress/flate"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/therootcompany/xz"

	"github.com/rozip/rozip/riscosmeta"
	"github.com/rozip/rozip/riscosname"
)

// MethodXZ is the (non-standard but RISC OS tool-emitted) ZIP compression
// method identifier for XZ-compressed members.
const MethodXZ = 95

// creatorVersion is the ZIP "version made by" word this facade stamps on
// every entry it writes: host system 13 (RISC OS/Acorn RISC OS) in the high
// byte, ZIP spec version 2.0 in the low byte, matching rozipinfo.py's
// self.create_system = 13.
const creatorVersion = 13<<8 | 20

var (
	ErrArchiveIO       = errors.New("archive: I/O error")
	ErrBadFiletypeName = errors.New("archive: not a recognised filetype name or hex value")
	ErrInvalidInput    = errors.New("archive: invalid input")
)

// Facade is an open RISC OS ZIP archive, for reading or writing.
type Facade struct {
	cfg *riscosmeta.Config

	file *os.File
	zr   *zip.Reader
	zw   *zip.Writer

	entries  []*entry
	byRecord map[*riscosmeta.Record]*entry

	closeOnce sync.Once
	closeErr  error
}

type entry struct {
	rec *riscosmeta.Record
	zf  *zip.File
}

// Open opens an existing archive for reading.
func Open(name string, cfg *riscosmeta.Config) (*Facade, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}
	zr.RegisterDecompressor(MethodXZ, xzDecompressor)

	fac := &Facade{cfg: cfg, file: f, zr: zr, byRecord: make(map[*riscosmeta.Record]*entry)}
	fac.buildEntries()
	return fac, nil
}

// Create opens a new archive for writing, truncating any existing file.
func Create(name string, cfg *riscosmeta.Config) (*Facade, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}
	return &Facade{cfg: cfg, file: f, zw: zip.NewWriter(f)}, nil
}

// RegisterDeflateLevel controls the compression level used for
// zip.Deflate-method members added after this call (spec.md §6.2
// --faster/--deflate/--better).
func (f *Facade) RegisterDeflateLevel(level int) {
	if f.zw == nil {
		return
	}
	f.zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})
}

// Close flushes and releases the underlying file. It is idempotent.
func (f *Facade) Close() error {
	f.closeOnce.Do(func() {
		if f.zw != nil {
			if err := f.zw.Close(); err != nil {
				f.closeErr = err
			}
		}
		if f.file != nil {
			if err := f.file.Close(); err != nil && f.closeErr == nil {
				f.closeErr = err
			}
		}
	})
	return f.closeErr
}

func xzDecompressor(r io.Reader) io.ReadCloser {
	xr, err := xz.NewReader(r, xz.DefaultDictMax)
	if err != nil {
		return errReader{err}
	}
	return io.NopCloser(xr)
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }
func (e errReader) Close() error             { return nil }

func (f *Facade) buildEntries() {
	for _, zf := range f.zr.File {
		dt := zf.Modified.UTC()
		y, mo, d := dt.Date()
		h, mi, s := dt.Clock()
		utf8Flag := zf.Flags&0x800 != 0

		rec := riscosmeta.FromContainerMember(
			f.cfg,
			zf.Name,
			utf8Flag,
			[6]int{y, int(mo), d, h, mi, s},
			0, // archive/zip does not expose the ZIP internal-attribute word
			zf.ExternalAttrs,
			zf.Extra,
			zf.UncompressedSize64,
		)

		e := &entry{rec: rec, zf: zf}
		f.entries = append(f.entries, e)
		f.byRecord[rec] = e
	}
}

// List yields every member's metadata record, in central-directory order
// (I-ORD: the facade never reorders what the underlying container reports).
func (f *Facade) List() iter.Seq2[*riscosmeta.Record, error] {
	return func(yield func(*riscosmeta.Record, error) bool) {
		for _, e := range f.entries {
			if !yield(e.rec, nil) {
				return
			}
		}
	}
}

// Records returns every member's metadata record as a slice, in
// central-directory order.
func (f *Facade) Records() []*riscosmeta.Record {
	out := make([]*riscosmeta.Record, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.rec
	}
	return out
}

// Open returns a reader over the given record's content.
func (f *Facade) Open(rec *riscosmeta.Record) (io.ReadCloser, error) {
	e, ok := f.byRecord[rec]
	if !ok {
		return nil, ErrInvalidInput
	}
	rc, err := e.zf.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}
	return rc, nil
}

// AddFile adds the file or directory at path to the archive under arcname,
// building its metadata from the filesystem (spec.md §6.4). Directories are
// not recursed into by AddFile itself; callers walk the tree and call
// AddFile per entry, matching the teacher's add_file/add_dir split.
func (f *Facade) AddFile(path, arcname string, method uint16) error {
	if f.zw == nil {
		return ErrInvalidInput
	}

	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}

	isDir := info.IsDir()
	var size int64
	if !isDir {
		size = info.Size()
	}

	rec := riscosmeta.FromFileInfo(f.cfg, arcname, info.ModTime(), isDir, uint32(info.Mode().Perm())|modeTypeBits(info), size)
	// A writer should preserve RISC OS metadata in the ARC0 extra-field
	// chunk rather than the NFS filename suffix (spec.md §4.8).
	rec.SetNFSEncoding(false)
	if !rec.RiscosPresent() {
		load, exec := rec.RiscosLoadaddr(), rec.RiscosExecaddr()
		rec.SetRiscosLoadaddr(load)
		rec.SetRiscosExecaddr(exec)
	}

	fh := &zip.FileHeader{
		Name:           riscosname.EncodeZipFilename(rec.Filename, f.cfg.Name),
		Method:         method,
		Extra:          rec.BuildExtra(),
		Modified:       brokenDownToTime(rec.DateTime),
		CreatorVersion: creatorVersion,
	}
	fh.ExternalAttrs = rec.ExternalAttr
	if isDir {
		fh.Method = zip.Store
	}

	w, err := f.zw.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}
	if isDir {
		return nil
	}

	r, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}
	defer r.Close()

	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}
	return nil
}

func modeTypeBits(info os.FileInfo) uint32 {
	if info.IsDir() {
		return 1 << 14 // S_IFDIR, matches internal/zip's msdosDir-style convention at the POSIX level
	}
	return 1 << 15 // S_IFREG
}

func brokenDownToTime(dt [6]int) time.Time {
	return time.Date(dt[0], time.Month(dt[1]), dt[2], dt[3], dt[4], dt[5], 0, time.UTC)
}

// Extract writes rec's content to destDir, preserving the RISC OS
// timestamp, in NFS filename-suffix form (spec.md §6.4's extract path
// always encodes load/exec/filetype into the filename rather than relying
// on an extended-attribute sidecar).
func (f *Facade) Extract(rec *riscosmeta.Record, destDir string) error {
	if f.zr == nil {
		return ErrInvalidInput
	}

	rec.SetNFSEncoding(true)
	target := filepath.Join(destDir, filepath.FromSlash(rec.Filename))

	if rec.RiscosObjtype() == 2 {
		return os.MkdirAll(target, 0o777)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o777); err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}

	rc, err := f.Open(rec)
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveIO, err)
	}

	y, mo, d, h, mi, s, _ := rec.RiscosDateTime()
	setModTime(target, y, mo, d, h, mi, s)
	return nil
}

// Rewrite replaces the extra field (or NFS suffix, depending on mode) of
// every record matching keep with a new explicit filetype, without
// touching any member's body. Used by the --settypes CLI verb.
func (f *Facade) Rewrite(dest string, keep func(*riscosmeta.Record) bool, filetype int) error {
	out, err := Create(dest, f.cfg)
	if err != nil {
		return err
	}
	defer out.Close()

	for _, e := range f.entries {
		rec := e.rec
		if keep(rec) {
			rec.SetRiscosFiletype(filetype)
		}

		fh := &zip.FileHeader{
			Name:           riscosname.EncodeZipFilename(rec.Filename, f.cfg.Name),
			Method:         e.zf.Method,
			Extra:          rec.BuildExtra(),
			Modified:       e.zf.Modified,
			CreatorVersion: creatorVersion,
		}
		fh.ExternalAttrs = rec.ExternalAttr

		w, err := out.zw.CreateHeader(fh)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrArchiveIO, err)
		}

		rc, err := e.zf.Open()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrArchiveIO, err)
		}
		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrArchiveIO, err)
		}
	}
	return nil
}

// MatchesGlob reports whether rec's name matches any of patterns, tried
// against both its POSIX-layout Filename and its RISC OS-layout filename
// (spec.md §6.2 --glob [EXPANDED]).
func MatchesGlob(patterns []string, rec *riscosmeta.Record) bool {
	if len(patterns) == 0 {
		return true
	}
	riscosName := riscosname.ToPOSIXLayout(string(rec.RiscosFilename()))
	for _, p := range patterns {
		if doublestar.MatchUnvalidated(p, strings.TrimSuffix(rec.Filename, "/")) {
			return true
		}
		if doublestar.MatchUnvalidated(p, strings.TrimSuffix(riscosName, "/")) {
			return true
		}
	}
	return false
}
