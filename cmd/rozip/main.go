// Command rozip creates, extracts, lists and retypes RISC OS ZIP archives.
package main

import (
	"compress/flate"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rozip/rozip/archive"
	"github.com/rozip/rozip/internal/filetypes"
	"github.com/rozip/rozip/riscosmeta"
)

type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rozip", flag.ContinueOnError)

	var create, extract, list, settypes bool
	var store, faster, deflate, better bool
	var verbose bool
	var defaultFiletype string
	var chdir string
	var globs stringList

	for _, pair := range [][2]string{{"c", "create"}, {"e", "extract"}, {"l", "list"}, {"t", "settypes"}} {
		short, long := pair[0], pair[1]
		var target *bool
		switch long {
		case "create":
			target = &create
		case "extract":
			target = &extract
		case "list":
			target = &list
		case "settypes":
			target = &settypes
		}
		fs.BoolVar(target, short, false, "")
		fs.BoolVar(target, long, false, "")
	}
	fs.BoolVar(&store, "0", false, "")
	fs.BoolVar(&store, "store", false, "")
	fs.BoolVar(&faster, "1", false, "")
	fs.BoolVar(&faster, "faster", false, "")
	fs.BoolVar(&deflate, "6", false, "")
	fs.BoolVar(&deflate, "deflate", false, "")
	fs.BoolVar(&better, "9", false, "")
	fs.BoolVar(&better, "better", false, "")
	fs.BoolVar(&verbose, "v", false, "")
	fs.BoolVar(&verbose, "verbose", false, "")
	fs.StringVar(&defaultFiletype, "T", "", "")
	fs.StringVar(&defaultFiletype, "default-filetype", "", "")
	fs.StringVar(&chdir, "C", ".", "")
	fs.StringVar(&chdir, "chdir", ".", "")
	fs.Var(&globs, "glob", "")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	rest := fs.Args()
	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "IO error: missing archive argument")
		return 1
	}
	archivePath, members := rest[0], rest[1:]

	cfg := riscosmeta.DefaultConfig().WithTypeCache()
	if defaultFiletype != "" {
		ft, err := parseFiletype(defaultFiletype)
		if err != nil {
			fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
			return 1
		}
		cfg.DefaultFiletype = ft
	}

	switch {
	case create:
		method := methodFromFlags(store)
		return doCreate(cfg, archivePath, chdir, members, method, registerLevel(faster, better), verbose)
	case extract:
		return doExtract(cfg, archivePath, chdir, members, globs, verbose)
	case list:
		return doList(cfg, archivePath, verbose)
	case settypes:
		return doSettypes(cfg, archivePath, members, globs, defaultFiletype)
	default:
		fmt.Fprintln(os.Stderr, "IO error: no action specified")
		return 1
	}
}

func parseFiletype(s string) (int, error) {
	if ft, ok := filetypes.NamedType(s); ok {
		return ft, nil
	}
	v, err := strconv.ParseInt(strings.TrimPrefix(s, "&"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", archive.ErrBadFiletypeName, s)
	}
	return int(v), nil
}

func methodFromFlags(store bool) uint16 {
	if store {
		return 0 // zip.Store
	}
	return 8 // zip.Deflate; level is chosen by registerLevel below
}

func registerLevel(faster, better bool) int {
	switch {
	case faster:
		return flate.BestSpeed
	case better:
		return flate.BestCompression
	default:
		return flate.DefaultCompression
	}
}

func doCreate(cfg *riscosmeta.Config, archivePath, chdir string, members []string, method uint16, level int, verbose bool) int {
	w, err := archive.Create(archivePath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
		return 1
	}
	defer w.Close()
	w.RegisterDeflateLevel(level)

	for _, m := range members {
		full := filepath.Join(chdir, m)
		if err := addRecursive(w, full, m, method, verbose); err != nil {
			fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
			return 1
		}
	}

	if err := w.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
		return 1
	}
	return 0
}

func addRecursive(w *archive.Facade, full, arcname string, method uint16, verbose bool) error {
	info, err := os.Lstat(full)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() && !info.IsDir() {
		return archive.ErrInvalidInput
	}

	if verbose {
		fmt.Fprintf(os.Stdout, "Zip compress: %s\n", arcname)
	}
	if err := w.AddFile(full, arcname, method); err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := addRecursive(w, filepath.Join(full, e.Name()), arcname+"/"+e.Name(), method, verbose); err != nil {
			return err
		}
	}
	return nil
}

func doExtract(cfg *riscosmeta.Config, archivePath, chdir string, members []string, globs stringList, verbose bool) int {
	r, err := archive.Open(archivePath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
		return 1
	}
	defer r.Close()

	if err := os.MkdirAll(chdir, 0o777); err != nil {
		fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
		return 1
	}

	for rec, err := range r.List() {
		if err != nil {
			fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
			return 1
		}
		if !selected(rec, members, globs) {
			continue
		}
		if verbose {
			verboseLog(rec)
		}
		if err := r.Extract(rec, chdir); err != nil {
			fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
			return 1
		}
	}
	return 0
}

func doList(cfg *riscosmeta.Config, archivePath string, verbose bool) int {
	r, err := archive.Open(archivePath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
		return 1
	}
	defer r.Close()

	style := archive.StyleShort
	if verbose {
		style = archive.StyleVerbose
	}
	r.PrintDir(os.Stdout, style)
	return 0
}

func doSettypes(cfg *riscosmeta.Config, archivePath string, members []string, globs stringList, defaultFiletype string) int {
	if defaultFiletype == "" {
		fmt.Fprintln(os.Stderr, "IO error: --settypes requires -T <hex or name>")
		return 1
	}
	ft, err := parseFiletype(defaultFiletype)
	if err != nil {
		fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
		return 1
	}

	r, err := archive.Open(archivePath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
		return 1
	}
	defer r.Close()

	tmp := archivePath + ".tmp"
	if err := r.Rewrite(tmp, func(rec *riscosmeta.Record) bool {
		return selected(rec, members, globs)
	}, ft); err != nil {
		fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
		os.Remove(tmp)
		return 1
	}

	if err := os.Rename(tmp, archivePath); err != nil {
		fmt.Fprintf(os.Stderr, "IO error: %v\n", err)
		return 1
	}
	return 0
}

func selected(rec *riscosmeta.Record, members []string, globs stringList) bool {
	if len(members) == 0 && len(globs) == 0 {
		return true
	}
	for _, m := range members {
		if rec.Filename == m || string(rec.RiscosFilename()) == m {
			return true
		}
	}
	return archive.MatchesGlob(globs, rec)
}

func verboseLog(rec *riscosmeta.Record) {
	if rec.RiscosObjtype() == 2 {
		fmt.Fprintf(os.Stdout, "Zip decompress: Directory %q\n", rec.Filename)
		return
	}
	if ft := rec.RiscosFiletype(); ft != -1 {
		fmt.Fprintf(os.Stdout, "Zip decompress: File %q, size %d bytes, type &%03X\n", rec.Filename, rec.FileSize, ft)
	} else {
		fmt.Fprintf(os.Stdout, "Zip decompress: File %q, size %d bytes, load/exec &%08X/&%08X\n",
			rec.Filename, rec.FileSize, rec.RiscosLoadaddr(), rec.RiscosExecaddr())
	}
}
