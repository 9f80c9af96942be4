package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer kong was configured with, or os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// modelVar returns a kong variable by name.
func modelVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		files    []*os.File
		hasStdin bool
	}

	// SourceFiles is the concatenation of the input files named on the
	// command line.
	SourceFiles interface {
		io.Reader
		io.Closer
		// Stdin reports whether standard input is one of the sources.
		Stdin() bool
	}
)

func (s *sourceFiles) Stdin() bool { return s.hasStdin }

// Read implements io.Reader by reading from all source files in order,
// followed by stdin if present.
func (s *sourceFiles) Read(p []byte) (int, error) {
	for len(s.files) > 0 {
		n, err := s.files[0].Read(p)
		if err == io.EOF {
			_ = s.files[0].Close()
			s.files = s.files[1:]

			if n > 0 {
				return n, nil
			}

			continue
		}

		return n, err
	}

	if s.hasStdin {
		return os.Stdin.Read(p)
	}

	return 0, io.EOF
}

// Close closes any files not yet read to the end.
func (s *sourceFiles) Close() error {
	for _, f := range s.files {
		_ = f.Close()
	}

	s.files = nil

	return nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource names standard input on the command line.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context carrying a [SourceFiles]
// reader over sources.
//
// Duplicates are dropped by resolving symlinks and comparing device/inode
// pairs. Every "-" refers to a single stdin reader placed after all regular
// files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		if f, ok := openUniqueFile(src, seen); ok {
			srcs.files = append(srcs.files, f)
		}
	}

	// Stdin may have been named as "-" or by a path to the same file.
	_, srcs.hasStdin = seen[stdinKey]

	if len(srcs.files) == 0 && !srcs.hasStdin {
		return nil
	}

	return &srcs
}

func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the reader stored by WithSourceFiles, or nil.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}
