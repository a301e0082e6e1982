package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// IgnoreFileName is the optional per-directory ignore file. Patterns
// use gitignore syntax and apply on top of the built-in exclusions.
const IgnoreFileName = ".shelfignore"

// DiscoverOptions configures directory enumeration and the eligibility
// filter applied to each entry.
type DiscoverOptions struct {
	// OutDirName is the base name of the output directory; an entry
	// with this name is never eligible.
	OutDirName string
	// OutDirPath is the resolved absolute path of the output root.
	OutDirPath string
	// SelfPath is the resolved absolute path of the running binary,
	// which must never organize itself.
	SelfPath string
	// IncludeHidden makes dot-prefixed entries eligible.
	IncludeHidden bool
	// Reserved lists names that are never eligible regardless of other
	// settings (the tool's own support files).
	Reserved []string
	// Ignore, when non-nil, excludes entries matching the ignore file.
	Ignore gitignore.IgnoreMatcher
}

// Entry is an eligible file captured by the enumeration snapshot.
// Later filesystem changes during the run are not re-observed.
type Entry struct {
	// Name is the base filename.
	Name string
	// Path is the absolute path at enumeration time.
	Path string
	// Size is the file size in bytes (0 if unknown).
	Size int64
}

// Discover enumerates dir once, in sorted order, and returns the
// entries that pass the eligibility filter. A failure to list the
// directory is fatal for the run.
func Discover(dir string, opts DiscoverOptions) ([]Entry, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}

	dirEntries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		path := filepath.Join(absDir, de.Name())
		if !eligible(de.Name(), de.IsDir(), path, opts) {
			continue
		}

		var size int64
		if info, err := de.Info(); err == nil {
			size = info.Size()
		}
		entries = append(entries, Entry{Name: de.Name(), Path: path, Size: size})
	}
	return entries, nil
}

// eligible applies the exclusion rules in order: directories, the
// running binary, the output directory, reserved support files,
// ignore-file matches, and (by default) hidden entries. Everything
// else is eligible, including extensionless and multi-dot names.
func eligible(name string, isDir bool, path string, opts DiscoverOptions) bool {
	if isDir {
		return false
	}
	if opts.SelfPath != "" && resolved(path) == opts.SelfPath {
		return false
	}
	if name == opts.OutDirName {
		return false
	}
	if opts.OutDirPath != "" && resolved(path) == opts.OutDirPath {
		return false
	}
	for _, reserved := range opts.Reserved {
		if name == reserved {
			return false
		}
	}
	if opts.Ignore != nil && opts.Ignore.Match(path, false) {
		return false
	}
	if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
		return false
	}
	return true
}

// resolved follows symlinks so that self/output comparisons hold even
// when the directory is reached through a link.
func resolved(path string) string {
	if r, err := filepath.EvalSymlinks(path); err == nil {
		return r
	}
	return filepath.Clean(path)
}

// LoadIgnoreFile parses dir's ignore file if present. A missing file
// yields a nil matcher without error.
func LoadIgnoreFile(dir string) (gitignore.IgnoreMatcher, error) {
	path := filepath.Join(dir, IgnoreFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	matcher, err := gitignore.NewGitIgnore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IgnoreFileName, err)
	}
	return matcher, nil
}
