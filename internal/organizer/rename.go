package organizer

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	nonSlugChars       = regexp.MustCompile(`[^a-z0-9_-]+`)
	repeatedUnderscore = regexp.MustCompile(`_+`)
)

// Slugify normalizes a filename (without path) into a safer form:
// the stem is lower-cased, spaces and characters outside [a-z0-9_-]
// become underscores, runs of underscores collapse, and leading or
// trailing ".", "_", "-" are trimmed. An empty stem becomes "file".
// The extension is kept, lower-cased.
func Slugify(name string) string {
	stem, ext := SplitExt(name)

	stem = strings.ToLower(stem)
	stem = strings.ReplaceAll(stem, " ", "_")
	stem = nonSlugChars.ReplaceAllString(stem, "_")
	stem = repeatedUnderscore.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "._-")
	if stem == "" {
		stem = "file"
	}
	return stem + strings.ToLower(ext)
}

// renamer assigns collision-free normalized names to files within a
// single run. Names claimed by earlier files are tracked so that two
// sources normalizing to the same candidate never collide, even in
// dry-run mode where the disk is left untouched.
type renamer struct {
	dir     string
	dryRun  bool
	claimed map[string]struct{}
}

func newRenamer(dir string, dryRun bool) *renamer {
	return &renamer{
		dir:     dir,
		dryRun:  dryRun,
		claimed: make(map[string]struct{}),
	}
}

// claim reserves a name in the working directory without renaming,
// used for files that keep their original name.
func (r *renamer) claim(name string) {
	r.claimed[name] = struct{}{}
}

// rename derives the normalized name for the file currently named name,
// reserves it, and performs the on-disk rename unless dry-run is active
// or the name is already in normalized form. Returns the final name and
// whether a rename was (or would be) performed.
func (r *renamer) rename(name string) (string, bool, error) {
	candidate := Slugify(name)
	if candidate == name {
		r.claim(name)
		return name, false, nil
	}

	final := NextAvailableName(candidate, r.claimed, func(n string) bool {
		_, err := os.Lstat(filepath.Join(r.dir, n))
		return err == nil
	})
	r.claim(final)

	if r.dryRun {
		return final, true, nil
	}
	if err := os.Rename(filepath.Join(r.dir, name), filepath.Join(r.dir, final)); err != nil {
		// The file keeps its original name for the downstream stages.
		r.claim(name)
		return name, false, err
	}
	return final, true, nil
}
