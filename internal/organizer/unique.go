package organizer

import "fmt"

// NextAvailableName returns candidate if it is neither in taken nor
// reported present by existsOnDisk, otherwise the first "stem-N.ext"
// variant (N = 1, 2, ...) that passes both checks.
//
// The taken set covers names already assigned earlier in the same run;
// existsOnDisk covers pre-existing state. Both are needed: two distinct
// source files can normalize to the same candidate, and in dry-run mode
// the disk never reflects names claimed by earlier files.
func NextAvailableName(candidate string, taken map[string]struct{}, existsOnDisk func(string) bool) string {
	free := func(name string) bool {
		if _, ok := taken[name]; ok {
			return false
		}
		return existsOnDisk == nil || !existsOnDisk(name)
	}

	if free(candidate) {
		return candidate
	}

	stem, ext := SplitExt(candidate)
	for counter := 1; ; counter++ {
		next := fmt.Sprintf("%s-%d%s", stem, counter, ext)
		if free(next) {
			return next
		}
	}
}
