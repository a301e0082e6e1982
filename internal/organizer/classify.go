package organizer

import "strings"

// SplitExt splits a filename into stem and extension. The extension
// starts at the last dot and includes it; a dot in the leading position
// is part of the stem (".bashrc" has no extension) and a trailing dot
// yields no extension.
func SplitExt(name string) (stem, ext string) {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 || idx == len(name)-1 {
		return name, ""
	}
	return name[:idx], name[idx:]
}

// Classify maps a filename to its extension (lower-cased, without the
// dot) and destination bucket. Files without an extension go to the
// fallback bucket. buckets may remap an extension to an alias bucket
// (e.g. "jpeg" -> "jpg"); keys are expected lower-cased without dots.
//
// Classify is a pure function of its inputs: the same extension always
// yields the same bucket within a run.
func Classify(name string, buckets map[string]string, fallback string) (ext, bucket string) {
	_, dotted := SplitExt(name)
	ext = strings.ToLower(strings.TrimPrefix(dotted, "."))
	if ext == "" {
		return "", fallback
	}
	if alias, ok := buckets[ext]; ok {
		return ext, alias
	}
	return ext, ext
}
