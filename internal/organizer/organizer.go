// Package organizer implements the file organization pipeline:
// enumerate, filter, rename, classify, copy. The pipeline is a single
// linear pass over a directory snapshot; each file is processed to
// completion before the next is considered. The filesystem is the only
// shared resource and the tool assumes no concurrent external mutation
// of the working directory, so no locking is attempted.
package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	gitignore "github.com/monochromegane/go-gitignore"
)

// Options is the immutable per-run configuration, constructed before
// the pipeline runs and passed explicitly into every stage.
type Options struct {
	// Dir is the directory to organize.
	Dir string
	// OutDir is the absolute output root.
	OutDir string
	// OutDirName is the configured output directory name, excluded
	// from processing.
	OutDirName string
	// DryRun suppresses every mutating filesystem call while sharing
	// the exact control flow of a live run.
	DryRun bool
	// Rename enables the normalization stage.
	Rename bool
	// IncludeHidden makes dot-prefixed entries eligible.
	IncludeHidden bool
	// Buckets remaps extensions to alias buckets.
	Buckets map[string]string
	// FallbackBucket receives files without an extension.
	FallbackBucket string
	// SelfPath is the resolved path of the running binary.
	SelfPath string
	// Reserved lists support-file names that are never processed.
	Reserved []string
	// Ignore, when non-nil, excludes matching entries.
	Ignore gitignore.IgnoreMatcher
}

// Logger receives pipeline progress. The interface matches the
// console logger; a nil logger discards everything.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// ProcessedFile is the outcome of processing one eligible entry.
type ProcessedFile struct {
	OriginalName string
	FinalName    string
	Extension    string
	Bucket       string
	DestPath     string
	Size         int64
	Renamed      bool
	Copied       bool
}

// Failure records a recoverable per-file error. Failures are collected
// and summarized at the end of the run rather than aborting it.
type Failure struct {
	Name  string
	Stage string
	Err   error
}

// Result is the outcome of a single run.
type Result struct {
	RunID    string
	Files    []ProcessedFile
	Failures []Failure
	Duration time.Duration
}

// Pipeline executes the enumerate -> filter -> rename? -> classify ->
// copy? sequence. The two boolean toggles (rename, dry-run) skip but
// never loop a stage.
type Pipeline struct {
	opts Options
	log  Logger
}

// New creates a Pipeline. A nil logger discards progress output.
func New(opts Options, log Logger) *Pipeline {
	if log == nil {
		log = noopLogger{}
	}
	return &Pipeline{opts: opts, log: log}
}

// Run executes the pipeline once. It returns an error only for
// structural failures (directory enumeration, output-root creation);
// per-file rename and copy failures are collected in the Result.
func (p *Pipeline) Run() (*Result, error) {
	start := time.Now()
	opts := p.opts

	entries, err := Discover(opts.Dir, DiscoverOptions{
		OutDirName:    opts.OutDirName,
		OutDirPath:    opts.OutDir,
		SelfPath:      opts.SelfPath,
		IncludeHidden: opts.IncludeHidden,
		Reserved:      opts.Reserved,
		Ignore:        opts.Ignore,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID: uuid.New().String(),
		Files: make([]ProcessedFile, 0, len(entries)),
	}

	// No files can be materialized without the output root, so a
	// failure here aborts the run.
	if len(entries) > 0 && !opts.DryRun {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output root: %w", err)
		}
	}

	ren := newRenamer(opts.Dir, opts.DryRun)
	mat := newMaterializer(opts.OutDir, opts.DryRun)

	for _, entry := range entries {
		pf := ProcessedFile{
			OriginalName: entry.Name,
			FinalName:    entry.Name,
			Size:         entry.Size,
		}

		if opts.Rename {
			final, renamed, err := ren.rename(entry.Name)
			if err != nil {
				p.log.LogWarn(fmt.Sprintf("rename %q failed: %v", entry.Name, err))
				result.Failures = append(result.Failures, Failure{Name: entry.Name, Stage: "rename", Err: err})
			} else if renamed {
				pf.FinalName = final
				pf.Renamed = true
				if opts.DryRun {
					p.log.LogInfo(fmt.Sprintf("would rename %q -> %q", entry.Name, final))
				} else {
					p.log.LogInfo(fmt.Sprintf("renamed %q -> %q", entry.Name, final))
				}
			}
		} else {
			ren.claim(entry.Name)
		}

		pf.Extension, pf.Bucket = Classify(pf.FinalName, opts.Buckets, opts.FallbackBucket)

		srcPath := entry.Path
		if pf.Renamed && !opts.DryRun {
			srcPath = filepath.Join(filepath.Dir(entry.Path), pf.FinalName)
		}

		destPath, err := mat.place(srcPath, pf.FinalName, pf.Bucket)
		pf.DestPath = destPath
		if err != nil {
			p.log.LogWarn(fmt.Sprintf("copy %q failed: %v", pf.FinalName, err))
			result.Failures = append(result.Failures, Failure{Name: pf.FinalName, Stage: "copy", Err: err})
		} else {
			pf.Copied = !opts.DryRun
			if opts.DryRun {
				p.log.LogInfo(fmt.Sprintf("would copy %q -> %q", pf.FinalName, destPath))
			} else {
				p.log.LogDebug(fmt.Sprintf("copied %q -> %q", pf.FinalName, destPath))
			}
		}

		result.Files = append(result.Files, pf)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// FinalNames returns the final filenames in processing order, the
// input consumed by the report generator.
func (r *Result) FinalNames() []string {
	names := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		names = append(names, f.FinalName)
	}
	return names
}

type noopLogger struct{}

func (noopLogger) LogDebug(string) {}
func (noopLogger) LogInfo(string)  {}
func (noopLogger) LogWarn(string)  {}
func (noopLogger) LogError(string) {}
