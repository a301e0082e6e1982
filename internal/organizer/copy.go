package organizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// materializer copies files into OUTDIR/<bucket>/, creating bucket
// directories lazily and never overwriting an existing destination:
// a taken (bucket, name) pair gets the same suffixing policy as the
// renamer. Copy targets are tracked per run because they are
// independent of rename targets when renaming is skipped.
type materializer struct {
	outDir  string
	dryRun  bool
	claimed map[string]map[string]struct{} // bucket -> names taken this run
}

func newMaterializer(outDir string, dryRun bool) *materializer {
	return &materializer{
		outDir:  outDir,
		dryRun:  dryRun,
		claimed: make(map[string]map[string]struct{}),
	}
}

func (m *materializer) taken(bucket string) map[string]struct{} {
	if m.claimed[bucket] == nil {
		m.claimed[bucket] = make(map[string]struct{})
	}
	return m.claimed[bucket]
}

// place copies srcPath into the bucket under name, suffixing the
// destination name if taken. Returns the destination path, which in
// dry-run mode is computed and reported but not created.
func (m *materializer) place(srcPath, name, bucket string) (string, error) {
	bucketDir := filepath.Join(m.outDir, bucket)
	taken := m.taken(bucket)

	final := NextAvailableName(name, taken, func(n string) bool {
		_, err := os.Lstat(filepath.Join(bucketDir, n))
		return err == nil
	})
	taken[final] = struct{}{}
	destPath := filepath.Join(bucketDir, final)

	if m.dryRun {
		return destPath, nil
	}

	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		return destPath, fmt.Errorf("failed to create bucket directory: %w", err)
	}
	if err := copyFile(srcPath, destPath); err != nil {
		return destPath, err
	}
	return destPath, nil
}

// copyFile copies src to dest preserving mode and modification time.
// The destination is opened with O_EXCL so an undetected collision
// fails instead of silently overwriting; the source is never touched.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("failed to copy contents: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination: %w", err)
	}

	if err := os.Chtimes(dest, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set modification time: %w", err)
	}
	return nil
}
