package cmd

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bgraham/shelf/internal/config"
	"github.com/bgraham/shelf/internal/logger"
	"github.com/bgraham/shelf/internal/organizer"
	"github.com/bgraham/shelf/internal/report"
)

// NewOrganizeCommand creates the organize command
func NewOrganizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize [directory]",
		Short: "Rename, classify and copy files into extension buckets",
		Long: `Organize the files of a directory (default: the current one).

Eligible files are optionally renamed to a normalized form, classified
by extension, copied into one subfolder per extension under the output
root, and listed in OUTDIR/index.html. Directories, hidden files (by
default), the shelf binary, the output directory, shelf's own support
files and entries matched by a .shelfignore file are skipped.

Configuration is loaded from .shelf.yaml in the organized directory if
present. CLI flags override configuration file settings.

Examples:
  # Organize the current directory into ./out
  shelf organize

  # Show the planned actions without touching anything
  shelf organize --dry-run

  # Keep original filenames, include dotfiles
  shelf organize --no-rename --include-hidden ~/Downloads

  # Custom output root and a rendered markdown preamble in the index
  shelf organize --out sorted --notes NOTES.md

  # Also build a PDF gallery of the copied images
  shelf organize --pdf --pdf-name photos.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: organizeCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .shelf.yaml in the directory)")
	cmd.Flags().Bool("dry-run", false, "Compute and report actions without filesystem mutation")
	cmd.Flags().Bool("no-rename", false, "Skip the rename stage; keep original filenames")
	cmd.Flags().String("out", "out", "Output root directory name or path")
	cmd.Flags().Bool("include-hidden", false, "Include hidden files (starting with \".\")")
	cmd.Flags().Bool("verbose", false, "Show detailed progress")
	cmd.Flags().String("notes", "", "Markdown file rendered into the HTML index preamble")
	cmd.Flags().Bool("pdf", false, "Write a PDF gallery of the copied images")
	cmd.Flags().String("pdf-name", "gallery.pdf", "Gallery filename under the output root")

	return cmd
}

// organizeCommand implements the organize command logic
func organizeCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	// Load configuration from file
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(absDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	// Build flag pointers for merge (only explicitly set values)
	var outPtr *string
	if cmd.Flags().Changed("out") {
		out, _ := cmd.Flags().GetString("out")
		outPtr = &out
	}
	var noRenamePtr *bool
	if cmd.Flags().Changed("no-rename") {
		noRename, _ := cmd.Flags().GetBool("no-rename")
		noRenamePtr = &noRename
	}
	var includeHiddenPtr *bool
	if cmd.Flags().Changed("include-hidden") {
		includeHidden, _ := cmd.Flags().GetBool("include-hidden")
		includeHiddenPtr = &includeHidden
	}
	var dryRunPtr *bool
	if cmd.Flags().Changed("dry-run") {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		dryRunPtr = &dryRun
	}
	var notesPtr *string
	if cmd.Flags().Changed("notes") {
		notes, _ := cmd.Flags().GetString("notes")
		notesPtr = &notes
	}
	var pdfPtr *bool
	if cmd.Flags().Changed("pdf") {
		pdf, _ := cmd.Flags().GetBool("pdf")
		pdfPtr = &pdf
	}
	var pdfNamePtr *string
	if cmd.Flags().Changed("pdf-name") {
		pdfName, _ := cmd.Flags().GetString("pdf-name")
		pdfNamePtr = &pdfName
	}

	// Merge CLI flags with config (flags take precedence)
	cfg.MergeWithFlags(outPtr, noRenamePtr, includeHiddenPtr, dryRunPtr, notesPtr, pdfPtr, pdfNamePtr)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Determine log level: verbose flag overrides config
	logLevel := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logLevel = "debug"
	}
	log := logger.NewConsoleLogger(os.Stdout, logLevel)

	outDir := cfg.Out
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(absDir, outDir)
	}
	outDir = filepath.Clean(outDir)

	ignore, err := organizer.LoadIgnoreFile(absDir)
	if err != nil {
		log.LogWarn(err.Error())
	}

	opts := organizer.Options{
		Dir:            absDir,
		OutDir:         outDir,
		OutDirName:     filepath.Base(filepath.Clean(cfg.Out)),
		DryRun:         cfg.DryRun,
		Rename:         !cfg.NoRename,
		IncludeHidden:  cfg.IncludeHidden,
		Buckets:        cfg.Buckets,
		FallbackBucket: cfg.FallbackBucket,
		SelfPath:       selfPath(),
		Reserved:       []string{config.FileName, organizer.IgnoreFileName},
		Ignore:         ignore,
	}

	log.LogInfo(fmt.Sprintf("organizing %s -> %s", absDir, outDir))
	if cfg.DryRun {
		log.LogInfo("dry-run mode: no changes will be applied")
	}

	result, err := organizer.New(opts, log).Run()
	if err != nil {
		return err
	}

	if len(result.Files) == 0 {
		log.LogInfo("no files to process")
		return nil
	}

	// Render the optional markdown preamble before touching the report
	// path, so a bad notes file fails before any report write.
	var notes template.HTML
	if cfg.Notes != "" {
		notes, err = report.RenderNotes(cfg.Notes)
		if err != nil {
			return err
		}
	}

	if cfg.DryRun {
		log.LogInfo(fmt.Sprintf("would write %s", filepath.Join(outDir, report.IndexFileName)))
	} else {
		indexPath, err := report.WriteIndex(outDir, result.FinalNames(), notes)
		if err != nil {
			return err
		}
		log.LogInfo(fmt.Sprintf("report written to %s", indexPath))
	}

	if cfg.PDF {
		writeGallery(log, cfg, outDir, result)
	}

	printSummary(cmd.OutOrStdout(), result, cfg.DryRun)

	// Per-file failures were reported above; they do not affect the
	// exit status.
	return nil
}

// writeGallery builds the PDF image gallery from the copied files.
// Gallery failures are recoverable: everything else already succeeded.
func writeGallery(log *logger.ConsoleLogger, cfg *config.Config, outDir string, result *organizer.Result) {
	var images []string
	wouldHave := 0
	for _, f := range result.Files {
		if !report.IsImage(f.FinalName) {
			continue
		}
		wouldHave++
		if f.Copied {
			images = append(images, f.DestPath)
		}
	}

	if cfg.DryRun {
		if wouldHave == 0 {
			log.LogInfo("no images found for the gallery")
		} else {
			log.LogInfo(fmt.Sprintf("would create %s with %d image(s)", filepath.Join(outDir, cfg.PDFName), wouldHave))
		}
		return
	}

	if len(images) == 0 {
		log.LogInfo("no images found for the gallery")
		return
	}

	galleryPath, skipped, err := report.WriteGallery(outDir, cfg.PDFName, images)
	for _, s := range skipped {
		log.LogWarn(fmt.Sprintf("could not embed %s in the gallery", s))
	}
	if err != nil {
		log.LogError(fmt.Sprintf("gallery not written: %v", err))
		return
	}
	log.LogInfo(fmt.Sprintf("gallery written to %s", galleryPath))
}

// selfPath resolves the running binary so the pipeline never organizes
// itself. An empty string disables the check (e.g. in tests).
func selfPath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}
	return exe
}
