package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfPageHeight = 297 // A4 height in mm
	pdfMargin     = 10  // Margin in mm
)

// imageExts are the extensions gofpdf can embed.
var imageExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// IsImage reports whether the filename has an embeddable image
// extension.
func IsImage(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return imageExts[ext]
}

// WriteGallery writes a PDF with one A4 page per image, scaled to the
// page width, and returns the written path and the paths that could
// not be embedded. An unreadable or unsupported image skips its page;
// it does not abort the gallery.
func WriteGallery(outDir, name string, images []string) (string, []string, error) {
	path := filepath.Join(outDir, name)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)

	var skipped []string
	placed := 0
	for _, img := range images {
		info := pdf.RegisterImageOptions(img, gofpdf.ImageOptions{ReadDpi: true})
		if pdf.Err() || info == nil || info.Width() <= 0 {
			pdf.ClearError()
			skipped = append(skipped, img)
			continue
		}

		pdf.AddPage()
		w := float64(pdfPageWidth - 2*pdfMargin)
		h := w * info.Height() / info.Width()
		if max := float64(pdfPageHeight - 2*pdfMargin); h > max {
			// Tall image: fit to page height instead, keeping the ratio.
			w = w * max / h
			h = max
		}
		pdf.ImageOptions(img, pdfMargin, pdfMargin, w, h, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		placed++
	}

	if placed == 0 {
		return "", skipped, fmt.Errorf("no embeddable images")
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", skipped, fmt.Errorf("failed to save gallery to %s: %w", path, err)
	}
	return path, skipped, nil
}
