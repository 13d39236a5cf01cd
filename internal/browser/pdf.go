package browser

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// SavePDF renders a page's extracted text to a minimal PDF: the URL as a
// heading followed by one paragraph per text line. This is a plain-text dump
// for archiving, not a layout engine.
func SavePDF(page *Page, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 7, page.FinalURL, "", "L", false)
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "", 11)

	// Render line by line to avoid huge paragraphs
	scanner := bufio.NewScanner(strings.NewReader(page.Text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			pdf.Ln(5)
			continue
		}
		pdf.MultiCell(0, 5, s, "", "L", false)
		pdf.Ln(1)
	}

	return pdf.OutputFileAndClose(outPath)
}
