package browser

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSavePDF_WritesFile(t *testing.T) {
	page := &Page{
		FinalURL: "https://example.com/article",
		Text:     "Title\nFirst paragraph of the page.\nSecond paragraph.",
	}
	out := filepath.Join(t.TempDir(), "page.pdf")
	if err := SavePDF(page, out); err != nil {
		t.Fatalf("save pdf: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty PDF")
	}
}
