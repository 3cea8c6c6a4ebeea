package transcript

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	margin    = 40
	titleSize = 16
	bodySize  = 9
	lineH     = 11
)

// PDF returns a printable report: the title, then the log and summary text
// set in a monospaced face. Section markers ("=== ... ===") are bolded.
func PDF(title, log, summary string) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(title, false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTextColor(40, 25, 15)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.CellFormat(0, titleSize+4, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	writeBlock(pdf, tr, log)
	if summary != "" {
		pdf.AddPage()
		writeBlock(pdf, tr, summary)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBlock(pdf *gofpdf.Fpdf, tr func(string) string, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		style := ""
		if strings.HasPrefix(line, "===") {
			style = "B"
		}
		pdf.SetFont("Courier", style, bodySize)
		pdf.CellFormat(0, lineH, tr(line), "", 1, "L", false, 0, "")
	}
}
