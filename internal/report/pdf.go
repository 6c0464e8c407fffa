package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/jonathan/marketing-intel/internal/types"
)

// PDF renders the daily brief as a PDF document suitable for emailing as an
// attachment.
func PDF(daily *types.DailyBrief) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, reportTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, daily.RunStarted.Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	for _, r := range daily.Succeeded() {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, r.Target, "B", 1, "L", false, 0, "")
		pdf.Ln(2)

		if r.Brief.Headline != "" {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 5, r.Brief.Headline, "", "L", false)
			pdf.Ln(1)
		}

		pdf.SetFont("Helvetica", "", 10)
		for _, para := range paragraphs(r.Brief.Summary) {
			pdf.MultiCell(0, 5, para, "", "L", false)
			pdf.Ln(2)
		}

		if r.Brief.ValueProposition != "" {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.MultiCell(0, 5, "Positioning: "+r.Brief.ValueProposition, "", "L", false)
			pdf.Ln(1)
		}

		pdf.SetFont("Helvetica", "", 10)
		for _, f := range r.Brief.Findings {
			pdf.MultiCell(0, 5, "• "+f, "", "L", false)
		}
		pdf.Ln(5)
	}

	if failed := failedResults(daily); len(failed) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 8, "Targets that could not be analyzed", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, r := range failed {
			pdf.MultiCell(0, 5, fmt.Sprintf("%s: %s", r.Target, r.Err), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func failedResults(daily *types.DailyBrief) []types.TargetResult {
	var failed []types.TargetResult
	for _, r := range daily.Results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}
