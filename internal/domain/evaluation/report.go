package evaluation

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WriteReport renders the evaluation summary sheet as a PDF.
func WriteReport(w io.Writer, employeeName string, detail Detail) error {
	ev := detail.Evaluation

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Evaluation Summary")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", employeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Review: %s (%s)", ev.Type, ev.Period))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Reviewer: %s", ev.ReviewerName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", ev.Date.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", ev.Status))
	pdf.Ln(10)

	overall := "N/A"
	if ev.Score != nil {
		overall = fmt.Sprintf("%.1f", *ev.Score)
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Overall: %s   Objectives: %.1f   Competencies: %.1f", overall, detail.Summary.ObjectiveScore, detail.Summary.CompetencyScore))
	pdf.Ln(12)

	pdf.Cell(0, 8, "Objectives")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	reportRow(pdf, true, "Title", "Target", "Achieved", "Weight", "Score")
	for _, obj := range detail.Objectives {
		reportRow(pdf, false, obj.Title, fmt.Sprint(obj.Target), fmt.Sprint(obj.Achieved), fmt.Sprintf("%d%%", obj.Weight), fmt.Sprintf("%.1f", obj.Score()))
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Competencies")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	reportRow(pdf, true, "Name", "Required", "Actual", "Weight", "Score")
	for _, comp := range detail.Competencies {
		reportRow(pdf, false, comp.Name, fmt.Sprint(comp.RequiredLevel), fmt.Sprint(comp.ActualLevel), fmt.Sprintf("%d%%", comp.Weight), fmt.Sprintf("%.1f", comp.Score()))
	}

	return pdf.Output(w)
}

func reportRow(pdf *gofpdf.Fpdf, header bool, name string, cols ...string) {
	if header {
		pdf.SetFont("Helvetica", "B", 10)
		defer pdf.SetFont("Helvetica", "", 10)
	}
	pdf.CellFormat(80, 7, pdf.UnicodeTranslatorFromDescriptor("")(name), "1", 0, "L", false, 0, "")
	for _, col := range cols {
		pdf.CellFormat(25, 7, col, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}
