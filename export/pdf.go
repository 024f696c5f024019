package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"backwater-server/models"
)

// BuildPDF renders a one-page summary followed by the monthly table.
func BuildPDF(report *models.TrendReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Vembanad Lake Water Quality")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Region: %s", report.Region))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Window: %s", report.Window))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Proxy profile: %s", report.Profile))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	t := report.Thresholds
	pdf.Cell(0, 6, fmt.Sprintf("Chlorophyll alerts (> %.2f): %d months", t.ChlorophyllHigh, report.Alerts.ChlorophyllAlertCount))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Turbidity alerts (> %.2f): %d months", t.TurbidityHigh, report.Alerts.TurbidityAlertCount))
	pdf.Ln(8)
	if !report.HasData {
		pdf.Cell(0, 6, "Insufficient data for this window. Try a longer time window.")
		pdf.Ln(8)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Month", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Chlorophyll index", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Turbidity index", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Monsoon", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range report.Series.Rows {
		monsoon := ""
		if row.IsMonsoon {
			monsoon = "yes"
		}
		pdf.CellFormat(40, 6, row.Month, "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, pdfValue(row.ChlorophyllIndex), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, pdfValue(row.TurbidityIndex), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, monsoon, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *v)
}
