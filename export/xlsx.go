package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"backwater-server/models"
)

const (
	seriesSheet  = "series"
	summarySheet = "summary"
)

// BuildXLSX renders the monthly series and a summary sheet.
func BuildXLSX(report *models.TrendReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", seriesSheet)
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to add summary sheet: %w", err)
	}

	_ = f.SetSheetRow(seriesSheet, "A1", &[]interface{}{"month", "chlorophyll_index", "turbidity_index", "monsoon"})
	for i, row := range report.Series.Rows {
		r := i + 2
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("A%d", r), row.Month)
		if row.ChlorophyllIndex != nil {
			_ = f.SetCellValue(seriesSheet, fmt.Sprintf("B%d", r), *row.ChlorophyllIndex)
		}
		if row.TurbidityIndex != nil {
			_ = f.SetCellValue(seriesSheet, fmt.Sprintf("C%d", r), *row.TurbidityIndex)
		}
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("D%d", r), row.IsMonsoon)
	}

	_ = f.SetCellValue(summarySheet, "A1", "Vembanad Lake water quality")
	_ = f.SetCellValue(summarySheet, "A3", "Region")
	_ = f.SetCellValue(summarySheet, "B3", report.Region.String())
	_ = f.SetCellValue(summarySheet, "A4", "Window")
	_ = f.SetCellValue(summarySheet, "B4", report.Window.String())
	_ = f.SetCellValue(summarySheet, "A5", "Proxy profile")
	_ = f.SetCellValue(summarySheet, "B5", report.Profile)
	_ = f.SetCellValue(summarySheet, "A6", "Chlorophyll alert months")
	_ = f.SetCellValue(summarySheet, "B6", report.Alerts.ChlorophyllAlertCount)
	_ = f.SetCellValue(summarySheet, "A7", "Turbidity alert months")
	_ = f.SetCellValue(summarySheet, "B7", report.Alerts.TurbidityAlertCount)

	_ = f.SetSheetRow(summarySheet, "A9", &[]interface{}{"metric", "count", "mean", "std_dev", "min", "max"})
	writeStatsRow(f, 10, "chlorophyll_index", report.ChlorophyllStats)
	writeStatsRow(f, 11, "turbidity_index", report.TurbidityStats)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStatsRow(f *excelize.File, row int, name string, stats models.DescriptiveStats) {
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), name)
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), stats.Count)
	for i, v := range []*float64{stats.Mean, stats.StdDev, stats.Min, stats.Max} {
		if v == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(3+i, row)
		_ = f.SetCellValue(summarySheet, cell, *v)
	}
}
