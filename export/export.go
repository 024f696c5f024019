package export

import (
	"fmt"
	"strconv"
	"time"

	"backwater-server/models"
)

// Format is an export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

const FILE_NAME_FORMAT = "vembanad_water_quality_%s.%s"

// ParseFormat accepts csv, xlsx and pdf; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", models.ErrInvalidArgument, s)
}

// FileName is the download name of an export produced on day.
func FileName(format Format, day time.Time) string {
	return fmt.Sprintf(FILE_NAME_FORMAT, day.Format("2006-01-02"), format)
}

func ContentType(format Format) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Build renders the monthly table of report in format.
func Build(format Format, report *models.TrendReport) ([]byte, error) {
	switch format {
	case FormatCSV:
		return BuildCSV(&report.Series)
	case FormatXLSX:
		return BuildXLSX(report)
	case FormatPDF:
		return BuildPDF(report)
	}
	return nil, fmt.Errorf("%w: unknown export format %q", models.ErrInvalidArgument, format)
}

// formatValue renders a metric cell; missing is the empty string.
func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
