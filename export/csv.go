package export

import (
	"bytes"
	"fmt"

	"github.com/gocarina/gocsv"

	"backwater-server/models"
)

// MonthlyRecord is one exported row. Missing metrics are empty cells.
type MonthlyRecord struct {
	Month            string `csv:"month"`
	ChlorophyllIndex string `csv:"chlorophyll_index"`
	TurbidityIndex   string `csv:"turbidity_index"`
}

// Records flattens series into export rows, in series order.
func Records(series *models.Series) []*MonthlyRecord {
	records := make([]*MonthlyRecord, 0, series.Len())
	for _, row := range series.Rows {
		records = append(records, &MonthlyRecord{
			Month:            row.Month,
			ChlorophyllIndex: formatValue(row.ChlorophyllIndex),
			TurbidityIndex:   formatValue(row.TurbidityIndex),
		})
	}
	return records
}

// BuildCSV writes a header line followed by one line per month.
func BuildCSV(series *models.Series) ([]byte, error) {
	records := Records(series)
	var buf bytes.Buffer
	if len(records) == 0 {
		buf.WriteString("month,chlorophyll_index,turbidity_index\n")
		return buf.Bytes(), nil
	}
	if err := gocsv.Marshal(&records, &buf); err != nil {
		return nil, fmt.Errorf("failed to marshal CSV: %w", err)
	}
	return buf.Bytes(), nil
}
