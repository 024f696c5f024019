package util

import (
	"encoding/json"
	"fmt"
	"os"

	"backwater-server/models"
)

// ReadMonthlyResultsFromJSON loads recorded monthly reductions from JSON on disk.
func ReadMonthlyResultsFromJSON(filePath string) (*models.MonthlyResultsFixture, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var resp models.MonthlyResultsFixture
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal MonthlyResultsFixture: %w", err)
	}
	if resp.Months == nil {
		resp.Months = map[string]models.MonthlyResult{}
	}
	return &resp, nil
}

// ReadCompositeResultFromJSON loads a recorded composite reduction from JSON on disk.
func ReadCompositeResultFromJSON(filePath string) (*models.CompositeResultFixture, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var resp models.CompositeResultFixture
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal CompositeResultFixture: %w", err)
	}
	return &resp, nil
}
