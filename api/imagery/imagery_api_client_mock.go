package imagery

import (
	"context"
	"fmt"
	"strings"

	"backwater-server/log"
	"backwater-server/models"
	"backwater-server/util"
)

const (
	monthImagePrefix = "mock-month:"
	compositeImageID = "mock-composite"
)

// ImageryApiClientMock serves recorded reductions instead of calling the
// remote service. Single-month ranges are answered from the monthly results,
// any other range from the composite result. The proxy profile is ignored.
type ImageryApiClientMock struct {
	monthly   *models.MonthlyResultsFixture
	composite *models.CompositeResultFixture
}

// NewImageryApiClientMock creates a mock from fixture files on disk.
func NewImageryApiClientMock(monthlyPath, compositePath string) (*ImageryApiClientMock, error) {
	monthly, err := util.ReadMonthlyResultsFromJSON(monthlyPath)
	if err != nil {
		return nil, fmt.Errorf("could not read monthly results: %w", err)
	}
	composite, err := util.ReadCompositeResultFromJSON(compositePath)
	if err != nil {
		return nil, fmt.Errorf("could not read composite result: %w", err)
	}
	return NewImageryApiClientMockFromData(monthly, composite), nil
}

// NewImageryApiClientMockFromData creates a mock from in-memory fixtures.
func NewImageryApiClientMockFromData(monthly *models.MonthlyResultsFixture, composite *models.CompositeResultFixture) *ImageryApiClientMock {
	if monthly == nil {
		monthly = &models.MonthlyResultsFixture{}
	}
	if monthly.Months == nil {
		monthly.Months = map[string]models.MonthlyResult{}
	}
	if composite == nil {
		composite = &models.CompositeResultFixture{}
	}
	return &ImageryApiClientMock{monthly: monthly, composite: composite}
}

func (c *ImageryApiClientMock) MedianComposite(ctx context.Context, dates models.DateRange, region models.BoundingBox, profile models.ProxyProfile) (*Composite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if isSingleMonth(dates) {
		label := dates.From.Format(models.MonthLayout)
		result, ok := c.monthly.Months[label]
		if !ok || result.ImageCount == 0 {
			return &Composite{}, nil
		}
		return &Composite{ImageID: monthImagePrefix + label, ImageCount: result.ImageCount}, nil
	}
	log.Debugf("[ImageryApiClientMock] composite %s..%s served from fixture", dates.From.Format(dateLayout), dates.To.Format(dateLayout))
	if c.composite.ImageCount == 0 {
		return &Composite{}, nil
	}
	return &Composite{ImageID: compositeImageID, ImageCount: c.composite.ImageCount}, nil
}

func (c *ImageryApiClientMock) ReduceMean(ctx context.Context, imageID, band string, region models.BoundingBox, scale int) (*float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if label, ok := strings.CutPrefix(imageID, monthImagePrefix); ok {
		result, found := c.monthly.Months[label]
		if !found {
			return nil, fmt.Errorf("[ImageryApiClientMock] unknown image %q", imageID)
		}
		switch band {
		case BAND_NDCI:
			return result.Ndci, nil
		case BAND_TURBIDITY:
			return result.Turbidity, nil
		default:
			return nil, nil
		}
	}
	if imageID == compositeImageID {
		return c.composite.Stats[band].Mean, nil
	}
	return nil, fmt.Errorf("[ImageryApiClientMock] unknown image %q", imageID)
}

func (c *ImageryApiClientMock) ReducePercentile(ctx context.Context, imageID, band string, region models.BoundingBox, scale int, percentile int) (*float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if imageID != compositeImageID {
		return nil, fmt.Errorf("[ImageryApiClientMock] percentiles are only recorded for the composite, got %q", imageID)
	}
	return c.composite.Percentiles[band][percentileKey(percentile)], nil
}

func (c *ImageryApiClientMock) ReduceStats(ctx context.Context, imageID string, bands []string, region models.BoundingBox, scale int) (map[string]models.BandStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if imageID != compositeImageID {
		return nil, fmt.Errorf("[ImageryApiClientMock] stats are only recorded for the composite, got %q", imageID)
	}
	out := make(map[string]models.BandStats, len(bands))
	for _, b := range bands {
		out[b] = c.composite.Stats[b]
	}
	return out, nil
}

func isSingleMonth(dates models.DateRange) bool {
	from := dates.From.UTC()
	return from.Equal(models.FirstOfMonth(from)) && dates.To.UTC().Equal(from.AddDate(0, 1, 0))
}
