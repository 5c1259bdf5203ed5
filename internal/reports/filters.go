package reports

import (
	"errors"
	"time"
)

var ErrInvalidDateRange = errors.New("invalid date range")

// GetDateRange returns the UTC window for a preset, or for a custom range (start/end in
// "2006-01-02"). An empty preset means no window and yields nil bounds.
func GetDateRange(dateRange, startStr, endStr string, now time.Time) (*time.Time, *time.Time, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var start, end time.Time
	switch dateRange {
	case "":
		return nil, nil, nil
	case DateRangeDaily:
		start = today
		end = start.AddDate(0, 0, 1)
	case DateRangeWeekly:
		// last 7 days (including today)
		end = today.AddDate(0, 0, 1)
		start = today.AddDate(0, 0, -6)
	case DateRangeMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	case DateRangeYearly:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(1, 0, 0)
	case DateRangeCustom:
		if startStr == "" || endStr == "" {
			return nil, nil, errors.New("start_date and end_date required for custom range")
		}
		var err error
		if start, err = time.Parse("2006-01-02", startStr); err != nil {
			return nil, nil, ErrInvalidDateRange
		}
		if end, err = time.Parse("2006-01-02", endStr); err != nil {
			return nil, nil, ErrInvalidDateRange
		}
		// include entire end day
		end = end.AddDate(0, 0, 1)
		if !start.Before(end) {
			return nil, nil, errors.New("start_date must be before end_date")
		}
	default:
		return nil, nil, ErrInvalidDateRange
	}
	// inclusive upper bound for BETWEEN
	end = end.Add(-time.Nanosecond)
	return &start, &end, nil
}
