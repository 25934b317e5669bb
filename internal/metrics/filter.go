package metrics

import (
	"time"

	"restaurant-pos/internal/model"
)

// DateLayout is the day format accepted by ParseFilter.
const DateLayout = "2006-01-02"

// statusAll disables status filtering.
const statusAll = "all"

// ParseFilter builds a Filter from text inputs. Dates are RFC 3339 instants
// or YYYY-MM-DD days in loc; a day given as "to" covers the whole day.
// Blank values and status "all" leave that condition unset.
func ParseFilter(status, from, to string, loc *time.Location) (Filter, error) {
	if loc == nil {
		loc = time.UTC
	}

	var f Filter
	if status != statusAll {
		f.Status = status
	}

	start, err := parseDate(from, loc, false)
	if err != nil {
		return f, err
	}
	end, err := parseDate(to, loc, true)
	if err != nil {
		return f, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return f, model.NewValidationError("from must not be after to")
	}

	f.From, f.To = start, end
	return f, nil
}

func parseDate(raw string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	day, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return nil, model.NewValidationError("dates must be YYYY-MM-DD or RFC 3339")
	}
	if endOfDay {
		day = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &day, nil
}
