// Package timeline turns timeline keywords and calendar dates into concrete windows.
package timeline

import (
	"strings"
	"time"

	"github.com/spec-kit/field-insights/internal/domain"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// Recognized timeline keywords.
const (
	Last7Days     = "Last 7 days"
	Last30Days    = "Last 30 days"
	PreviousMonth = "Previous month"
	Last90Days    = "Last 90 days"
	Last365Days   = "Last 365 days"
	AllTime       = "All time"
)

const dateLayout = "2006-01-02"

// DefaultLookback is the trailing window used when nothing is requested.
const DefaultLookback = 30 * 24 * time.Hour

// Keywords lists the accepted timeline keywords in display order.
var Keywords = []string{Last7Days, Last30Days, PreviousMonth, Last90Days, Last365Days, AllTime}

// trailingDays maps "Last N days" keywords to the offset of their first day.
var trailingDays = map[string]int{
	Last7Days:   6,
	Last30Days:  29,
	Last90Days:  89,
	Last365Days: 364,
}

// Resolver resolves windows relative to its clock, in its location.
type Resolver struct {
	now      func() time.Time
	location *time.Location
	epoch    time.Time
}

// NewResolver builds a resolver. A nil clock means time.Now and a nil
// location means UTC.
func NewResolver(now func() time.Time, location *time.Location) *Resolver {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &Resolver{
		now:      now,
		location: location,
		epoch:    time.Date(2000, time.January, 1, 0, 0, 0, 0, location),
	}
}

// Request carries the raw window parameters of a request.
type Request struct {
	Start    string
	End      string
	Timeline string
}

// Resolve turns a request into a window. A keyword and explicit dates are
// mutually exclusive. With neither (or only one of the two dates) the
// window is the trailing 30 days ending now.
func (r *Resolver) Resolve(req Request) (domain.TimeWindow, error) {
	keyword := strings.TrimSpace(req.Timeline)
	start := strings.TrimSpace(req.Start)
	end := strings.TrimSpace(req.End)

	if keyword != "" {
		if start != "" || end != "" {
			return domain.TimeWindow{}, apperrors.NewInvalidRange("provide either a timeline or start/end dates, not both", nil)
		}
		return r.Keyword(keyword)
	}
	if start == "" || end == "" {
		return r.Default(), nil
	}
	return r.Dates(start, end)
}

// Keyword resolves a named timeline relative to today.
func (r *Resolver) Keyword(keyword string) (domain.TimeWindow, error) {
	today := r.today()

	if offset, ok := trailingDays[keyword]; ok {
		return domain.TimeWindow{Start: today.AddDate(0, 0, -offset), End: endOfDay(today)}, nil
	}

	switch keyword {
	case PreviousMonth:
		firstOfThisMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, r.location)
		lastOfPrevious := firstOfThisMonth.AddDate(0, 0, -1)
		firstOfPrevious := time.Date(lastOfPrevious.Year(), lastOfPrevious.Month(), 1, 0, 0, 0, 0, r.location)
		return domain.TimeWindow{Start: firstOfPrevious, End: endOfDay(lastOfPrevious)}, nil
	case AllTime:
		return domain.TimeWindow{Start: r.epoch, End: endOfDay(today)}, nil
	}

	return domain.TimeWindow{}, apperrors.NewInvalidRange("unsupported timeline", map[string]any{
		"timeline":  keyword,
		"supported": Keywords,
	})
}

// Dates parses YYYY-MM-DD bounds. The end bound always covers its whole day.
func (r *Resolver) Dates(start, end string) (domain.TimeWindow, error) {
	startAt, err := time.ParseInLocation(dateLayout, start, r.location)
	if err != nil {
		return domain.TimeWindow{}, apperrors.NewInvalidRange("invalid date format, use YYYY-MM-DD", map[string]any{"start_date": start})
	}
	endDay, err := time.ParseInLocation(dateLayout, end, r.location)
	if err != nil {
		return domain.TimeWindow{}, apperrors.NewInvalidRange("invalid date format, use YYYY-MM-DD", map[string]any{"end_date": end})
	}

	window := domain.TimeWindow{Start: startAt, End: endOfDay(endDay)}
	if window.Start.After(window.End) {
		return domain.TimeWindow{}, apperrors.NewInvalidRange("start date must be before end date", map[string]any{
			"start_date": start,
			"end_date":   end,
		})
	}
	return window, nil
}

// Default is the trailing 30 days ending at the current instant.
func (r *Resolver) Default() domain.TimeWindow {
	now := r.now().In(r.location)
	return domain.TimeWindow{Start: now.Add(-DefaultLookback), End: now}
}

// ResolveOr is Resolve with a different keyword standing in for the
// default trailing window when the request names nothing.
func (r *Resolver) ResolveOr(req Request, fallback string) (domain.TimeWindow, error) {
	if strings.TrimSpace(req.Timeline) == "" && strings.TrimSpace(req.Start) == "" && strings.TrimSpace(req.End) == "" {
		return r.Keyword(fallback)
	}
	return r.Resolve(req)
}

// Location returns the resolver's timezone.
func (r *Resolver) Location() *time.Location {
	return r.location
}

func (r *Resolver) today() time.Time {
	now := r.now().In(r.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.location)
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location())
}
