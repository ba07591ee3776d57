package gallery

import (
	"sort"
	"strings"
	"time"

	"github.com/umputun/apodview/pkg/domain"
)

// dateLayouts lists accepted date formats, the feed date text is not guaranteed to be normalized
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Range is an inclusive date range, empty bounds are open
type Range struct {
	Start string
	End   string
}

// IsZero reports whether both bounds are empty
func (r Range) IsZero() bool {
	return strings.TrimSpace(r.Start) == "" && strings.TrimSpace(r.End) == ""
}

// ParseDate parses date text into a calendar date at UTC midnight
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// Apply keeps records whose date falls inside the range, both ends inclusive.
// With no bounds the input is returned unchanged. A bound which can't be parsed is ignored,
// records with unparseable dates are dropped whenever a bound is in effect.
func Apply(list []domain.Record, rng Range) []domain.Record {
	if rng.IsZero() {
		return list
	}

	start, hasStart := ParseDate(rng.Start)
	end, hasEnd := ParseDate(rng.End)
	if !hasStart && !hasEnd {
		return list
	}

	result := make([]domain.Record, 0, len(list))
	for _, rec := range list {
		d, ok := ParseDate(rec.Date)
		if !ok {
			continue
		}
		if hasStart && d.Before(start) {
			continue
		}
		if hasEnd && d.After(end) {
			continue
		}
		result = append(result, rec)
	}
	return result
}

// SortByDate returns a copy of list ordered newest first. Ties keep feed order,
// records without a parseable date go last in feed order.
func SortByDate(list []domain.Record) []domain.Record {
	type keyed struct {
		rec  domain.Record
		date time.Time
		ok   bool
	}

	items := make([]keyed, len(list))
	for i, rec := range list {
		d, ok := ParseDate(rec.Date)
		items[i] = keyed{rec: rec, date: d, ok: ok}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].date.After(items[j].date)
	})

	result := make([]domain.Record, len(items))
	for i, it := range items {
		result[i] = it.rec
	}
	return result
}
