package validate

import (
	"strings"
	"time"

	"github.com/ppiankov/veracity/internal/model"
)

// timestampLayouts are the publication date formats seen in fact-check payloads
var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// RecencyFilter discards fact-check records older than the freshness window
type RecencyFilter struct {
	Window time.Duration
	Now    func() time.Time
}

// NewRecencyFilter creates a filter with a window in days
func NewRecencyFilter(windowDays int) *RecencyFilter {
	return &RecencyFilter{
		Window: time.Duration(windowDays) * 24 * time.Hour,
		Now:    time.Now,
	}
}

// Filter keeps records whose timestamp parses and whose age is within the window.
// Order is preserved.
func (f *RecencyFilter) Filter(records []model.FactCheckRecord) []model.FactCheckRecord {
	recent := make([]model.FactCheckRecord, 0, len(records))
	for _, r := range records {
		if f.IsRecent(r) {
			recent = append(recent, r)
		}
	}
	return recent
}

// IsRecent reports whether a single record is inside the window
func (f *RecencyFilter) IsRecent(record model.FactCheckRecord) bool {
	published, ok := ParseTimestamp(record.PublishedAt)
	if !ok {
		return false
	}

	age := f.now().Sub(published)
	if age < 0 {
		age = 0
	}
	return age <= f.Window
}

// AgeDays returns the age of a record in whole days, or -1 when the timestamp is unusable
func (f *RecencyFilter) AgeDays(record model.FactCheckRecord) int {
	published, ok := ParseTimestamp(record.PublishedAt)
	if !ok {
		return -1
	}
	age := f.now().Sub(published)
	if age < 0 {
		return 0
	}
	return int(age.Hours() / 24)
}

func (f *RecencyFilter) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// ParseTimestamp parses a publication timestamp in any known layout
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
