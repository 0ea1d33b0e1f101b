// Package extract holds the pure field extractors applied during dataset
// normalization. Every function is total: malformed input yields an absent
// value, never an error or panic.
package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	minExperiencePattern = regexp.MustCompile(`(?i)(\d+)\s*to`)
	minSalaryPattern     = regexp.MustCompile(`\$(\d+)K`)
)

var postingDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseCompanyProfile decodes the embedded JSON company profile. The source
// data escapes literal quotes by doubling them twice over and wraps some
// documents in one extra quote pair, so a run of exactly four quote
// characters collapses to one and a single surrounding pair is stripped
// before decoding. Any decode failure yields an empty, non-nil map.
func ParseCompanyProfile(raw string) map[string]any {
	cleaned := strings.ReplaceAll(raw, `""""`, `"`)
	if len(cleaned) >= 2 && strings.HasPrefix(cleaned, `"`) && strings.HasSuffix(cleaned, `"`) {
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	var profile map[string]any
	if err := json.Unmarshal([]byte(cleaned), &profile); err != nil || profile == nil {
		return map[string]any{}
	}
	return profile
}

// ExtractMinExperience returns the lower bound of an experience range such
// as "3 to 8 Years". Unmatched or empty input yields ok=false.
func ExtractMinExperience(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	m := minExperiencePattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractMinSalary returns the lower dollar figure of a salary range such as
// "$50K-$100K", scaled from thousands to whole dollars. Unmatched or empty
// input yields ok=false.
func ExtractMinSalary(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	m := minSalaryPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n * 1000, true
}

// ParsePostingDate parses the posting date column. The dataset carries plain
// ISO dates; datetime forms are accepted as well.
func ParsePostingDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range postingDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses a numeric column such as latitude or company size.
func ParseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
