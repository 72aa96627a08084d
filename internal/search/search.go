package search

import (
	"math"
	"strings"

	"media-catalog/internal/snapshot"
	"media-catalog/internal/tags"
)

// Result is one page of matches.
type Result struct {
	Items    []snapshot.MediaRecord `json:"items"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
}

// Search filters snap by q and returns the requested page.
//
// A record matches when it carries every required tag and, for every
// attribute filter, has a value in the allowed set. Total counts all matches
// in catalog order; only the page slice is copied into Items. Search only
// reads snap and is safe to call concurrently.
func Search(snap *snapshot.Snapshot, q Query) Result {
	q = q.Normalize()

	result := Result{
		Items:    []snapshot.MediaRecord{},
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if snap == nil {
		return result
	}

	start := pageStart(q.Page, q.PageSize)
	for i := range snap.Media {
		record := &snap.Media[i]
		if !matchesTags(record, q.Tags) || !matchesAttributes(record, q.Attributes) {
			continue
		}
		if result.Total >= start && len(result.Items) < q.PageSize {
			result.Items = append(result.Items, *record)
		}
		result.Total++
	}

	return result
}

func pageStart(page, pageSize int) int {
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// matchesTags checks required tags against each tag's normalized form and
// its name, so "camera" matches a camera=alpha tag.
func matchesTags(record *snapshot.MediaRecord, required []string) bool {
	if len(required) == 0 {
		return true
	}

	keys := make(map[string]struct{}, len(record.Tags)*2)
	for _, tag := range record.Tags {
		keys[tag.Normalized] = struct{}{}
		keys[tag.Name] = struct{}{}
	}

	for _, tag := range required {
		if _, ok := keys[tag]; !ok {
			return false
		}
	}
	return true
}

func matchesAttributes(record *snapshot.MediaRecord, filters map[string]map[string]struct{}) bool {
	for name, allowed := range filters {
		if !matchesAttribute(record, name, allowed) {
			return false
		}
	}
	return true
}

func matchesAttribute(record *snapshot.MediaRecord, name string, allowed map[string]struct{}) bool {
	if value, ok := record.Attributes[name]; ok {
		if _, hit := allowed[strings.ToLower(value)]; hit {
			return true
		}
	}

	for _, tag := range record.Tags {
		if tag.Kind != tags.KindKeyValue || tag.Name != name {
			continue
		}
		if _, hit := allowed[tag.Value]; hit {
			return true
		}
	}
	return false
}
