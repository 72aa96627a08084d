package search

import "strings"

const (
	// DefaultPageSize is used when a query asks for page size 0.
	DefaultPageSize = 60
	// MaxPageSize caps the page size of any query.
	MaxPageSize = 200
)

// Query is a normalized search request. Values built by NewQuery, or passed
// through Normalize, always satisfy:
//   - Tags are trimmed, lowercased, non-empty and unique
//   - every attribute filter has at least one allowed value
//   - Page >= 1 and 1 <= PageSize <= MaxPageSize
type Query struct {
	Tags       []string
	Attributes map[string]map[string]struct{}
	Page       int
	PageSize   int
}

// NewQuery builds a normalized query from raw request values.
func NewQuery(tags []string, attributes map[string][]string, page, pageSize int) Query {
	q := Query{
		Tags:       normalizeTags(tags),
		Attributes: make(map[string]map[string]struct{}),
		Page:       normalizePage(page),
		PageSize:   normalizePageSize(pageSize),
	}

	for name, values := range attributes {
		key, ok := normalizeToken(name)
		if !ok {
			continue
		}
		for _, v := range values {
			value, ok := normalizeToken(v)
			if !ok {
				continue
			}
			if q.Attributes[key] == nil {
				q.Attributes[key] = make(map[string]struct{})
			}
			q.Attributes[key][value] = struct{}{}
		}
	}

	return q
}

// Normalize returns q with every invariant restored. It is idempotent.
func (q Query) Normalize() Query {
	attrs := make(map[string][]string, len(q.Attributes))
	for name, set := range q.Attributes {
		for value := range set {
			attrs[name] = append(attrs[name], value)
		}
	}
	return NewQuery(q.Tags, attrs, q.Page, q.PageSize)
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		tag, ok := normalizeToken(raw)
		if !ok {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func normalizeToken(token string) (string, bool) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", false
	}
	return strings.ToLower(trimmed), true
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePageSize(pageSize int) int {
	switch {
	case pageSize <= 0:
		return DefaultPageSize
	case pageSize > MaxPageSize:
		return MaxPageSize
	default:
		return pageSize
	}
}
