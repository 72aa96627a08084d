package search

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrValidation marks malformed search parameters.
var ErrValidation = errors.New("validation failed")

// ParseParams validates request parameters and builds a Query.
//
//	tags=a,b                  required tags
//	attributes[name]=v1,v2    allowed values for an attribute
//	page=2&pageSize=30        pagination
//
// Unknown parameters are ignored.
func ParseParams(values url.Values) (Query, error) {
	var tagList []string
	if raw, ok := values["tags"]; ok {
		tagList = splitList(raw)
		if len(tagList) == 0 {
			return Query{}, fmt.Errorf("%w: tags query parameter must contain at least one value", ErrValidation)
		}
	}

	attributes := make(map[string][]string)
	for key, raw := range values {
		if !strings.HasPrefix(key, "attributes[") || !strings.HasSuffix(key, "]") {
			continue
		}
		name := strings.TrimSpace(key[len("attributes[") : len(key)-1])
		if name == "" {
			return Query{}, fmt.Errorf("%w: attribute filter %q has no name", ErrValidation, key)
		}
		if list := splitList(raw); len(list) > 0 {
			attributes[name] = append(attributes[name], list...)
		}
	}

	page, err := parseCount(values, "page")
	if err != nil {
		return Query{}, err
	}
	pageSize, err := parseCount(values, "pageSize")
	if err != nil {
		return Query{}, err
	}

	return NewQuery(tagList, attributes, page, pageSize), nil
}

func splitList(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, token := range strings.Split(entry, ",") {
			if token = strings.ToLower(strings.TrimSpace(token)); token != "" {
				out = append(out, token)
			}
		}
	}
	return out
}

// parseCount reads an optional non-negative integer. Absent means 0, which
// the query normalizes to its default.
func parseCount(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer, got %q", ErrValidation, key, raw)
	}
	return n, nil
}
