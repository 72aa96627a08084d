package search

import (
	"errors"
	"net/url"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attributeValues(q Query, name string) []string {
	values := make([]string, 0, len(q.Attributes[name]))
	for v := range q.Attributes[name] {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func TestNewQueryNormalizesPagination(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{name: "zero page resets to one", page: 0, pageSize: 10, wantPage: 1, wantPageSize: 10},
		{name: "zero page size uses default", page: 3, pageSize: 0, wantPage: 3, wantPageSize: DefaultPageSize},
		{name: "oversized page size clamps", page: 1, pageSize: 5000, wantPage: 1, wantPageSize: MaxPageSize},
		{name: "max page size kept", page: 1, pageSize: MaxPageSize, wantPage: 1, wantPageSize: MaxPageSize},
		{name: "negative values", page: -4, pageSize: -1, wantPage: 1, wantPageSize: DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuery(nil, nil, tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantPageSize, q.PageSize)
		})
	}
}

func TestNewQueryNormalizesFilters(t *testing.T) {
	q := NewQuery(
		[]string{" Sunset ", "sunset", "", "COAST"},
		map[string][]string{
			" Rating ": {"5", " 4 ", ""},
			"empty":    {"", "  "},
			"":         {"x"},
		},
		1, 10,
	)

	assert.Equal(t, []string{"sunset", "coast"}, q.Tags)
	assert.Equal(t, []string{"4", "5"}, attributeValues(q, "rating"))
	assert.NotContains(t, q.Attributes, "empty")
	assert.NotContains(t, q.Attributes, "")
	assert.Len(t, q.Attributes, 1)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []Query{
		NewQuery([]string{"A", "a", "b"}, map[string][]string{"X": {"1", "2"}}, 0, 0),
		NewQuery(nil, nil, 7, 999),
		{Page: -1, PageSize: 0},
		{Tags: []string{" Mixed "}, Page: 2, PageSize: 201},
	}

	for _, q := range inputs {
		once := q.Normalize()
		twice := once.Normalize()
		assert.Equal(t, once, twice)
	}
}

func TestParseParams(t *testing.T) {
	values, err := url.ParseQuery("tags=Sunset,coast&attributes[rating]=5,4&attributes[subject]=leaf&page=2&pageSize=30&unrelated=1")
	require.NoError(t, err)

	q, err := ParseParams(values)
	require.NoError(t, err)

	assert.Equal(t, []string{"sunset", "coast"}, q.Tags)
	assert.Equal(t, []string{"4", "5"}, attributeValues(q, "rating"))
	assert.Equal(t, []string{"leaf"}, attributeValues(q, "subject"))
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 30, q.PageSize)
}

func TestParseParamsDefaults(t *testing.T) {
	q, err := ParseParams(url.Values{})
	require.NoError(t, err)

	assert.Empty(t, q.Tags)
	assert.Empty(t, q.Attributes)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
}

func TestParseParamsValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "empty tags", query: "tags="},
		{name: "only commas", query: "tags=,,%20,"},
		{name: "non-numeric page", query: "page=two"},
		{name: "negative page size", query: "pageSize=-5"},
		{name: "fractional page", query: "page=1.5"},
		{name: "unnamed attribute", query: "attributes[]=5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			_, err = ParseParams(values)
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
		})
	}
}

func TestParseParamsEmptyAttributeIgnored(t *testing.T) {
	values, err := url.ParseQuery("attributes[rating]=")
	require.NoError(t, err)

	q, err := ParseParams(values)
	require.NoError(t, err)
	assert.Empty(t, q.Attributes)
}
