package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-catalog/internal/mediatypes"
	"media-catalog/internal/snapshot"
	"media-catalog/internal/tags"
)

func record(id string, tagList ...tags.Tag) snapshot.MediaRecord {
	return snapshot.MediaRecord{
		ID:           id,
		RelativePath: id + ".png",
		MediaType:    mediatypes.MediaTypeImage,
		Tags:         tagList,
		Attributes:   tags.Attributes(tagList),
	}
}

func fixture() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Version: snapshot.SchemaVersion,
		Media: []snapshot.MediaRecord{
			record("sunset_A", tags.NewSimple("sunset"), tags.NewSimple("coast"), tags.NewKeyValue("rating", "5")),
			record("sunset_B", tags.NewSimple("sunset"), tags.NewKeyValue("rating", "4")),
			record("macro_B", tags.NewSimple("macro"), tags.NewKeyValue("rating", "4"), tags.NewKeyValue("subject", "leaf")),
			record("video_C", tags.NewSimple("video"), tags.NewKeyValue("rating", "3"), tags.NewKeyValue("type", "skate")),
		},
	}
}

func ids(result Result) []string {
	out := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		out = append(out, item.ID)
	}
	return out
}

func TestSearchTagsAndAttributes(t *testing.T) {
	q := NewQuery([]string{"sunset", "coast"}, map[string][]string{"rating": {"5"}}, 1, 10)
	result := Search(fixture(), q)

	assert.Equal(t, 1, result.Total)
	assert.Equal(t, []string{"sunset_A"}, ids(result))
}

func TestSearchAttributeValuesAreORed(t *testing.T) {
	q := NewQuery(nil, map[string][]string{"rating": {"4", "3"}}, 1, 10)
	result := Search(fixture(), q)

	assert.Equal(t, 3, result.Total)
	assert.ElementsMatch(t, []string{"sunset_B", "macro_B", "video_C"}, ids(result))
}

func TestSearchAttributeNamesAreANDed(t *testing.T) {
	q := NewQuery(nil, map[string][]string{"rating": {"4"}, "subject": {"leaf"}}, 1, 10)
	result := Search(fixture(), q)

	assert.Equal(t, []string{"macro_B"}, ids(result))
}

func TestSearchPaginatesMatches(t *testing.T) {
	q := NewQuery([]string{"sunset"}, nil, 2, 1)
	result := Search(fixture(), q)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, []string{"sunset_B"}, ids(result))
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 1, result.PageSize)
}

func TestSearchTagMatchesKeyValueName(t *testing.T) {
	snap := &snapshot.Snapshot{Media: []snapshot.MediaRecord{
		record("camera_A", tags.NewKeyValue("camera", "alpha")),
		record("other_B", tags.NewSimple("other")),
	}}

	result := Search(snap, NewQuery([]string{"camera"}, nil, 1, 10))
	assert.Equal(t, []string{"camera_A"}, ids(result))

	result = Search(snap, NewQuery([]string{"camera=alpha"}, nil, 1, 10))
	assert.Equal(t, []string{"camera_A"}, ids(result))
}

func TestSearchAttributeFallsBackToTags(t *testing.T) {
	// Attributes map keeps only the first rating; later tags still match.
	rec := record("multi", tags.NewKeyValue("rating", "5"), tags.NewKeyValue("rating", "2"))
	require.Equal(t, "5", rec.Attributes["rating"])

	snap := &snapshot.Snapshot{Media: []snapshot.MediaRecord{rec}}
	result := Search(snap, NewQuery(nil, map[string][]string{"rating": {"2"}}, 1, 10))
	assert.Equal(t, 1, result.Total)
}

func TestSearchAttributeMapIsCaseInsensitive(t *testing.T) {
	rec := snapshot.MediaRecord{ID: "x", Attributes: map[string]string{"camera": "Alpha"}}
	snap := &snapshot.Snapshot{Media: []snapshot.MediaRecord{rec}}

	result := Search(snap, NewQuery(nil, map[string][]string{"Camera": {"ALPHA"}}, 1, 10))
	assert.Equal(t, 1, result.Total)
}

func TestSearchEmptyFiltersMatchEverything(t *testing.T) {
	result := Search(fixture(), NewQuery(nil, nil, 0, 0))

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, []string{"sunset_A", "sunset_B", "macro_B", "video_C"}, ids(result))
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, DefaultPageSize, result.PageSize)
}

func TestSearchNoMatches(t *testing.T) {
	result := Search(fixture(), NewQuery([]string{"missing"}, nil, 1, 10))
	assert.Equal(t, 0, result.Total)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
}

func TestSearchNilSnapshot(t *testing.T) {
	result := Search(nil, NewQuery(nil, nil, 1, 10))
	assert.Equal(t, 0, result.Total)
	assert.NotNil(t, result.Items)
}

func TestSearchPageBeyondEnd(t *testing.T) {
	result := Search(fixture(), NewQuery(nil, nil, 1<<62, MaxPageSize))
	assert.Equal(t, 4, result.Total)
	assert.Empty(t, result.Items)
}

func TestSearchPaginationCoversMatchSet(t *testing.T) {
	snap := &snapshot.Snapshot{}
	for i := 0; i < 23; i++ {
		tagList := []tags.Tag{tags.NewSimple("all")}
		if i%3 == 0 {
			tagList = append(tagList, tags.NewSimple("third"))
		}
		snap.Media = append(snap.Media, record(fmt.Sprintf("r%02d", i), tagList...))
	}

	for _, tag := range []string{"all", "third"} {
		full := Search(snap, NewQuery([]string{tag}, nil, 1, MaxPageSize))
		total := full.Total
		require.Len(t, full.Items, total)

		for _, size := range []int{1, 2, 5, 7, 23, 50} {
			var collected []string
			pages := (total + size - 1) / size
			for p := 1; p <= pages+1; p++ {
				page := Search(snap, NewQuery([]string{tag}, nil, p, size))
				assert.Equal(t, total, page.Total)

				want := size
				if remaining := total - (p-1)*size; remaining < want {
					want = max(0, remaining)
				}
				assert.Len(t, page.Items, want, "tag=%s size=%d page=%d", tag, size, p)
				collected = append(collected, ids(page)...)
			}
			assert.Equal(t, ids(full), collected, "tag=%s size=%d", tag, size)
		}
	}
}

func TestSearchDoesNotMutateSnapshot(t *testing.T) {
	snap := fixture()
	before := fmt.Sprintf("%+v", snap.Media)

	result := Search(snap, NewQuery([]string{"sunset"}, nil, 1, 10))
	result.Items[0].ID = "changed"

	assert.Equal(t, before, fmt.Sprintf("%+v", snap.Media))
}
