package tags

import (
	"strings"
	"unicode"
)

// Kind distinguishes plain tags from key/value attributes.
type Kind string

const (
	// KindSimple is a bare token such as "sunset".
	KindSimple Kind = "simple"
	// KindKeyValue is a "key-value" or "key:value" token such as "rating-5".
	KindKeyValue Kind = "keyvalue"
)

// Tag is one normalized token extracted from a filename.
type Tag struct {
	RawToken   string `json:"rawToken"`
	Kind       Kind   `json:"type"`
	Name       string `json:"name"`
	Value      string `json:"value,omitempty"`
	Normalized string `json:"normalized"`
}

// Result holds the output of Parse. InvalidTokens keeps the trimmed raw text
// of every token that could not be classified, in encounter order.
type Result struct {
	Tags          []Tag
	InvalidTokens []string
}

// NewSimple builds a simple tag from a raw token.
func NewSimple(raw string) Tag {
	name := normalize(raw)
	return Tag{
		RawToken:   raw,
		Kind:       KindSimple,
		Name:       name,
		Normalized: name,
	}
}

// NewKeyValue builds a key/value tag. The raw token is rendered as key-value.
func NewKeyValue(key, value string) Tag {
	return newKeyValue(key+"-"+value, key, value)
}

func newKeyValue(raw, key, value string) Tag {
	name := normalize(key)
	val := normalize(value)
	return Tag{
		RawToken:   raw,
		Kind:       KindKeyValue,
		Name:       name,
		Value:      val,
		Normalized: name + "=" + val,
	}
}

// Parse extracts tags from a filename without directories.
//
// The extension is everything after the first '.', so "a.b.jpg" has the stem
// "a". Tokens are separated by '_', '+' or whitespace. A token holding ':' or
// '-' must split into a non-empty key and value, otherwise it is reported as
// invalid rather than being kept as a simple tag.
func Parse(filename string) Result {
	stem, _, _ := strings.Cut(filename, ".")

	var result Result
	for _, token := range strings.FieldsFunc(stem, isSeparator) {
		raw := strings.TrimSpace(token)
		if raw == "" {
			continue
		}

		tag, ok := classify(raw)
		if !ok {
			result.InvalidTokens = append(result.InvalidTokens, raw)
			continue
		}
		result.Tags = append(result.Tags, tag)
	}

	return result
}

// Attributes folds key/value tags into a name → value map. The first
// occurrence of a name wins.
func Attributes(tags []Tag) map[string]string {
	attrs := make(map[string]string)
	for _, tag := range tags {
		if tag.Kind != KindKeyValue {
			continue
		}
		if _, exists := attrs[tag.Name]; !exists {
			attrs[tag.Name] = tag.Value
		}
	}
	return attrs
}

func isSeparator(r rune) bool {
	return r == '_' || r == '+' || unicode.IsSpace(r)
}

func classify(token string) (Tag, bool) {
	if strings.ContainsAny(token, ":-") {
		key, value, ok := splitKeyValue(token, ":")
		if !ok {
			key, value, ok = splitKeyValue(token, "-")
		}
		if !ok {
			return Tag{}, false
		}
		return newKeyValue(token, key, value), true
	}

	if strings.TrimSpace(token) == "" {
		return Tag{}, false
	}
	return NewSimple(token), true
}

func splitKeyValue(token, delimiter string) (string, string, bool) {
	key, value, found := strings.Cut(token, delimiter)
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

func normalize(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}
