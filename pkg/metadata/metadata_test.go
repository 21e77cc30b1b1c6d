package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImproveTitle(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  my awesome video!!!  ", "My Awesome Video!"},
		{"a trip to the mountains", "A Trip to the Mountains"},
		{"", ""},
		{"ok", "Ok"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ImproveTitle(tc.in), "input %q", tc.in)
	}
}

func TestImproveDescription(t *testing.T) {
	assert.Equal(t, "one two.", ImproveDescription("one   two"))
	assert.Equal(t, "line one.\nline two!", ImproveDescription("line one\nline two!"))
	assert.Equal(t, "", ImproveDescription("   "))

	// Runs of blank lines collapse to a single blank line.
	got := ImproveDescription("a.\n\n\n\nb.")
	assert.Equal(t, "a.\n\nb.", got)
}

func TestSuggestTags(t *testing.T) {
	tags := SuggestTags("Sunset Beach Walk", "a long walk along the beach at sunset", []string{"travel"})

	assert.Equal(t, "travel", tags[0], "existing tags come first")
	assert.Contains(t, tags, "sunset")
	assert.Contains(t, tags, "beach")
	assert.NotContains(t, tags, "the", "short words are excluded")
	assert.LessOrEqual(t, len(tags), 10)

	// Deduplicated even though "sunset" appears twice in the text.
	count := 0
	for _, tag := range tags {
		if tag == "sunset" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestParseTagList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, ParseTagList(" a, b c ,,d, "))
	assert.Nil(t, ParseTagList("  ,  "))
}

func TestSuggest(t *testing.T) {
	s := Suggest("hello  world!!", "first line\nsecond", nil)
	assert.Equal(t, "Hello  World!", s.Title)
	assert.Equal(t, "first line.\nsecond.", s.Description)
	assert.Contains(t, s.Tags, "hello")
}
