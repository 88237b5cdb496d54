package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterIsAnalyzable(t *testing.T) {
	f := NewFilter(10)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "empty", text: "", want: false},
		{name: "below min length", text: "short one", want: false},
		{name: "two words", text: "twowords onlyhere", want: false},
		{name: "exactly min length", text: "ab cd efgh", want: true},
		{name: "sentence", text: "This is a great community honestly", want: true},
		{name: "multibyte counted as characters", text: "日本 語の テキ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsAnalyzable(tt.text))
		})
	}
}

func TestFilterRemovalSentinels(t *testing.T) {
	f := NewFilter(1)

	for _, s := range []string{"[deleted]", "[removed]", "deleted", "removed", "[DELETED]", "Removed"} {
		assert.False(t, f.IsAnalyzable(s), "sentinel %q", s)
	}
	assert.True(t, f.IsAnalyzable("this was deleted yesterday"))
}

func TestNewFilterDefault(t *testing.T) {
	assert.Equal(t, DefaultMinLength, NewFilter(0).MinLength)
	assert.Equal(t, DefaultMinLength, NewFilter(-3).MinLength)
	assert.Equal(t, 25, NewFilter(25).MinLength)
}
