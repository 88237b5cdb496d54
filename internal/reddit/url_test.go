package reddit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/persona/pkg/persona/internalerr"
)

func TestExtractUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://www.reddit.com/user/kojied/", "kojied", true},
		{"https://www.reddit.com/user/Hungry-Move-6603/", "Hungry-Move-6603", true},
		{"https://reddit.com/u/spez", "spez", true},
		{"https://old.reddit.com/user/some_user", "some_user", true},
		{"  https://WWW.reddit.com/user/abc/  ", "abc", true},
		{"spez", "spez", true},
		{"u/spez", "spez", true},
		{"https://www.reddit.com/r/golang/", "", false},
		{"https://www.reddit.com/user/abc/comments/", "", false},
		{"https://example.com/user/abc", "", false},
		{"https://www.reddit.com/user/", "", false},
		{"not a name!", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExtractUsername(tt.in)
			if !tt.ok {
				require.Error(t, err)
				assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateProfileURL(t *testing.T) {
	assert.NoError(t, ValidateProfileURL("https://www.reddit.com/user/kojied/"))
	assert.Error(t, ValidateProfileURL("kojied"))
	assert.Error(t, ValidateProfileURL("ftp://reddit.co/user/x"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"kojied":        "kojied",
		`a<b>c:d"e`:     "a_b_c_d_e",
		"x/y\\z|w?v*":   "x_y_z_w_v_",
		"two  words":    "two_words",
		"dots...here":   "dots.here",
		"":              "unknown_user",
		".":             "unknown_user",
		"..":            "unknown_user",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}
