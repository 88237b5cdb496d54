package reddit

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/cognicore/persona/pkg/persona/internalerr"
)

var (
	profileHosts = map[string]struct{}{
		"reddit.com":     {},
		"www.reddit.com": {},
		"old.reddit.com": {},
	}
	profilePath  = regexp.MustCompile(`^/(?:user|u)/([^/]+)/?$`)
	usernameRule = regexp.MustCompile(`^[A-Za-z0-9_-]{1,20}$`)

	unsafeFilenameChars = strings.NewReplacer("<", "_", ">", "_", ":", "_", `"`, "_", "/", "_", `\`, "_", "|", "_", "?", "_", "*", "_")
	spaceRun            = regexp.MustCompile(`\s+`)
	dotRun              = regexp.MustCompile(`\.+`)
)

// ValidateProfileURL reports whether raw is a user profile URL on one of the
// reddit.com hosts.
func ValidateProfileURL(raw string) error {
	_, err := parseProfile(raw)
	return err
}

// ExtractUsername returns the username of a profile URL. A bare username
// (optionally prefixed with u/) is accepted as well.
func ExtractUsername(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "/") || strings.HasPrefix(raw, "u/") {
		name := strings.TrimPrefix(raw, "u/")
		if usernameRule.MatchString(name) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %q is not a username", internalerr.ErrInvalidInput, raw)
	}
	return parseProfile(raw)
}

func parseProfile(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute URL", internalerr.ErrInvalidInput, raw)
	}
	if _, ok := profileHosts[strings.ToLower(u.Host)]; !ok {
		return "", fmt.Errorf("%w: %s is not a reddit host", internalerr.ErrInvalidInput, u.Host)
	}
	m := profilePath.FindStringSubmatch(u.Path)
	if m == nil {
		return "", fmt.Errorf("%w: %q is not a user profile path", internalerr.ErrInvalidInput, u.Path)
	}
	if !usernameRule.MatchString(m[1]) {
		return "", fmt.Errorf("%w: %q is not a username", internalerr.ErrInvalidInput, m[1])
	}
	return m[1], nil
}

// SanitizeFilename replaces characters that are unsafe in file names.
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.Replace(name)
	name = spaceRun.ReplaceAllString(name, "_")
	name = dotRun.ReplaceAllString(name, ".")
	if name == "" || name == "." {
		return "unknown_user"
	}
	return name
}
