package extract

import "regexp"

var (
	bareIDPattern     = regexp.MustCompile(`^\d{5,30}$`)
	statusPathPattern = regexp.MustCompile(`/(?:i/web/)?status/(\d{5,30})`)
)

// ParsePostID determines whether a free-form string identifies a platform
// post. A string of 5-30 decimal digits is itself the id; otherwise the
// first /status/<digits> path segment (including the /i/web/status
// variant) supplies it. Returns ("", false) when the input is not a post
// locator. Pure string matching, never errors.
func ParsePostID(input string) (string, bool) {
	if bareIDPattern.MatchString(input) {
		return input, true
	}
	if m := statusPathPattern.FindStringSubmatch(input); m != nil {
		return m[1], true
	}
	return "", false
}
