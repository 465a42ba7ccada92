package sources

import "net/url"

// RedactURL strips query parameters and userinfo from rawURL before it is
// attached to a breadcrumb or logged, per spec.md §4.1: "URLs containing
// secrets are redacted in the stored fetchedUrl".
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "[redacted]"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
