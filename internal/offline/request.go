package offline

import (
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// RequestKey is the normalised identity of a cached request: the method
// followed by the absolute URL without its fragment.
func RequestKey(method string, u *url.URL) string {
	return strings.ToUpper(method) + " " + normaliseURL(u).String()
}

func normaliseURL(u *url.URL) *url.URL {
	n := *u
	n.Scheme = strings.ToLower(n.Scheme)
	n.Host = canonicalHost(n.Scheme, n.Host)
	n.Fragment = ""
	n.RawFragment = ""
	if n.Path == "" {
		n.Path = "/"
	}
	return &n
}

func canonicalHost(scheme, host string) string {
	host = strings.ToLower(host)
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		return strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		return strings.TrimSuffix(host, ":443")
	}
	return host
}

func sameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	sa, sb := strings.ToLower(a.Scheme), strings.ToLower(b.Scheme)
	return sa == sb && canonicalHost(sa, a.Host) == canonicalHost(sb, b.Host)
}

// isNavigation reports whether req loads a top-level document.
func isNavigation(req *http.Request) bool {
	if req.Method != http.MethodGet {
		return false
	}
	if mode := req.Header.Get("Sec-Fetch-Mode"); mode != "" {
		return mode == "navigate"
	}
	for _, part := range strings.Split(req.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		return mediaType == "text/html"
	}
	return false
}
