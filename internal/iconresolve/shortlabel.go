package iconresolve

import (
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// ShortLabel derives the text fallback from a URL: "https://www.kimi.com/x"
// gives "kimi". Unparsable input gives "".
func ShortLabel(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host == "" {
		return ""
	}
	label, _, _ := strings.Cut(host, ".")
	return truncate(label, nav.MaxIconText)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
