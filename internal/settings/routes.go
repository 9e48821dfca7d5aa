package settings

import (
	"sort"
	"strings"

	"github.com/yanizio/platformsettings/internal/platform"
)

// SelectSiteURL picks the canonical site URL.  Routes are ranked primary
// first, then https before anything else, then shortest URL.  Equal ranks
// keep input order.  The input slice is left untouched.
func SelectSiteURL(routes []platform.Route) (string, bool) {
	if len(routes) == 0 {
		return "", false
	}

	ranked := make([]platform.Route, len(routes))
	copy(ranked, routes)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Primary != b.Primary {
			return a.Primary
		}
		if ah, bh := isHTTPS(a.URL), isHTTPS(b.URL); ah != bh {
			return ah
		}
		return len(a.URL) < len(b.URL)
	})

	url := ranked[0].URL
	return url, url != ""
}

func isHTTPS(url string) bool { return strings.HasPrefix(url, "https://") }
