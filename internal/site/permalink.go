package site

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mAKEkr/blog-advance/internal/page"
	"github.com/mAKEkr/blog-advance/internal/slug"
)

var datePrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})-(.+)$`)

// ResolvePermalink expands the page's permalink template. Pages without one
// keep their regular path. ok is false when the template needs a date the page
// does not have; the regular path is returned then.
func ResolvePermalink(p *page.Page) (resolved string, ok bool) {
	tmpl := p.Field(page.KeyPermalink)
	if tmpl == "" {
		return p.RegularPath, true
	}

	stem := fileStem(strings.TrimSuffix(p.RegularPath, "/"))
	date, hasDate := page.Time(p.Frontmatter[page.KeyDate])
	if m := datePrefix.FindStringSubmatch(stem); m != nil {
		stem = m[4]
		if !hasDate {
			if t, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3]); err == nil {
				date, hasDate = t, true
			}
		}
	}

	needsDate := strings.Contains(tmpl, ":year") || strings.Contains(tmpl, ":month") || strings.Contains(tmpl, ":day")
	if needsDate && !hasDate {
		return p.RegularPath, false
	}

	r := strings.NewReplacer(
		":year", fmt.Sprintf("%04d", date.Year()),
		":month", fmt.Sprintf("%02d", int(date.Month())),
		":day", fmt.Sprintf("%02d", date.Day()),
		":slug", slug.Make(stem),
		":regular", strings.TrimPrefix(p.RegularPath, "/"),
	)
	out := r.Replace(tmpl)
	out = "/" + strings.TrimLeft(out, "/")
	for strings.Contains(out, "//") {
		out = strings.ReplaceAll(out, "//", "/")
	}
	if !strings.HasSuffix(out, "/") && !strings.HasSuffix(out, ".html") {
		out += "/"
	}
	return out, true
}
