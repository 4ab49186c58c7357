// Package sitemap builds robots.txt and sitemap.xml for the public site.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const (
	xmlns      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	dateLayout = "2006-01-02"
)

// StaticRoutes are the public pages listed in every sitemap.
var StaticRoutes = []Route{
	{Path: "/", ChangeFreq: "weekly", Priority: "1.0"},
	{Path: "/services", ChangeFreq: "monthly", Priority: "0.9"},
	{Path: "/portfolio", ChangeFreq: "weekly", Priority: "0.9"},
	{Path: "/blog", ChangeFreq: "daily", Priority: "0.8"},
	{Path: "/contact", ChangeFreq: "monthly", Priority: "0.7"},
}

type Route struct {
	Path       string
	ChangeFreq string
	Priority   string
}

// ArticleStamp is the part of an article the sitemap needs.
type ArticleStamp struct {
	ID        int64
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// LastMod picks updated_at, then created_at, then now.
func (a ArticleStamp) LastMod(now time.Time) time.Time {
	switch {
	case a.UpdatedAt != nil && !a.UpdatedAt.IsZero():
		return *a.UpdatedAt
	case a.CreatedAt != nil && !a.CreatedAt.IsZero():
		return *a.CreatedAt
	default:
		return now
	}
}

// Build renders the sitemap: one entry per static route, then one per article.
func Build(baseURL string, routes []Route, articles []ArticleStamp, now time.Time) ([]byte, error) {
	base := strings.TrimSuffix(baseURL, "/")
	today := now.Format(dateLayout)

	set := urlSet{Xmlns: xmlns, URLs: make([]url, 0, len(routes)+len(articles))}
	for _, r := range routes {
		set.URLs = append(set.URLs, url{
			Loc:        base + r.Path,
			LastMod:    today,
			ChangeFreq: r.ChangeFreq,
			Priority:   r.Priority,
		})
	}
	for _, a := range articles {
		set.URLs = append(set.URLs, url{
			Loc:        fmt.Sprintf("%s/blog/%d", base, a.ID),
			LastMod:    a.LastMod(now).Format(dateLayout),
			ChangeFreq: "monthly",
			Priority:   "0.6",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Robots keeps crawlers out of the admin area and points them at the sitemap.
func Robots(baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")
	return "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /admin\n\n" +
		"Sitemap: " + base + "/sitemap.xml\n"
}
