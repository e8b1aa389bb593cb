// Package feeds builds RSS documents for the directory's syndicated types.
package feeds

import (
	"fmt"

	gorilla "github.com/gorilla/feeds"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/store"
)

// Syndicated reports whether a content type has an RSS feed.
func Syndicated(t content.Type) bool {
	return t == content.TypeEvent || t == content.TypeNews
}

// BuildRSS renders a feed of the given entities as RSS XML.
func BuildRSS(siteTitle, baseURL string, t content.Type, items []store.Entity) (string, error) {
	info := content.MustInfo(t)

	feed := &gorilla.Feed{
		Title:       fmt.Sprintf("%s %s", siteTitle, info.Label),
		Link:        &gorilla.Link{Href: baseURL + info.BasePath},
		Description: fmt.Sprintf("Latest %s on %s", info.Label, siteTitle),
	}

	for _, e := range items {
		item := &gorilla.Item{
			Id:          baseURL + e.URL(),
			Title:       e.Name,
			Link:        &gorilla.Link{Href: baseURL + e.URL()},
			Description: e.Subtitle,
			Created:     e.CreatedAt,
		}
		// Events surface their start time rather than publication time.
		if e.StartsAt != nil {
			item.Created = *e.StartsAt
		}
		feed.Items = append(feed.Items, item)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("feeds: render rss: %w", err)
	}
	return rss, nil
}
