package homepage

import (
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
)

// Entry is one importable link.
type Entry struct {
	Group       string
	Name        string
	URL         string
	Description string
}

// ShortcutProperties renders the entry as shortcut widget properties.
// gethomepage icons are file names, not glyphs, so the default icon is used.
func (e Entry) ShortcutProperties() map[string]any {
	props := map[string]any{
		"url":   e.URL,
		"title": e.Name,
		"icon":  domain.DefaultShortcutIcon,
	}
	if e.Description != "" {
		props["description"] = e.Description
	}
	return props
}

// ServiceEntries flattens services.yaml. Services without a usable http(s)
// href are skipped.
func ServiceEntries(cfg ServicesConfig) []Entry {
	var out []Entry
	for _, groups := range cfg {
		for group, services := range groups {
			for _, svc := range services {
				for name, props := range svc {
					if !usableURL(props.Href) {
						continue
					}
					out = append(out, Entry{
						Group:       group,
						Name:        strings.TrimSpace(name),
						URL:         props.Href,
						Description: props.Description,
					})
				}
			}
		}
	}
	return out
}

// BookmarkEntries flattens bookmarks.yaml. The bookmark name is the title;
// abbr is only used when the name is blank.
func BookmarkEntries(cfg BookmarksConfig) []Entry {
	var out []Entry
	for _, groups := range cfg {
		for group, bookmarks := range groups {
			for _, bm := range bookmarks {
				for name, entries := range bm {
					if len(entries) == 0 || !usableURL(entries[0].Href) {
						continue
					}
					e := entries[0]
					title := strings.TrimSpace(name)
					if title == "" {
						title = e.Abbr
					}
					out = append(out, Entry{
						Group:       group,
						Name:        title,
						URL:         e.Href,
						Description: e.Description,
					})
				}
			}
		}
	}
	return out
}

func usableURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
