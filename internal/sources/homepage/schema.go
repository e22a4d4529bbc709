// Package homepage imports entries from gethomepage configuration files
// (services.yaml and bookmarks.yaml) as shortcut widgets.
package homepage

// ServicesConfig is the top level of services.yaml. Group and service names
// are map keys: []{group: []{service: props}}.
type ServicesConfig []map[string][]map[string]ServiceProps

type ServiceProps struct {
	Href        string         `yaml:"href"`
	Icon        string         `yaml:"icon,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Target      string         `yaml:"target,omitempty"`
	Ping        string         `yaml:"ping,omitempty"`
	SiteMonitor string         `yaml:"siteMonitor,omitempty"`
	Widget      map[string]any `yaml:"widget,omitempty"`
}

// BookmarksConfig is the top level of bookmarks.yaml. Each bookmark name maps
// to a one-element list: []{group: []{bookmark: [entry]}}.
type BookmarksConfig []map[string][]map[string][]BookmarkEntry

type BookmarkEntry struct {
	Icon        string `yaml:"icon"`
	Abbr        string `yaml:"abbr"`
	Href        string `yaml:"href"`
	Description string `yaml:"description,omitempty"`
}
