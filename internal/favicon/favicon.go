// Package favicon finds a site's icon and caches it as a data URL.
package favicon

import (
	"errors"
	"net/url"
	"strings"
)

const (
	// MaxIconSize is the largest icon body accepted, in bytes.
	MaxIconSize = 100 * 1024
	// GoogleSource is reported when the icon came from Google's favicon service.
	GoogleSource = "google-favicon-service"
)

var (
	ErrInvalidURL = errors.New("invalid url")
	ErrNotFound   = errors.New("no favicon found")
)

// Result is one discovered icon.
type Result struct {
	DataURL string `json:"data_url"`
	Format  string `json:"format"`
	Source  string `json:"source"`
}

// ExtractDomain reduces raw to scheme://host[:port]. https is assumed when
// raw has no scheme.
func ExtractDomain(raw string) (string, error) {
	u, err := normalize(raw)
	if err != nil {
		return "", err
	}
	return u.Scheme + "://" + u.Host, nil
}

func normalize(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// formatOf maps a media type to the short format name clients expect.
func formatOf(mediaType string) string {
	sub := mediaType
	if i := strings.IndexByte(sub, '/'); i >= 0 {
		sub = sub[i+1:]
	}
	switch sub {
	case "x-icon", "vnd.microsoft.icon", "ico":
		return "ico"
	case "svg+xml":
		return "svg"
	case "jpg":
		return "jpeg"
	}
	return sub
}
