package domain

// Property shapes for the known widget types. They are applied at the HTTP
// boundary; storage and repositories only transport the raw map.

type IframeProperties struct {
	URL             string `json:"url" validate:"required,http_url"`
	Title           string `json:"title" validate:"required"`
	Width           int    `json:"width" validate:"min=100,max=2000"`
	Height          int    `json:"height" validate:"min=100,max=2000"`
	RefreshInterval *int   `json:"refresh_interval,omitempty" validate:"omitempty,min=5"`
}

type ShortcutProperties struct {
	URL         string  `json:"url" validate:"required,http_url"`
	Title       string  `json:"title" validate:"required"`
	Icon        string  `json:"icon"`
	Description *string `json:"description,omitempty"`
}

// QueryProperties describes a search box. URLTemplate usually contains
// "{query}", but a template without it is accepted.
type QueryProperties struct {
	URLTemplate string `json:"url_template" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Icon        string `json:"icon,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

const (
	DefaultIframeWidth  = 400
	DefaultIframeHeight = 300
	DefaultShortcutIcon = "🔗"
)

// PropertySchema returns a pointer to a zero schema value with defaults
// applied, or nil when t has no schema.
func PropertySchema(t WidgetType) any {
	switch t {
	case WidgetIframe:
		return &IframeProperties{Width: DefaultIframeWidth, Height: DefaultIframeHeight}
	case WidgetShortcut:
		return &ShortcutProperties{Icon: DefaultShortcutIcon}
	case WidgetQuery:
		return &QueryProperties{}
	}
	return nil
}
