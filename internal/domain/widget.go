package domain

import "time"

// WidgetType tags the shape of a widget's properties. The set is open:
// unknown types are stored and served untouched.
type WidgetType string

const (
	WidgetIframe   WidgetType = "iframe"
	WidgetShortcut WidgetType = "shortcut"
	WidgetQuery    WidgetType = "query"
)

// Known reports whether t has a property schema.
func (t WidgetType) Known() bool {
	switch t {
	case WidgetIframe, WidgetShortcut, WidgetQuery:
		return true
	}
	return false
}

// Widget is one tile on a homepage. Lower positions render first.
type Widget struct {
	// ─────────────────────────────
	// Identity & placement
	// ─────────────────────────────

	ID         WidgetID
	HomepageID HomepageID
	Type       WidgetType

	// Position is not unique; ties are ordered by CreatedAt then ID.
	Position int

	// ─────────────────────────────
	// Payload
	// ─────────────────────────────

	// Properties depend on Type. See IframeProperties, ShortcutProperties
	// and QueryProperties for the known shapes.
	Properties map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewWidget(homepageID HomepageID, typ WidgetType, position int, props map[string]any) Widget {
	now := Now()
	return Widget{
		ID:         NewWidgetID(),
		HomepageID: homepageID,
		Type:       typ,
		Position:   position,
		Properties: CloneProperties(props),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (w Widget) WithPosition(position int) Widget {
	out := w.Clone()
	out.Position = position
	out.UpdatedAt = Now()
	return out
}

func (w Widget) WithProperties(props map[string]any) Widget {
	out := w
	out.Properties = CloneProperties(props)
	out.UpdatedAt = Now()
	return out
}

// Clone returns a copy that shares no mutable state with w.
func (w Widget) Clone() Widget {
	w.Properties = CloneProperties(w.Properties)
	return w
}

// CloneProperties deep-copies nested maps and slices.
func CloneProperties(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneProperties(t)
	case []any:
		s := make([]any, len(t))
		for i := range t {
			s[i] = cloneValue(t[i])
		}
		return s
	default:
		return v
	}
}
