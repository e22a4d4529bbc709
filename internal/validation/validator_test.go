package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
)

func TestProperties_AppliesDefaults(t *testing.T) {
	v := New()

	out, err := v.Properties(domain.WidgetIframe, map[string]any{
		"url":   "https://grafana.local",
		"title": "Grafana",
		"extra": "dropped",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://grafana.local", out["url"])
	assert.EqualValues(t, domain.DefaultIframeWidth, out["width"])
	assert.EqualValues(t, domain.DefaultIframeHeight, out["height"])
	assert.NotContains(t, out, "extra")
	assert.NotContains(t, out, "refresh_interval")

	out, err = v.Properties(domain.WidgetShortcut, map[string]any{"url": "http://x.example", "title": "X"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultShortcutIcon, out["icon"])
}

func TestProperties_QueryTemplateWithoutPlaceholder(t *testing.T) {
	out, err := New().Properties(domain.WidgetQuery, map[string]any{
		"url_template": "https://search.example/",
		"title":        "Search",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://search.example/", out["url_template"])
}

func TestProperties_UnknownTypePassesThrough(t *testing.T) {
	in := map[string]any{"city": "Lyon", "nested": map[string]any{"units": "metric"}}

	out, err := New().Properties(domain.WidgetType("weather"), in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out["nested"].(map[string]any)["units"] = "imperial"
	assert.Equal(t, "metric", in["nested"].(map[string]any)["units"], "result must not alias the input")
}

func TestProperties_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		typ   domain.WidgetType
		props map[string]any
		field string
	}{
		{
			name:  "missing url",
			typ:   domain.WidgetIframe,
			props: map[string]any{"title": "t"},
			field: "url",
		},
		{
			name:  "width too small",
			typ:   domain.WidgetIframe,
			props: map[string]any{"url": "https://a.example", "title": "t", "width": 10},
			field: "width",
		},
		{
			name:  "refresh too fast",
			typ:   domain.WidgetIframe,
			props: map[string]any{"url": "https://a.example", "title": "t", "refresh_interval": 1},
			field: "refresh_interval",
		},
		{
			name:  "not a url",
			typ:   domain.WidgetShortcut,
			props: map[string]any{"url": "nope", "title": "t"},
			field: "url",
		},
		{
			name:  "wrong type",
			typ:   domain.WidgetShortcut,
			props: map[string]any{"url": "https://a.example", "title": 42},
			field: "title",
		},
		{
			name:  "missing template",
			typ:   domain.WidgetQuery,
			props: map[string]any{"title": "t"},
			field: "url_template",
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Properties(tt.typ, tt.props)
			require.Error(t, err)
			assert.Contains(t, ToDetails(err), tt.field)
		})
	}
}

func TestToDetails(t *testing.T) {
	type req struct {
		Name     string   `json:"name" validate:"required"`
		Position *int     `json:"position" validate:"required,min=0"`
		IDs      []string `json:"widget_ids" validate:"required,dive,required"`
	}

	neg := -1
	err := New().Struct(req{Position: &neg, IDs: []string{"a", ""}})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be at least 0", details["position"])
	assert.Equal(t, "is required", details["widget_ids[1]"])

	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}
