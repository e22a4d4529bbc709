package storage

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
)

// FormatVersion is written at the top of every storage file.
const FormatVersion = "1.0"

// timestampLayout matches ISO-8601 with microseconds and a numeric offset,
// e.g. 2024-05-01T09:30:00.123456+00:00.
const timestampLayout = "2006-01-02T15:04:05.999999-07:00"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// errMalformed marks content that could not be turned into entities.
var errMalformed = errors.New("malformed storage document")

type document struct {
	Version   string            `yaml:"version"`
	Users     *[]userRecord     `yaml:"users"`
	Homepages *[]homepageRecord `yaml:"homepages"`
	Widgets   *[]widgetRecord   `yaml:"widgets"`
}

// Record fields are pointers so a missing key can be told apart from a
// zero value.
type userRecord struct {
	UserID            *string `yaml:"user_id"`
	Username          *string `yaml:"username"`
	DefaultHomepageID *string `yaml:"default_homepage_id"`
	CreatedAt         *string `yaml:"created_at"`
	UpdatedAt         *string `yaml:"updated_at"`
}

type homepageRecord struct {
	HomepageID *string `yaml:"homepage_id"`
	UserID     *string `yaml:"user_id"`
	Name       *string `yaml:"name"`
	IsDefault  *bool   `yaml:"is_default"`
	CreatedAt  *string `yaml:"created_at"`
	UpdatedAt  *string `yaml:"updated_at"`
}

type widgetRecord struct {
	WidgetID   *string        `yaml:"widget_id"`
	HomepageID *string        `yaml:"homepage_id"`
	Type       *string        `yaml:"type"`
	Position   *int           `yaml:"position"`
	Properties map[string]any `yaml:"properties"`
	CreatedAt  *string        `yaml:"created_at"`
	UpdatedAt  *string        `yaml:"updated_at"`
}

// snapshot is the typed form of a document.
type snapshot struct {
	users     map[domain.UserID]domain.User
	homepages map[domain.HomepageID]domain.Homepage
	widgets   map[domain.WidgetID]domain.Widget
}

func emptySnapshot() snapshot {
	return snapshot{
		users:     make(map[domain.UserID]domain.User),
		homepages: make(map[domain.HomepageID]domain.Homepage),
		widgets:   make(map[domain.WidgetID]domain.Widget),
	}
}

func formatTime(t time.Time) string {
	return t.Format(timestampLayout)
}

func parseTime(field, raw string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s: invalid timestamp %q", errMalformed, field, raw)
}

type fieldReader struct {
	kind  string
	index int
	err   error
}

func (r *fieldReader) fail(field string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s[%d]: missing %s", errMalformed, r.kind, r.index, field)
	}
}

func (r *fieldReader) str(field string, v *string) string {
	if v == nil {
		r.fail(field)
		return ""
	}
	return *v
}

func (r *fieldReader) timestamp(field string, v *string) time.Time {
	if v == nil {
		r.fail(field)
		return time.Time{}
	}
	t, err := parseTime(fmt.Sprintf("%s[%d].%s", r.kind, r.index, field), *v)
	if err != nil && r.err == nil {
		r.err = err
	}
	return t
}

// section treats an absent section as empty.
func section[T any](p *[]T) []T {
	if p == nil {
		return nil
	}
	return *p
}

// toSnapshot rejects records with missing fields. Missing sections are empty.
func (d *document) toSnapshot() (snapshot, error) {
	s := emptySnapshot()

	for i, rec := range section(d.Users) {
		r := fieldReader{kind: "users", index: i}
		u := domain.User{
			ID:        domain.UserID(r.str("user_id", rec.UserID)),
			Username:  r.str("username", rec.Username),
			CreatedAt: r.timestamp("created_at", rec.CreatedAt),
			UpdatedAt: r.timestamp("updated_at", rec.UpdatedAt),
		}
		if rec.DefaultHomepageID != nil && *rec.DefaultHomepageID != "" {
			id := domain.HomepageID(*rec.DefaultHomepageID)
			u.DefaultHomepageID = &id
		}
		if r.err != nil {
			return snapshot{}, r.err
		}
		s.users[u.ID] = u
	}

	for i, rec := range section(d.Homepages) {
		r := fieldReader{kind: "homepages", index: i}
		h := domain.Homepage{
			ID:        domain.HomepageID(r.str("homepage_id", rec.HomepageID)),
			UserID:    domain.UserID(r.str("user_id", rec.UserID)),
			Name:      r.str("name", rec.Name),
			CreatedAt: r.timestamp("created_at", rec.CreatedAt),
			UpdatedAt: r.timestamp("updated_at", rec.UpdatedAt),
		}
		if rec.IsDefault == nil {
			r.fail("is_default")
		} else {
			h.IsDefault = *rec.IsDefault
		}
		if r.err != nil {
			return snapshot{}, r.err
		}
		s.homepages[h.ID] = h
	}

	for i, rec := range section(d.Widgets) {
		r := fieldReader{kind: "widgets", index: i}
		w := domain.Widget{
			ID:         domain.WidgetID(r.str("widget_id", rec.WidgetID)),
			HomepageID: domain.HomepageID(r.str("homepage_id", rec.HomepageID)),
			Type:       domain.WidgetType(r.str("type", rec.Type)),
			Properties: rec.Properties,
			CreatedAt:  r.timestamp("created_at", rec.CreatedAt),
			UpdatedAt:  r.timestamp("updated_at", rec.UpdatedAt),
		}
		if rec.Position == nil {
			r.fail("position")
		} else {
			w.Position = *rec.Position
		}
		if w.Properties == nil {
			w.Properties = map[string]any{}
		}
		if r.err != nil {
			return snapshot{}, r.err
		}
		s.widgets[w.ID] = w
	}

	return s, nil
}

func ptr[T any](v T) *T { return &v }

// fromSnapshot builds a document with records ordered by creation time,
// so saves of unchanged data produce identical files.
func fromSnapshot(s snapshot) document {
	users := make([]userRecord, 0, len(s.users))
	homepages := make([]homepageRecord, 0, len(s.homepages))
	widgets := make([]widgetRecord, 0, len(s.widgets))

	for _, u := range sortedValues(s.users, func(u domain.User) (time.Time, string) { return u.CreatedAt, string(u.ID) }) {
		rec := userRecord{
			UserID:    ptr(string(u.ID)),
			Username:  ptr(u.Username),
			CreatedAt: ptr(formatTime(u.CreatedAt)),
			UpdatedAt: ptr(formatTime(u.UpdatedAt)),
		}
		if u.DefaultHomepageID != nil {
			rec.DefaultHomepageID = ptr(string(*u.DefaultHomepageID))
		}
		users = append(users, rec)
	}

	for _, h := range sortedValues(s.homepages, func(h domain.Homepage) (time.Time, string) { return h.CreatedAt, string(h.ID) }) {
		homepages = append(homepages, homepageRecord{
			HomepageID: ptr(string(h.ID)),
			UserID:     ptr(string(h.UserID)),
			Name:       ptr(h.Name),
			IsDefault:  ptr(h.IsDefault),
			CreatedAt:  ptr(formatTime(h.CreatedAt)),
			UpdatedAt:  ptr(formatTime(h.UpdatedAt)),
		})
	}

	for _, w := range sortedValues(s.widgets, func(w domain.Widget) (time.Time, string) { return w.CreatedAt, string(w.ID) }) {
		props := w.Properties
		if props == nil {
			props = map[string]any{}
		}
		widgets = append(widgets, widgetRecord{
			WidgetID:   ptr(string(w.ID)),
			HomepageID: ptr(string(w.HomepageID)),
			Type:       ptr(string(w.Type)),
			Position:   ptr(w.Position),
			Properties: props,
			CreatedAt:  ptr(formatTime(w.CreatedAt)),
			UpdatedAt:  ptr(formatTime(w.UpdatedAt)),
		})
	}

	return document{
		Version:   FormatVersion,
		Users:     &users,
		Homepages: &homepages,
		Widgets:   &widgets,
	}
}

func sortedValues[K comparable, V any](m map[K]V, key func(V) (time.Time, string)) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b V) int {
		ta, ida := key(a)
		tb, idb := key(b)
		if c := ta.Compare(tb); c != 0 {
			return c
		}
		return cmp.Compare(ida, idb)
	})
	return out
}
