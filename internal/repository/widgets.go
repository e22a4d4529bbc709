package repository

import (
	"cmp"
	"slices"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
	"github.com/MrSnakeDoc/goodneighbor/internal/storage"
)

type WidgetRepository struct {
	*fileRepository[domain.Widget, domain.WidgetID]
}

func NewWidgetRepository(engine *storage.Engine) *WidgetRepository {
	return &WidgetRepository{&fileRepository[domain.Widget, domain.WidgetID]{
		engine: engine,
		c: collection[domain.Widget, domain.WidgetID]{
			kind: "widget",
			id:   func(w domain.Widget) domain.WidgetID { return w.ID },
			get:  (*storage.Tx).Widget,
			all:  (*storage.Tx).Widgets,
			set:  (*storage.Tx).SetWidget,
			del:  (*storage.Tx).DeleteWidget,
		},
	}}
}

// ListByHomepage returns the homepage's widgets by ascending position.
// Widgets sharing a position are ordered by CreatedAt, then ID, so the
// order survives a reload.
func (r *WidgetRepository) ListByHomepage(homepageID domain.HomepageID) effect.IO[[]domain.Widget] {
	return view(r.engine, r.c.kind, "list_by_homepage", "", func(tx *storage.Tx) ([]domain.Widget, error) {
		return widgetsOf(tx, homepageID), nil
	})
}

// GetMaxPosition returns 0 for a homepage without widgets.
func (r *WidgetRepository) GetMaxPosition(homepageID domain.HomepageID) effect.IO[int] {
	return view(r.engine, r.c.kind, "get_max_position", "", func(tx *storage.Tx) (int, error) {
		maxPos := 0
		for _, w := range tx.Widgets() {
			if w.HomepageID == homepageID && w.Position > maxPos {
				maxPos = w.Position
			}
		}
		return maxPos, nil
	})
}

func widgetsOf(tx *storage.Tx, homepageID domain.HomepageID) []domain.Widget {
	var out []domain.Widget
	for _, w := range tx.Widgets() {
		if w.HomepageID == homepageID {
			out = append(out, w)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Widget) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return compareAge(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	return out
}
