package service

import (
	"strconv"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
)

type WidgetService struct {
	widgets WidgetStore
}

func NewWidgetService(widgets WidgetStore) *WidgetService {
	return &WidgetService{widgets: widgets}
}

func (s *WidgetService) Get(id domain.WidgetID) effect.IO[*domain.Widget] {
	return s.widgets.Get(id)
}

// ListForHomepage returns widgets by ascending position.
func (s *WidgetService) ListForHomepage(homepageID domain.HomepageID) effect.IO[[]domain.Widget] {
	return s.widgets.ListByHomepage(homepageID)
}

// Create adds a widget. A nil position appends it after the last widget.
func (s *WidgetService) Create(homepageID domain.HomepageID, typ domain.WidgetType, props map[string]any, position *int) effect.IO[domain.Widget] {
	if position != nil && *position < 0 {
		return effect.Fail[domain.Widget](negativePosition(*position))
	}

	var pos effect.IO[int]
	if position != nil {
		pos = effect.Succeed(*position)
	} else {
		pos = effect.MapIO(s.widgets.GetMaxPosition(homepageID), func(highest int) int { return highest + 1 })
	}

	return effect.Then(pos, func(p int) effect.IO[domain.Widget] {
		w := domain.NewWidget(homepageID, typ, p, props)
		return effect.MapIO(s.widgets.Insert(w), func(domain.WidgetID) domain.Widget { return w })
	})
}

// UpdateProperties replaces the whole property map.
func (s *WidgetService) UpdateProperties(id domain.WidgetID, props map[string]any) effect.IO[domain.Widget] {
	updated := s.widgets.Update(id, func(w domain.Widget) domain.Widget { return w.WithProperties(props) })
	return s.reload(updated, id)
}

func (s *WidgetService) UpdatePosition(id domain.WidgetID, position int) effect.IO[domain.Widget] {
	if position < 0 {
		return effect.Fail[domain.Widget](negativePosition(position))
	}
	updated := s.widgets.Update(id, func(w domain.Widget) domain.Widget { return w.WithPosition(position) })
	return s.reload(updated, id)
}

// Delete removes a widget after checking it sits on homepageID.
func (s *WidgetService) Delete(id domain.WidgetID, homepageID domain.HomepageID) effect.IO[effect.Unit] {
	return effect.Then(s.widgets.Get(id), func(w *domain.Widget) effect.IO[effect.Unit] {
		if w == nil {
			return effect.Fail[effect.Unit](notFoundWidget(id))
		}
		if w.HomepageID != homepageID {
			return effect.Fail[effect.Unit](forbiddenWidget(id, homepageID))
		}
		return s.widgets.Delete(id)
	})
}

// Reorder assigns positions 0..n-1 following ids. Every id is checked
// before any position changes.
func (s *WidgetService) Reorder(homepageID domain.HomepageID, ids []domain.WidgetID) effect.IO[[]domain.Widget] {
	checked := effect.Then(s.widgets.List(), func(all []domain.Widget) effect.IO[effect.Unit] {
		byID := make(map[domain.WidgetID]domain.Widget, len(all))
		for _, w := range all {
			byID[w.ID] = w
		}
		seen := make(map[domain.WidgetID]struct{}, len(ids))
		for i, id := range ids {
			w, ok := byID[id]
			if !ok {
				return effect.Fail[effect.Unit](notFoundWidget(id))
			}
			if w.HomepageID != homepageID {
				return effect.Fail[effect.Unit](forbiddenWidget(id, homepageID))
			}
			if _, dup := seen[id]; dup {
				return effect.Fail[effect.Unit](effect.ValidationError(
					"widget listed twice in reorder",
					map[string]string{"widget_id": id.String(), "index": strconv.Itoa(i)},
				))
			}
			seen[id] = struct{}{}
		}
		return unit()
	})

	moved := effect.Then(checked, func(effect.Unit) effect.IO[effect.Unit] {
		chain := unit()
		for i, id := range ids {
			chain = effect.Then(chain, func(effect.Unit) effect.IO[effect.Unit] {
				return s.widgets.Update(id, func(w domain.Widget) domain.Widget { return w.WithPosition(i) })
			})
		}
		return chain
	})

	return effect.Then(moved, func(effect.Unit) effect.IO[[]domain.Widget] {
		return s.widgets.ListByHomepage(homepageID)
	})
}

func (s *WidgetService) reload(done effect.IO[effect.Unit], id domain.WidgetID) effect.IO[domain.Widget] {
	return effect.Then(done, func(effect.Unit) effect.IO[domain.Widget] {
		return required(s.widgets.Get(id), "widget", id.String())
	})
}

func negativePosition(p int) effect.ErrorDetails {
	return effect.ValidationError(
		"position must be zero or greater",
		map[string]string{"position": strconv.Itoa(p)},
	)
}

func notFoundWidget(id domain.WidgetID) effect.ErrorDetails {
	return effect.NotFound("widget not found", map[string]string{"widget_id": id.String()})
}

func forbiddenWidget(id domain.WidgetID, homepageID domain.HomepageID) effect.ErrorDetails {
	return effect.Forbidden(
		"widget does not belong to homepage",
		map[string]string{"widget_id": id.String(), "homepage_id": homepageID.String()},
	)
}
