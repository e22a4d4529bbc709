package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
	"github.com/MrSnakeDoc/goodneighbor/internal/validation"
)

type widgetResponse struct {
	ID         string         `json:"id"`
	HomepageID string         `json:"homepage_id"`
	Type       string         `json:"type"`
	Position   int            `json:"position"`
	Properties map[string]any `json:"properties"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func toWidgetResponse(wd domain.Widget) widgetResponse {
	props := wd.Properties
	if props == nil {
		props = map[string]any{}
	}
	return widgetResponse{
		ID:         wd.ID.String(),
		HomepageID: wd.HomepageID.String(),
		Type:       string(wd.Type),
		Position:   wd.Position,
		Properties: props,
		CreatedAt:  wd.CreatedAt,
		UpdatedAt:  wd.UpdatedAt,
	}
}

func toWidgetResponses(widgets []domain.Widget) []widgetResponse {
	out := make([]widgetResponse, 0, len(widgets))
	for _, wd := range widgets {
		out = append(out, toWidgetResponse(wd))
	}
	return out
}

type createWidgetRequest struct {
	Type       string         `json:"type" validate:"required,max=64"`
	Properties map[string]any `json:"properties" validate:"required"`
	Position   *int           `json:"position" validate:"omitempty,min=0"`
}

type updateWidgetRequest struct {
	Properties map[string]any `json:"properties" validate:"required"`
}

type updatePositionRequest struct {
	Position *int `json:"position" validate:"required,min=0"`
}

type reorderWidgetsRequest struct {
	WidgetIDs []string `json:"widget_ids" validate:"required,dive,required"`
}

// withDefaultHomepage runs next against the homepage the widget API works
// on: the default homepage of the default user, created when missing.
func withDefaultHomepage[T any](d deps.Deps, next func(domain.Homepage) effect.IO[T]) effect.IO[T] {
	return withDefaultUser(d, func(u domain.User) effect.IO[T] {
		return effect.Then(d.Services.Homepages.EnsureDefault(u.ID), next)
	})
}

func widgetID(r *http.Request) domain.WidgetID {
	return domain.WidgetID(chi.URLParam(r, "id"))
}

// normalizeProperties applies the property schema of typ. Field errors are
// reported under "properties.<field>".
func normalizeProperties(d deps.Deps, typ domain.WidgetType, props map[string]any) effect.IO[map[string]any] {
	out, err := validatorOf(d).Properties(typ, props)
	if err != nil {
		details := make(map[string]string)
		for field, msg := range validation.ToDetails(err) {
			details["properties."+field] = msg
		}
		details["type"] = string(typ)
		return effect.Fail[map[string]any](effect.ValidationError("invalid widget properties", details))
	}
	return effect.Succeed(out)
}

func ListWidgets(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		widgets, err := effect.Exec(withDefaultHomepage(d, func(h domain.Homepage) effect.IO[[]domain.Widget] {
			return d.Services.Widgets.ListForHomepage(h.ID)
		}))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toWidgetResponses(widgets))
	}
}

func CreateWidget(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createWidgetRequest
		if err := decode(w, r, d, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		typ := domain.WidgetType(req.Type)
		created, err := effect.Exec(effect.Then(normalizeProperties(d, typ, req.Properties), func(props map[string]any) effect.IO[domain.Widget] {
			return withDefaultHomepage(d, func(h domain.Homepage) effect.IO[domain.Widget] {
				return d.Services.Widgets.Create(h.ID, typ, props, req.Position)
			})
		}))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("widget created",
			logger.Stringer("widget_id", created.ID),
			logger.String("type", req.Type),
			logger.Int("position", created.Position))
		writeJSON(w, http.StatusCreated, toWidgetResponse(created))
	}
}

func GetWidget(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := widgetID(r)
		wd, err := effect.Exec(d.Services.Widgets.Get(id))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if wd == nil {
			writeError(w, d.Logger, effect.NotFound("widget not found", map[string]string{"widget_id": id.String()}))
			return
		}
		writeJSON(w, http.StatusOK, toWidgetResponse(*wd))
	}
}

// UpdateWidget replaces the properties of a widget. They are validated
// against the widget's stored type.
func UpdateWidget(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateWidgetRequest
		if err := decode(w, r, d, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		id := widgetID(r)
		updated, err := effect.Exec(effect.Then(d.Services.Widgets.Get(id), func(current *domain.Widget) effect.IO[domain.Widget] {
			if current == nil {
				return effect.Fail[domain.Widget](effect.NotFound("widget not found", map[string]string{"widget_id": id.String()}))
			}
			return effect.Then(normalizeProperties(d, current.Type, req.Properties), func(props map[string]any) effect.IO[domain.Widget] {
				return d.Services.Widgets.UpdateProperties(id, props)
			})
		}))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toWidgetResponse(updated))
	}
}

func UpdateWidgetPosition(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePositionRequest
		if err := decode(w, r, d, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		updated, err := effect.Exec(d.Services.Widgets.UpdatePosition(widgetID(r), *req.Position))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toWidgetResponse(updated))
	}
}

func ReorderWidgets(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderWidgetsRequest
		if err := decode(w, r, d, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		ids := make([]domain.WidgetID, len(req.WidgetIDs))
		for i, id := range req.WidgetIDs {
			ids[i] = domain.WidgetID(id)
		}

		widgets, err := effect.Exec(withDefaultHomepage(d, func(h domain.Homepage) effect.IO[[]domain.Widget] {
			return d.Services.Widgets.Reorder(h.ID, ids)
		}))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("widgets reordered", logger.Int("count", len(ids)))
		writeJSON(w, http.StatusOK, toWidgetResponses(widgets))
	}
}

func DeleteWidget(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := widgetID(r)
		_, err := effect.Exec(withDefaultHomepage(d, func(h domain.Homepage) effect.IO[effect.Unit] {
			return d.Services.Widgets.Delete(id, h.ID)
		}))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("widget deleted", logger.Stringer("widget_id", id))
		writeJSON(w, http.StatusOK, deletedResponse{Status: "deleted", ID: id.String()})
	}
}
