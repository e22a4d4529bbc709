package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
)

type homepageResponse struct {
	HomepageID string    `json:"homepage_id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toHomepageResponse(h domain.Homepage) homepageResponse {
	return homepageResponse{
		HomepageID: h.ID.String(),
		UserID:     h.UserID.String(),
		Name:       h.Name,
		IsDefault:  h.IsDefault,
		CreatedAt:  h.CreatedAt,
		UpdatedAt:  h.UpdatedAt,
	}
}

type createHomepageRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	IsDefault bool   `json:"is_default"`
}

type renameHomepageRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// withDefaultUser runs next for the implicit single user of the instance.
func withDefaultUser[T any](d deps.Deps, next func(domain.User) effect.IO[T]) effect.IO[T] {
	return effect.Then(d.Services.Users.GetOrCreateDefault(), next)
}

func homepageID(r *http.Request) domain.HomepageID {
	return domain.HomepageID(chi.URLParam(r, "id"))
}

func ListHomepages(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		homepages, err := effect.Exec(withDefaultUser(d, func(u domain.User) effect.IO[[]domain.Homepage] {
			return d.Services.Homepages.ListForUser(u.ID)
		}))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		out := make([]homepageResponse, 0, len(homepages))
		for _, h := range homepages {
			out = append(out, toHomepageResponse(h))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func CreateHomepage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createHomepageRequest
		if err := decode(w, r, d, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		h, err := effect.Exec(withDefaultUser(d, func(u domain.User) effect.IO[domain.Homepage] {
			return d.Services.Homepages.Create(u.ID, req.Name, req.IsDefault)
		}))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("homepage created",
			logger.Stringer("homepage_id", h.ID),
			logger.String("name", h.Name),
			logger.Bool("is_default", h.IsDefault))
		writeJSON(w, http.StatusCreated, toHomepageResponse(h))
	}
}

func GetHomepage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := homepageID(r)
		h, err := effect.Exec(d.Services.Homepages.Get(id))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if h == nil {
			writeError(w, d.Logger, effect.NotFound("homepage not found", map[string]string{"homepage_id": id.String()}))
			return
		}
		writeJSON(w, http.StatusOK, toHomepageResponse(*h))
	}
}

func RenameHomepage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req renameHomepageRequest
		if err := decode(w, r, d, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		h, err := effect.Exec(d.Services.Homepages.Rename(homepageID(r), req.Name))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toHomepageResponse(h))
	}
}

func SetDefaultHomepage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := homepageID(r)
		h, err := effect.Exec(withDefaultUser(d, func(u domain.User) effect.IO[domain.Homepage] {
			return d.Services.Homepages.SetDefault(id, u.ID)
		}))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("default homepage changed", logger.Stringer("homepage_id", id))
		writeJSON(w, http.StatusOK, toHomepageResponse(h))
	}
}

func DeleteHomepage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := homepageID(r)
		_, err := effect.Exec(withDefaultUser(d, func(u domain.User) effect.IO[effect.Unit] {
			return d.Services.Homepages.Delete(id, u.ID)
		}))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("homepage deleted", logger.Stringer("homepage_id", id))
		writeJSON(w, http.StatusOK, deletedResponse{Status: "deleted", ID: id.String()})
	}
}
