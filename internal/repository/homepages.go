package repository

import (
	"slices"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
	"github.com/MrSnakeDoc/goodneighbor/internal/storage"
)

type HomepageRepository struct {
	*fileRepository[domain.Homepage, domain.HomepageID]
}

func NewHomepageRepository(engine *storage.Engine) *HomepageRepository {
	return &HomepageRepository{&fileRepository[domain.Homepage, domain.HomepageID]{
		engine: engine,
		c: collection[domain.Homepage, domain.HomepageID]{
			kind: "homepage",
			id:   func(h domain.Homepage) domain.HomepageID { return h.ID },
			get:  (*storage.Tx).Homepage,
			all:  (*storage.Tx).Homepages,
			set:  (*storage.Tx).SetHomepage,
			del:  (*storage.Tx).DeleteHomepage,
		},
	}}
}

// ListByUser returns the user's homepages, oldest first.
func (r *HomepageRepository) ListByUser(userID domain.UserID) effect.IO[[]domain.Homepage] {
	return view(r.engine, r.c.kind, "list_by_user", "", func(tx *storage.Tx) ([]domain.Homepage, error) {
		return homepagesOf(tx, userID), nil
	})
}

// GetDefaultForUser returns nil when the user has no default homepage.
// If several are flagged, the oldest wins.
func (r *HomepageRepository) GetDefaultForUser(userID domain.UserID) effect.IO[*domain.Homepage] {
	return view(r.engine, r.c.kind, "get_default_for_user", "", func(tx *storage.Tx) (*domain.Homepage, error) {
		for _, h := range homepagesOf(tx, userID) {
			if h.IsDefault {
				return &h, nil
			}
		}
		return nil, nil
	})
}

func homepagesOf(tx *storage.Tx, userID domain.UserID) []domain.Homepage {
	var out []domain.Homepage
	for _, h := range tx.Homepages() {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	slices.SortFunc(out, func(a, b domain.Homepage) int {
		return compareAge(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	return out
}
