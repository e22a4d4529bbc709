package service

import (
	"strings"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
)

// DefaultHomepageName is used when a user without homepages needs one.
const DefaultHomepageName = "Home"

// HomepageService enforces the per-user rules the repository does not:
// a user keeps at least one homepage and at most one is flagged default.
type HomepageService struct {
	homepages HomepageStore
}

func NewHomepageService(homepages HomepageStore) *HomepageService {
	return &HomepageService{homepages: homepages}
}

func (s *HomepageService) Get(id domain.HomepageID) effect.IO[*domain.Homepage] {
	return s.homepages.Get(id)
}

func (s *HomepageService) ListForUser(userID domain.UserID) effect.IO[[]domain.Homepage] {
	return s.homepages.ListByUser(userID)
}

func (s *HomepageService) GetDefault(userID domain.UserID) effect.IO[*domain.Homepage] {
	return s.homepages.GetDefaultForUser(userID)
}

// Create adds a homepage. When isDefault is set the previous default is
// unset first.
func (s *HomepageService) Create(userID domain.UserID, name string, isDefault bool) effect.IO[domain.Homepage] {
	name = strings.TrimSpace(name)
	if name == "" {
		return effect.Fail[domain.Homepage](effect.ValidationError(
			"homepage name is required",
			map[string]string{"name": "required"},
		))
	}

	hp := domain.NewHomepage(userID, name, isDefault)
	insert := func(effect.Unit) effect.IO[domain.Homepage] {
		return effect.MapIO(s.homepages.Insert(hp), func(domain.HomepageID) domain.Homepage { return hp })
	}
	if !isDefault {
		return insert(effect.Unit{})
	}
	return effect.Then(s.unsetDefault(userID, ""), insert)
}

// Rename fails with NOT_FOUND for an unknown id.
func (s *HomepageService) Rename(id domain.HomepageID, name string) effect.IO[domain.Homepage] {
	name = strings.TrimSpace(name)
	if name == "" {
		return effect.Fail[domain.Homepage](effect.ValidationError(
			"homepage name is required",
			map[string]string{"name": "required"},
		))
	}
	renamed := s.homepages.Update(id, func(h domain.Homepage) domain.Homepage { return h.WithName(name) })
	return effect.Then(renamed, func(effect.Unit) effect.IO[domain.Homepage] {
		return required(s.homepages.Get(id), "homepage", id.String())
	})
}

// SetDefault flags id as userID's default homepage and clears the flag on
// the previous one.
func (s *HomepageService) SetDefault(id domain.HomepageID, userID domain.UserID) effect.IO[domain.Homepage] {
	owned := s.owned(id, userID)
	return effect.Then(owned, func(h domain.Homepage) effect.IO[domain.Homepage] {
		if h.IsDefault {
			return effect.Succeed(h)
		}
		set := effect.Then(s.unsetDefault(userID, id), func(effect.Unit) effect.IO[effect.Unit] {
			return s.homepages.Update(id, domain.Homepage.SetAsDefault)
		})
		return effect.Then(set, func(effect.Unit) effect.IO[domain.Homepage] {
			return required(s.homepages.Get(id), "homepage", id.String())
		})
	})
}

// Delete removes a homepage owned by userID. The last homepage of a user
// cannot be deleted.
func (s *HomepageService) Delete(id domain.HomepageID, userID domain.UserID) effect.IO[effect.Unit] {
	return effect.Then(s.homepages.List(), func(all []domain.Homepage) effect.IO[effect.Unit] {
		var (
			target *domain.Homepage
			count  int
		)
		for i := range all {
			if all[i].ID == id {
				target = &all[i]
			}
			if all[i].UserID == userID {
				count++
			}
		}

		switch {
		case target == nil:
			return effect.Fail[effect.Unit](notFoundHomepage(id))
		case target.UserID != userID:
			return effect.Fail[effect.Unit](forbiddenHomepage(id, userID))
		case count <= 1:
			return effect.Fail[effect.Unit](effect.BusinessRule(
				"cannot delete the last homepage for a user",
				map[string]string{"homepage_id": id.String(), "user_id": userID.String()},
			))
		}
		return s.homepages.Delete(id)
	})
}

// EnsureDefault returns the homepage the user lands on: the default one,
// else the oldest one, else a freshly created default named "Home".
func (s *HomepageService) EnsureDefault(userID domain.UserID) effect.IO[domain.Homepage] {
	return effect.Then(s.homepages.ListByUser(userID), func(list []domain.Homepage) effect.IO[domain.Homepage] {
		if len(list) == 0 {
			return s.Create(userID, DefaultHomepageName, true)
		}
		for _, h := range list {
			if h.IsDefault {
				return effect.Succeed(h)
			}
		}
		return effect.Succeed(list[0])
	})
}

// owned loads id and checks it belongs to userID.
func (s *HomepageService) owned(id domain.HomepageID, userID domain.UserID) effect.IO[domain.Homepage] {
	return effect.Then(s.homepages.Get(id), func(h *domain.Homepage) effect.IO[domain.Homepage] {
		if h == nil {
			return effect.Fail[domain.Homepage](notFoundHomepage(id))
		}
		if h.UserID != userID {
			return effect.Fail[domain.Homepage](forbiddenHomepage(id, userID))
		}
		return effect.Succeed(*h)
	})
}

// unsetDefault clears the default flag on every homepage of userID except keep.
func (s *HomepageService) unsetDefault(userID domain.UserID, keep domain.HomepageID) effect.IO[effect.Unit] {
	return effect.Then(s.homepages.ListByUser(userID), func(list []domain.Homepage) effect.IO[effect.Unit] {
		chain := unit()
		for _, h := range list {
			if !h.IsDefault || h.ID == keep {
				continue
			}
			chain = effect.Then(chain, func(effect.Unit) effect.IO[effect.Unit] {
				return s.homepages.Update(h.ID, domain.Homepage.UnsetAsDefault)
			})
		}
		return chain
	})
}

func notFoundHomepage(id domain.HomepageID) effect.ErrorDetails {
	return effect.NotFound("homepage not found", map[string]string{"homepage_id": id.String()})
}

func forbiddenHomepage(id domain.HomepageID, userID domain.UserID) effect.ErrorDetails {
	return effect.Forbidden(
		"homepage does not belong to user",
		map[string]string{"homepage_id": id.String(), "user_id": userID.String()},
	)
}
