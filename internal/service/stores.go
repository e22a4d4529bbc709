// Package service holds the use cases behind the HTTP API. Services compose
// repository computations; none of them touches storage directly.
package service

import (
	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
	"github.com/MrSnakeDoc/goodneighbor/internal/repository"
)

type UserStore interface {
	repository.Repository[domain.User, domain.UserID]
	GetOrCreateDefault() effect.IO[domain.User]
}

type HomepageStore interface {
	repository.Repository[domain.Homepage, domain.HomepageID]
	ListByUser(userID domain.UserID) effect.IO[[]domain.Homepage]
	GetDefaultForUser(userID domain.UserID) effect.IO[*domain.Homepage]
}

type WidgetStore interface {
	repository.Repository[domain.Widget, domain.WidgetID]
	ListByHomepage(homepageID domain.HomepageID) effect.IO[[]domain.Widget]
	GetMaxPosition(homepageID domain.HomepageID) effect.IO[int]
}

// Services bundles the three use-case groups.
type Services struct {
	Users     *UserService
	Homepages *HomepageService
	Widgets   *WidgetService
}

func New(repos *repository.Repositories) *Services {
	return &Services{
		Users:     NewUserService(repos.Users),
		Homepages: NewHomepageService(repos.Homepages),
		Widgets:   NewWidgetService(repos.Widgets),
	}
}

func unit() effect.IO[effect.Unit] { return effect.Succeed(effect.Unit{}) }

// required turns an absent entity into a NOT_FOUND failure.
func required[T any](io effect.IO[*T], kind, id string) effect.IO[T] {
	return effect.Then(io, func(v *T) effect.IO[T] {
		if v == nil {
			return effect.Fail[T](effect.NotFound(
				kind+" not found",
				map[string]string{kind + "_id": id},
			))
		}
		return effect.Succeed(*v)
	})
}
