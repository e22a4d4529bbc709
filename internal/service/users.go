package service

import (
	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// GetOrCreateDefault returns the single implicit user of the instance.
func (s *UserService) GetOrCreateDefault() effect.IO[domain.User] {
	return s.users.GetOrCreateDefault()
}

func (s *UserService) Get(id domain.UserID) effect.IO[*domain.User] {
	return s.users.Get(id)
}

func (s *UserService) List() effect.IO[[]domain.User] {
	return s.users.List()
}

// SetDefaultHomepage records homepageID as the user's default reference.
// It does not touch the homepages themselves; see HomepageService.SetDefault.
func (s *UserService) SetDefaultHomepage(userID domain.UserID, homepageID domain.HomepageID) effect.IO[effect.Unit] {
	return s.users.Update(userID, func(u domain.User) domain.User {
		return u.WithDefaultHomepage(&homepageID)
	})
}
