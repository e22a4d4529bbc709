package repository

import (
	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
	"github.com/MrSnakeDoc/goodneighbor/internal/storage"
)

type UserRepository struct {
	*fileRepository[domain.User, domain.UserID]
}

func NewUserRepository(engine *storage.Engine) *UserRepository {
	return &UserRepository{&fileRepository[domain.User, domain.UserID]{
		engine: engine,
		c: collection[domain.User, domain.UserID]{
			kind: "user",
			id:   func(u domain.User) domain.UserID { return u.ID },
			get:  (*storage.Tx).User,
			all:  (*storage.Tx).Users,
			set:  (*storage.Tx).SetUser,
			del:  (*storage.Tx).DeleteUser,
		},
	}}
}

// GetOrCreateDefault returns the user named domain.DefaultUsername, creating
// it on first use. The lookup and the insert share one transaction so
// concurrent first calls still end up with a single user.
func (r *UserRepository) GetOrCreateDefault() effect.IO[domain.User] {
	return update(r.engine, r.c.kind, "get_or_create_default", "", func(tx *storage.Tx) (domain.User, error) {
		if u, ok := findByUsername(tx.Users(), domain.DefaultUsername); ok {
			return u, nil
		}
		u := domain.NewUser(domain.DefaultUsername)
		return u, tx.SetUser(u)
	})
}

// GetByUsername returns nil when no user has that name.
func (r *UserRepository) GetByUsername(username string) effect.IO[*domain.User] {
	return view(r.engine, r.c.kind, "get_by_username", "", func(tx *storage.Tx) (*domain.User, error) {
		u, ok := findByUsername(tx.Users(), username)
		if !ok {
			return nil, nil
		}
		return &u, nil
	})
}

// findByUsername picks the oldest match so a file edited by hand with
// duplicate names still resolves the same user every time.
func findByUsername(users []domain.User, username string) (domain.User, bool) {
	var (
		best  domain.User
		found bool
	)
	for _, u := range users {
		if u.Username != username {
			continue
		}
		if !found || olderThan(u.CreatedAt, u.ID, best.CreatedAt, best.ID) {
			best, found = u, true
		}
	}
	return best, found
}
