package repository

import (
	"cmp"
	"time"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/storage"
)

// Repositories groups the three repositories built over one engine.
// A process should build it once per storage file.
type Repositories struct {
	Users     *UserRepository
	Homepages *HomepageRepository
	Widgets   *WidgetRepository
}

func NewRepositories(engine *storage.Engine) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(engine),
		Homepages: NewHomepageRepository(engine),
		Widgets:   NewWidgetRepository(engine),
	}
}

var (
	_ Repository[domain.User, domain.UserID]         = (*UserRepository)(nil)
	_ Repository[domain.Homepage, domain.HomepageID] = (*HomepageRepository)(nil)
	_ Repository[domain.Widget, domain.WidgetID]     = (*WidgetRepository)(nil)
)

func compareAge[ID ~string](at time.Time, aID ID, bt time.Time, bID ID) int {
	if c := at.Compare(bt); c != 0 {
		return c
	}
	return cmp.Compare(aID, bID)
}

func olderThan[ID ~string](at time.Time, aID ID, bt time.Time, bID ID) bool {
	return compareAge(at, aID, bt, bID) < 0
}
