package storage

import (
	"maps"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
)

// Tx gives a closure exclusive access to the engine state.
// It must not be used after the closure returns.
type Tx struct {
	data     *snapshot
	writable bool
	dirty    bool
}

// View runs fn under the engine lock without allowing writes.
func (e *Engine) View(fn func(tx *Tx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(); err != nil {
		return err
	}
	return fn(&Tx{data: &e.data})
}

// Update runs fn under the engine lock and saves once if fn wrote anything.
// When fn or the save fails, the in-memory state is rolled back so it keeps
// matching the file.
func (e *Engine) Update(fn func(tx *Tx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(); err != nil {
		return err
	}

	before := snapshot{
		users:     maps.Clone(e.data.users),
		homepages: maps.Clone(e.data.homepages),
		widgets:   maps.Clone(e.data.widgets),
	}
	wasDirty := e.dirty

	tx := &Tx{data: &e.data, writable: true}
	if err := fn(tx); err != nil {
		e.data = before
		return err
	}
	if !tx.dirty {
		return nil
	}
	if err := e.saveLocked(); err != nil {
		e.data = before
		e.dirty = wasDirty
		return err
	}
	return nil
}

func (tx *Tx) User(id domain.UserID) (domain.User, bool) {
	u, ok := tx.data.users[id]
	return u.Clone(), ok
}

func (tx *Tx) Homepage(id domain.HomepageID) (domain.Homepage, bool) {
	h, ok := tx.data.homepages[id]
	return h, ok
}

func (tx *Tx) Widget(id domain.WidgetID) (domain.Widget, bool) {
	w, ok := tx.data.widgets[id]
	return w.Clone(), ok
}

func (tx *Tx) Users() []domain.User {
	out := make([]domain.User, 0, len(tx.data.users))
	for _, u := range tx.data.users {
		out = append(out, u.Clone())
	}
	return out
}

func (tx *Tx) Homepages() []domain.Homepage {
	out := make([]domain.Homepage, 0, len(tx.data.homepages))
	for _, h := range tx.data.homepages {
		out = append(out, h)
	}
	return out
}

func (tx *Tx) Widgets() []domain.Widget {
	out := make([]domain.Widget, 0, len(tx.data.widgets))
	for _, w := range tx.data.widgets {
		out = append(out, w.Clone())
	}
	return out
}

func (tx *Tx) SetUser(u domain.User) error {
	return tx.write(func() { tx.data.users[u.ID] = u.Clone() })
}

func (tx *Tx) SetHomepage(h domain.Homepage) error {
	return tx.write(func() { tx.data.homepages[h.ID] = h })
}

func (tx *Tx) SetWidget(w domain.Widget) error {
	return tx.write(func() { tx.data.widgets[w.ID] = w.Clone() })
}

// DeleteUser reports whether the user existed. Deleting a missing id is not an error.
func (tx *Tx) DeleteUser(id domain.UserID) (bool, error) {
	if _, ok := tx.data.users[id]; !ok {
		return false, nil
	}
	return true, tx.write(func() { delete(tx.data.users, id) })
}

func (tx *Tx) DeleteHomepage(id domain.HomepageID) (bool, error) {
	if _, ok := tx.data.homepages[id]; !ok {
		return false, nil
	}
	return true, tx.write(func() { delete(tx.data.homepages, id) })
}

func (tx *Tx) DeleteWidget(id domain.WidgetID) (bool, error) {
	if _, ok := tx.data.widgets[id]; !ok {
		return false, nil
	}
	return true, tx.write(func() { delete(tx.data.widgets, id) })
}

func (tx *Tx) write(fn func()) error {
	if !tx.writable {
		return ErrReadOnly
	}
	fn()
	tx.dirty = true
	return nil
}
