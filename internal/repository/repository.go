package repository

import (
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
	"github.com/MrSnakeDoc/goodneighbor/internal/storage"
)

// Repository is the CRUD contract shared by every entity kind.
//
// Implementations satisfy, for any entity e and transform f:
//
//	Insert(e); Get(e.id)      → Success(&e)
//	Update(id, f); Get(id)    → Success(&f(original))
//	Delete(id); Get(id)       → Success(nil)
//	Delete(id); Delete(id)    → Success(Unit) both times
//
// Nothing happens until the returned computation is Run. Storage faults come
// back as STORAGE_ERROR failures, never as panics.
type Repository[E any, ID ~string] interface {
	// Get returns nil when the entity does not exist.
	Get(id ID) effect.IO[*E]
	// Insert fails with DUPLICATE_ID when the id is taken.
	Insert(entity E) effect.IO[ID]
	// Update fails with NOT_FOUND when the id is unknown.
	Update(id ID, transform func(E) E) effect.IO[effect.Unit]
	// Delete succeeds whether or not the entity exists.
	Delete(id ID) effect.IO[effect.Unit]
	// List returns every entity in no particular order.
	List() effect.IO[[]E]
}

// collection tells fileRepository how to reach one entity kind inside a transaction.
type collection[E any, ID ~string] struct {
	kind string
	id   func(E) ID
	get  func(tx *storage.Tx, id ID) (E, bool)
	all  func(tx *storage.Tx) []E
	set  func(tx *storage.Tx, e E) error
	del  func(tx *storage.Tx, id ID) (bool, error)
}

// fileRepository implements Repository on top of the storage engine.
// Each write runs as one engine transaction, so read-modify-write
// sequences cannot interleave with other callers.
type fileRepository[E any, ID ~string] struct {
	engine *storage.Engine
	c      collection[E, ID]
}

func (r *fileRepository[E, ID]) Get(id ID) effect.IO[*E] {
	return view(r.engine, r.c.kind, "get", string(id), func(tx *storage.Tx) (*E, error) {
		e, ok := r.c.get(tx, id)
		if !ok {
			return nil, nil
		}
		return &e, nil
	})
}

func (r *fileRepository[E, ID]) Insert(entity E) effect.IO[ID] {
	id := r.c.id(entity)
	return update(r.engine, r.c.kind, "insert", string(id), func(tx *storage.Tx) (ID, error) {
		if _, ok := r.c.get(tx, id); ok {
			return id, effect.DuplicateID(
				fmt.Sprintf("%s already exists", r.c.kind),
				map[string]string{r.c.kind + "_id": string(id)},
			)
		}
		return id, r.c.set(tx, entity)
	})
}

func (r *fileRepository[E, ID]) Update(id ID, transform func(E) E) effect.IO[effect.Unit] {
	return update(r.engine, r.c.kind, "update", string(id), func(tx *storage.Tx) (effect.Unit, error) {
		current, ok := r.c.get(tx, id)
		if !ok {
			return effect.Unit{}, r.notFound(id)
		}
		return effect.Unit{}, r.c.set(tx, transform(current))
	})
}

func (r *fileRepository[E, ID]) Delete(id ID) effect.IO[effect.Unit] {
	return update(r.engine, r.c.kind, "delete", string(id), func(tx *storage.Tx) (effect.Unit, error) {
		_, err := r.c.del(tx, id)
		return effect.Unit{}, err
	})
}

func (r *fileRepository[E, ID]) List() effect.IO[[]E] {
	return view(r.engine, r.c.kind, "list", "", func(tx *storage.Tx) ([]E, error) {
		return r.c.all(tx), nil
	})
}

func (r *fileRepository[E, ID]) notFound(id ID) effect.ErrorDetails {
	return effect.NotFound(
		fmt.Sprintf("%s not found", r.c.kind),
		map[string]string{r.c.kind + "_id": string(id)},
	)
}

// view runs fn in a read-only transaction.
func view[T any](engine *storage.Engine, kind, op, id string, fn func(tx *storage.Tx) (T, error)) effect.IO[T] {
	return run(kind, op, id, func() (T, error) {
		var out T
		err := engine.View(func(tx *storage.Tx) error {
			var err error
			out, err = fn(tx)
			return err
		})
		return out, err
	})
}

// update runs fn in a write transaction; the engine saves if fn wrote.
func update[T any](engine *storage.Engine, kind, op, id string, fn func(tx *storage.Tx) (T, error)) effect.IO[T] {
	return run(kind, op, id, func() (T, error) {
		var out T
		err := engine.Update(func(tx *storage.Tx) error {
			var err error
			out, err = fn(tx)
			return err
		})
		return out, err
	})
}

// run defers fn and turns its error or panic into a failure. ErrorDetails
// raised on purpose (NOT_FOUND, DUPLICATE_ID, ...) pass through unchanged.
func run[T any](kind, op, id string, fn func() (T, error)) effect.IO[T] {
	return effect.Suspend(func() (res effect.Result[T]) {
		defer func() {
			if p := recover(); p != nil {
				res = effect.Failure[effect.ErrorDetails, T](storageFailure(kind, op, id, fmt.Errorf("panic: %v", p)))
			}
		}()

		v, err := fn()
		if err == nil {
			return effect.Success[effect.ErrorDetails](v)
		}
		var ed effect.ErrorDetails
		if errors.As(err, &ed) {
			return effect.Failure[effect.ErrorDetails, T](ed)
		}
		return effect.Failure[effect.ErrorDetails, T](storageFailure(kind, op, id, err))
	})
}

func storageFailure(kind, op, id string, err error) effect.ErrorDetails {
	details := map[string]string{
		"operation": op,
		"entity":    kind,
		"cause":     err.Error(),
	}
	if id != "" {
		details[kind+"_id"] = id
	}
	return effect.StorageError(fmt.Sprintf("failed to %s %s", op, kind), details)
}
