package storage

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"sync"
	"time"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
	"github.com/MrSnakeDoc/goodneighbor/internal/metrics"
)

// DefaultPath is used when no storage path is configured.
const DefaultPath = "storage.yaml"

var (
	// ErrUnrecoverable is returned by Load when the file could not be parsed
	// and no backup was available. The engine is reset to empty state, so
	// data may have been lost.
	ErrUnrecoverable = errors.New("storage file is corrupt and no backup is available")

	// ErrReadOnly is returned when a View transaction tries to write.
	ErrReadOnly = errors.New("write in read-only transaction")
)

// Engine keeps users, homepages and widgets in memory and persists them to
// a single YAML file.
//
// Every method takes the same mutex, so calls never interleave inside one
// process. The advisory file lock only coordinates with other processes
// that use it too, and two processes saving at once still end with the last
// writer's file. One Engine per path per process.
type Engine struct {
	mu      sync.Mutex
	path    string
	log     logger.Logger
	metrics *metrics.Collector

	loaded  bool
	dirty   bool
	modTime time.Time
	data    snapshot

	// beforeRename runs between writing the temp file and renaming it.
	beforeRename func(tmp string) error
}

type Option func(*Engine)

// WithMetrics records load and save timings.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

func New(path string, log logger.Logger, opts ...Option) *Engine {
	if path == "" {
		path = DefaultPath
	}
	e := &Engine{
		path: path,
		log:  log.Named("storage"),
		data: emptySnapshot(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Path() string       { return e.path }
func (e *Engine) BackupPath() string { return e.path + backupSuffix }
func (e *Engine) TempPath() string   { return e.path + tempSuffix }

// Load reads the file, creating an empty one if it does not exist.
func (e *Engine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadLocked()
}

// Loaded reports whether the in-memory mirror is populated.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

func (e *Engine) ensureLoaded() error {
	if e.loaded {
		return nil
	}
	return e.loadLocked()
}

func (e *Engine) loadLocked() error {
	start := time.Now()
	err := e.loadFile(true)
	e.metrics.ObserveStorage("load", time.Since(start), err)
	return err
}

func (e *Engine) loadFile(mayRestore bool) error {
	if _, err := os.Stat(e.path); errors.Is(err, os.ErrNotExist) {
		e.log.Info("storage file not found, creating empty store", logger.String("path", e.path))
		e.reset()
		return e.saveLocked()
	}

	s, err := readDocument(e.path)
	if err == nil {
		e.data = s
		e.loaded = true
		e.dirty = false
		e.modTime = e.statModTime()
		e.log.Debug("storage loaded",
			logger.String("path", e.path),
			logger.Int("users", len(s.users)),
			logger.Int("homepages", len(s.homepages)),
			logger.Int("widgets", len(s.widgets)))
		return nil
	}
	if !errors.Is(err, errMalformed) {
		return fmt.Errorf("load %s: %w", e.path, err)
	}

	backup := e.BackupPath()
	if mayRestore && exists(backup) {
		e.log.Warn("storage file is corrupt, restoring from backup",
			logger.String("path", e.path),
			logger.String("backup", backup),
			logger.Error(err))
		if cerr := copyFile(backup, e.path); cerr != nil {
			return fmt.Errorf("restore %s from backup: %w", e.path, cerr)
		}
		return e.loadFile(false)
	}

	e.log.Error("storage file is corrupt and cannot be recovered",
		logger.String("path", e.path),
		logger.Error(err))
	e.reset()
	return fmt.Errorf("%w: %s: %v", ErrUnrecoverable, e.path, err)
}

func (e *Engine) reset() {
	e.data = emptySnapshot()
	e.loaded = true
	e.dirty = false
}

func (e *Engine) statModTime() time.Time {
	fi, err := os.Stat(e.path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

// Save writes the in-memory state to disk.
//
// The current file is first copied to <path>.backup, the new content is
// written to <path>.tmp under an exclusive lock and then renamed over the
// primary, so the primary is always either the old or the new version.
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(); err != nil {
		return err
	}
	return e.saveLocked()
}

func (e *Engine) saveLocked() error {
	start := time.Now()
	err := e.writeFile()
	e.metrics.ObserveStorage("save", time.Since(start), err)
	if err != nil {
		e.log.Error("failed to save storage file", logger.String("path", e.path), logger.Error(err))
		return err
	}
	e.dirty = false
	e.modTime = e.statModTime()
	return nil
}

func (e *Engine) writeFile() error {
	if err := ensureDir(e.path); err != nil {
		return fmt.Errorf("create directory for %s: %w", e.path, err)
	}

	if exists(e.path) {
		if err := copyFile(e.path, e.BackupPath()); err != nil {
			e.log.Warn("failed to write backup", logger.String("path", e.BackupPath()), logger.Error(err))
		}
	}

	data, err := encode(e.data)
	if err != nil {
		return fmt.Errorf("encode storage: %w", err)
	}

	tmp := e.TempPath()
	if err := writeTemp(tmp, data); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if e.beforeRename != nil {
		if err := e.beforeRename(tmp); err != nil {
			_ = os.Remove(tmp)
			return err
		}
	}
	if err := os.Rename(tmp, e.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", e.path, err)
	}
	if err := os.Chmod(e.path, filePerm); err != nil {
		return fmt.Errorf("chmod %s: %w", e.path, err)
	}
	return nil
}

// Reload reads the file again. A file that cannot be read or parsed leaves
// the in-memory state untouched; backup restore only happens in Load.
func (e *Engine) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return e.loadLocked()
	}
	return e.reloadLocked()
}

func (e *Engine) reloadLocked() error {
	start := time.Now()
	s, err := readDocument(e.path)
	e.metrics.ObserveStorage("reload", time.Since(start), err)
	if err != nil {
		e.log.Error("storage file on disk is unreadable; keeping the in-memory state",
			logger.String("path", e.path),
			logger.Error(err))
		return fmt.Errorf("reload %s: %w", e.path, err)
	}
	e.data = s
	e.dirty = false
	e.modTime = e.statModTime()
	return nil
}

// ReloadIfChanged reloads when the file was modified by someone else since
// the last load or save. It never loads an engine that was not loaded yet.
func (e *Engine) ReloadIfChanged() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return false, nil
	}
	mod := e.statModTime()
	if mod.IsZero() || mod.Equal(e.modTime) {
		return false, nil
	}
	if e.dirty {
		e.log.Warn("storage file changed on disk while unsaved changes are pending; keeping memory",
			logger.String("path", e.path))
		return false, nil
	}

	if err := e.reloadLocked(); err != nil {
		return false, err
	}
	e.metrics.StorageReloaded()
	e.log.Info("storage reloaded after external change", logger.String("path", e.path))
	return true, nil
}

// Close flushes pending in-memory changes.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded || !e.dirty {
		return nil
	}
	return e.saveLocked()
}

// Stats counts the stored entities.
type Stats struct {
	Users     int
	Homepages int
	Widgets   int
}

func (e *Engine) Stats() (Stats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(); err != nil {
		return Stats{}, err
	}
	return Stats{
		Users:     len(e.data.users),
		Homepages: len(e.data.homepages),
		Widgets:   len(e.data.widgets),
	}, nil
}

// ─────────────────────────────
// Accessors (defensive copies)
// ─────────────────────────────

func (e *Engine) Users() (map[domain.UserID]domain.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(); err != nil {
		return nil, err
	}
	return copyUsers(e.data.users), nil
}

func (e *Engine) Homepages() (map[domain.HomepageID]domain.Homepage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(); err != nil {
		return nil, err
	}
	return maps.Clone(e.data.homepages), nil
}

func (e *Engine) Widgets() (map[domain.WidgetID]domain.Widget, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(); err != nil {
		return nil, err
	}
	return copyWidgets(e.data.widgets), nil
}

// ─────────────────────────────
// Mutators (memory only, call Save to persist)
// ─────────────────────────────

func (e *Engine) SetUser(u domain.User) error {
	return e.mutate(func(s *snapshot) { s.users[u.ID] = u.Clone() })
}

func (e *Engine) SetHomepage(h domain.Homepage) error {
	return e.mutate(func(s *snapshot) { s.homepages[h.ID] = h })
}

func (e *Engine) SetWidget(w domain.Widget) error {
	return e.mutate(func(s *snapshot) { s.widgets[w.ID] = w.Clone() })
}

func (e *Engine) DeleteUser(id domain.UserID) error {
	return e.mutate(func(s *snapshot) { delete(s.users, id) })
}

func (e *Engine) DeleteHomepage(id domain.HomepageID) error {
	return e.mutate(func(s *snapshot) { delete(s.homepages, id) })
}

func (e *Engine) DeleteWidget(id domain.WidgetID) error {
	return e.mutate(func(s *snapshot) { delete(s.widgets, id) })
}

func (e *Engine) mutate(fn func(*snapshot)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(); err != nil {
		return err
	}
	fn(&e.data)
	e.dirty = true
	return nil
}

func copyUsers(in map[domain.UserID]domain.User) map[domain.UserID]domain.User {
	out := make(map[domain.UserID]domain.User, len(in))
	for k, v := range in {
		out[k] = v.Clone()
	}
	return out
}

func copyWidgets(in map[domain.WidgetID]domain.Widget) map[domain.WidgetID]domain.Widget {
	out := make(map[domain.WidgetID]domain.Widget, len(in))
	for k, v := range in {
		out[k] = v.Clone()
	}
	return out
}
