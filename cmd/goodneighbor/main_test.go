package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
	"github.com/MrSnakeDoc/goodneighbor/internal/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeStore(t *testing.T, fill func(e *storage.Engine)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storage.yaml")
	e := storage.New(path, logger.Nop())
	require.NoError(t, e.Load())
	fill(e)
	require.NoError(t, e.Save())
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "goodneighbor ")
}

func TestCheckCommand(t *testing.T) {
	u := domain.NewUser(domain.DefaultUsername)
	hp := domain.NewHomepage(u.ID, "Home", true)

	t.Run("clean", func(t *testing.T) {
		path := writeStore(t, func(e *storage.Engine) {
			require.NoError(t, e.SetUser(u))
			require.NoError(t, e.SetHomepage(hp))
		})
		out, err := execute(t, "check", "--path", path)
		require.NoError(t, err)
		assert.Contains(t, out, "1 users, 1 homepages, 0 widgets")
		assert.Contains(t, out, "ok")
	})

	t.Run("orphan widget", func(t *testing.T) {
		w := domain.NewWidget(domain.NewHomepageID(), domain.WidgetShortcut, 0, nil)
		path := writeStore(t, func(e *storage.Engine) {
			require.NoError(t, e.SetUser(u))
			require.NoError(t, e.SetWidget(w))
		})
		out, err := execute(t, "check", "--path", path)
		require.ErrorIs(t, err, errInconsistent)
		assert.Contains(t, out, "widget "+w.ID.String()+": homepage does not exist")
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent.yaml")
		_, err := execute(t, "check", "--path", path)
		require.Error(t, err)
		assert.NoFileExists(t, path)
	})
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	bookmarks := filepath.Join(dir, "bookmarks.yaml")
	require.NoError(t, os.WriteFile(bookmarks, []byte(`---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
`), 0o644))
	path := filepath.Join(dir, "storage.yaml")

	out, err := execute(t, "import", "--path", path, "--bookmarks", bookmarks)
	require.NoError(t, err)
	assert.Contains(t, out, "1 created, 0 already present")

	out, err = execute(t, "check", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 users, 1 homepages, 1 widgets")

	_, err = execute(t, "import", "--path", path)
	require.Error(t, err)
}
