package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	backupSuffix = ".backup"
	tempSuffix   = ".tmp"
	filePerm     = 0o600
	dirPerm      = 0o755
)

// readDocument reads path under a shared advisory lock.
// I/O failures are returned as is; content problems wrap errMalformed.
func readDocument(path string) (snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return snapshot{}, err
	}
	defer f.Close()

	if err := lockShared(f); err != nil {
		return snapshot{}, fmt.Errorf("lock %s: %w", path, err)
	}
	data, err := io.ReadAll(f)
	_ = unlock(f)
	if err != nil {
		return snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}

	return decode(data)
}

func decode(data []byte) (snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return emptySnapshot(), nil
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return snapshot{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return doc.toSnapshot()
}

func encode(s snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fromSnapshot(s)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeTemp writes data to tmp under an exclusive advisory lock and syncs it.
func writeTemp(tmp string, data []byte) (err error) {
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := lockExclusive(f); err != nil {
		return fmt.Errorf("lock %s: %w", tmp, err)
	}
	defer func() { _ = unlock(f) }()

	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	return nil
}
