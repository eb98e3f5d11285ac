package repositories

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileKV implements [KV] with one JSON file per key inside dir.
//
// Writes go to a temporary file that is renamed over the target. The value being
// replaced is kept in a .bak file for [FileKV.Restore].
type FileKV struct {
	fs  afero.Fs
	dir string
}

// NewFileKV creates a [FileKV] rooted at dir on fs.
func NewFileKV(fs afero.Fs, dir string) *FileKV {
	return &FileKV{fs: fs, dir: dir}
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileKV) Get(key string) (string, bool, error) {
	data, err := afero.ReadFile(f.fs, f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *FileKV) Set(key, value string) error {
	if err := f.fs.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// A missing key backs up as an empty value, so restoring the first write empties it.
	target := f.path(key)
	if previous, _, err := f.Get(key); err != nil {
		return err
	} else if previous != value {
		if err := f.write(target+".bak", previous); err != nil {
			return err
		}
	}

	return f.write(target, value)
}

// Restore moves the .bak value of key back in place.
func (f *FileKV) Restore(key string) (bool, error) {
	target := f.path(key)
	data, err := afero.ReadFile(f.fs, target+".bak")
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read backup of %s: %w", key, err)
	}

	if err := f.write(target, string(data)); err != nil {
		return false, err
	}
	if err := f.fs.Remove(target + ".bak"); err != nil {
		return false, fmt.Errorf("failed to remove backup of %s: %w", key, err)
	}
	return true, nil
}

func (f *FileKV) write(target, value string) error {
	tmp := target + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := f.fs.Rename(tmp, target); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return nil
}
