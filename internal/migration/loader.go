package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const dirPerm = 0o755

// EnsureDir creates dir (and parents) when it does not exist.
// It reports whether the directory had to be created.
func EnsureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%w %s: not a directory", ErrReadDir, dir)
		}

		return false, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("%w %s: %w", ErrReadDir, dir, err)
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return false, fmt.Errorf("creating migrations directory %s: %w", dir, err)
	}

	return true, nil
}

// ScanFS lists the *.sql files at the root of fsys, sorted by filename.
// root is joined onto each filename to form FilePath.
func ScanFS(fsys fs.FS, root string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadDir, root, err)
	}

	var migrations []Migration

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		m := FromFilename(entry.Name())
		m.FilePath = filepath.Join(root, entry.Name())
		migrations = append(migrations, m)
	}

	return Sort(migrations), nil
}

// ReadSQL fills in SQL and Checksum from the file named m.Filename in fsys.
// The contents are kept verbatim.
func ReadSQL(fsys fs.FS, m Migration) (Migration, error) {
	data, err := fs.ReadFile(fsys, m.Filename)
	if err != nil {
		return Migration{}, fmt.Errorf("%w %s: %w", ErrReadFile, m.FilePath, err)
	}

	m.SQL = string(data)
	m.Checksum = ComputeChecksum(m.SQL)

	return m, nil
}

// LoadFromFS scans fsys and reads every migration.
func LoadFromFS(fsys fs.FS, root string) ([]Migration, error) {
	ms, err := ScanFS(fsys, root)
	if err != nil {
		return nil, err
	}

	for i := range ms {
		if ms[i], err = ReadSQL(fsys, ms[i]); err != nil {
			return nil, err
		}
	}

	return ms, nil
}

// LoadFromDir scans dir and reads every migration. A missing dir is created.
func LoadFromDir(dir string) ([]Migration, error) {
	if _, err := EnsureDir(dir); err != nil {
		return nil, err
	}

	return LoadFromFS(os.DirFS(dir), dir)
}
