// Package tracker persists which migrations have run.
//
// The ledger is a plain text file with one migration filename per line, no
// header, append-only. It is the sole authority on what has been applied; the
// database itself holds no migration bookkeeping.
package tracker

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Tracker reads and appends to a ledger file.
type Tracker struct {
	path string
}

// New creates a Tracker for the ledger at path. The file is not touched
// until Applied or RecordApplied is called.
func New(path string) *Tracker {
	return &Tracker{path: path}
}

// ForDatabase creates a Tracker whose ledger sits beside dbPath.
func ForDatabase(dbPath string) *Tracker {
	return New(LedgerPath(dbPath))
}

// Path returns the ledger file location.
func (t *Tracker) Path() string {
	return t.path
}

// Applied returns the recorded filenames in the order they were appended.
// A missing ledger means nothing has been applied. Blank lines are skipped
// and surrounding whitespace is trimmed.
func (t *Tracker) Applied() ([]string, error) {
	data, err := os.ReadFile(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrLedgerRead, t.path, err)
	}

	var names []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		names = append(names, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrLedgerRead, t.path, err)
	}

	return names, nil
}

// RecordApplied appends filename as a new line, creating the ledger if
// needed, and syncs the file before returning. A ledger whose last line
// lacks a newline gets one first.
func (t *Tracker) RecordApplied(filename string) error {
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, ledgerPerm)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrLedgerWrite, t.path, err)
	}

	line := filename + "\n"

	unterminated, err := endsWithoutNewline(f)
	if err != nil {
		_ = f.Close()

		return fmt.Errorf("%w %s: %w", ErrLedgerWrite, t.path, err)
	}

	if unterminated {
		line = "\n" + line
	}

	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()

		return fmt.Errorf("%w %s: %w", ErrLedgerWrite, t.path, err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()

		return fmt.Errorf("%w %s: %w", ErrLedgerWrite, t.path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w %s: %w", ErrLedgerWrite, t.path, err)
	}

	return nil
}

func endsWithoutNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}

	if info.Size() == 0 {
		return false, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}

	return last[0] != '\n', nil
}
