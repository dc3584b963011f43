// Package migration models migration files and decides which are pending.
package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// Sentinel errors for migration discovery.
var (
	ErrReadDir  = errors.New("reading migrations directory")
	ErrReadFile = errors.New("reading migration file")
)

// Migration is a single forward-only SQL file.
type Migration struct {
	Filename string // "0003_add_ratings.sql"; ledger identity and sort key
	Version  string // "0003", text before the first underscore
	Name     string // "add_ratings", display only
	SQL      string // raw file contents, empty until read
	Checksum string // SHA-256 hex digest of SQL
	FilePath string // path the file was read from
}

// ComputeChecksum returns the SHA-256 hex digest of the given SQL string.
func ComputeChecksum(sql string) string {
	h := sha256.Sum256([]byte(sql))

	return hex.EncodeToString(h[:])
}

// FromFilename builds a Migration for a file name. The name is not validated;
// a file without an underscore gets its whole stem as Version.
func FromFilename(filename string) Migration {
	stem := strings.TrimSuffix(filename, ".sql")
	version, name, _ := strings.Cut(stem, "_")

	return Migration{
		Filename: filename,
		Version:  version,
		Name:     name,
	}
}
