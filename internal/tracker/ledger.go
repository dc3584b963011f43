package tracker

import "path/filepath"

// LedgerFileName is the name of the ledger file kept next to the database.
const LedgerFileName = ".migrations"

const ledgerPerm = 0o644

// LedgerPath returns the ledger location for a database file: the file
// ".migrations" in the same directory. A bare name such as ":memory:"
// resolves to the current directory.
func LedgerPath(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), LedgerFileName)
}
