package tracker

import "errors"

// ErrLedgerRead indicates the ledger file exists but could not be read.
var ErrLedgerRead = errors.New("reading migration ledger")

// ErrLedgerWrite indicates a filename could not be appended to the ledger.
var ErrLedgerWrite = errors.New("writing migration ledger")
