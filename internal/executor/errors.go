package executor

import "errors"

// ErrExecutionFailed indicates a migration failed to execute and could not be salvaged.
var ErrExecutionFailed = errors.New("migration execution failed")

// ErrGuardCheck indicates an idempotency pre-check could not query the schema.
var ErrGuardCheck = errors.New("idempotency check failed")
