package orm

import "ormlab/internal/errors"

// Sentinel errors reported by the engine. Callers match them with errors.Is;
// the engine wraps them with the offending type and key.
var (
	// ErrDuplicateIdentity: an instance with the same (type, key) is already managed.
	ErrDuplicateIdentity = errors.New("orm: duplicate identity")
	// ErrEntityNotFound: the requested identity has no row at load or resolution time.
	ErrEntityNotFound = errors.New("orm: entity not found")
	// ErrTypeMismatch: a narrowed view does not match the stored subtype.
	ErrTypeMismatch = errors.New("orm: type mismatch")
	// ErrUnresolvableInsertOrder: new entities reference each other through non-nullable foreign keys.
	ErrUnresolvableInsertOrder = errors.New("orm: unresolvable insert order")
	// ErrInvalidFetchPagination: a to-many fetch join combined with offset/limit.
	ErrInvalidFetchPagination = errors.New("orm: pagination with a to-many fetch join")
	// ErrNonUniqueResult: a single-result query matched more than one row.
	ErrNonUniqueResult = errors.New("orm: non-unique result")
	// ErrStaleDataAccess: a managed instance was invalidated by a bulk statement.
	ErrStaleDataAccess = errors.New("orm: stale data access")

	ErrNoResult           = errors.New("orm: no result")
	ErrDetached           = errors.New("orm: entity or placeholder is detached")
	ErrNotManaged         = errors.New("orm: entity is not managed")
	ErrTransientReference = errors.New("orm: reference to an unsaved transient instance")
	ErrNoTransaction      = errors.New("orm: no active transaction")
	ErrTransactionActive  = errors.New("orm: transaction already active")
	ErrMapping            = errors.New("orm: invalid mapping")
	ErrUnknownPath        = errors.New("orm: unknown path")
	ErrUnsupported        = errors.New("orm: unsupported operation")
)
