package store

import "strings"

// LockMode is forwarded alongside a select statement.
type LockMode int

const (
	LockNone LockMode = iota
	LockPessimisticRead
	LockPessimisticWrite
)

// Dialect captures the few syntax differences the statement generator cares about.
// Statements are always written with '?' placeholders.
type Dialect struct {
	Name            string
	SupportsLocking bool
	// UnboundedLimit is emitted when an offset is requested without a limit.
	UnboundedLimit string
}

var (
	Postgres = Dialect{Name: "postgres", SupportsLocking: true}
	SQLite   = Dialect{Name: "sqlite", UnboundedLimit: "-1"}
)

// DialectFor maps a driver name to a known dialect. Unknown drivers get the
// postgres rules without locking.
func DialectFor(name string) Dialect {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3":
		return SQLite
	case "postgres", "pgx", "postgresql":
		return Postgres
	default:
		return Dialect{Name: name}
	}
}

// LockClause returns the suffix for a locking select, or "" when the dialect
// cannot lock rows. tableAlias restricts the lock to the driving table.
func (d Dialect) LockClause(mode LockMode, tableAlias string) string {
	if !d.SupportsLocking || mode == LockNone {
		return ""
	}

	clause := " FOR UPDATE"
	if mode == LockPessimisticRead {
		clause = " FOR SHARE"
	}
	if tableAlias != "" {
		clause += " OF " + tableAlias
	}

	return clause
}

// Paginate renders the LIMIT/OFFSET window. A negative limit means "no limit".
func (d Dialect) Paginate(limit, offset int) (string, []any) {
	var sb strings.Builder
	var args []any

	switch {
	case limit >= 0:
		sb.WriteString(" LIMIT ?")
		args = append(args, limit)
	case offset > 0 && d.UnboundedLimit != "":
		sb.WriteString(" LIMIT " + d.UnboundedLimit)
	}

	if offset > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, offset)
	}

	return sb.String(), args
}
