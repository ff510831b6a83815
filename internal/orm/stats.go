package orm

// Stats counts the work a Session has done against the store.
type Stats struct {
	Queries        int
	Inserts        int
	Updates        int
	Deletes        int
	BulkStatements int
	Flushes        int

	EntitiesLoaded       int
	PlaceholdersResolved int
	CollectionsLoaded    int
}

// Statements is the number of statements sent to the store.
func (s Stats) Statements() int {
	return s.Queries + s.Inserts + s.Updates + s.Deletes + s.BulkStatements
}
