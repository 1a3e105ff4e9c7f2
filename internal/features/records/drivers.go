package records

import (
	// "sqlite": pure Go, the default
	_ "modernc.org/sqlite"
	// "sqlite3": cgo build of the SQLite amalgamation
	_ "github.com/mattn/go-sqlite3"
)

// Drivers lists the database/sql driver names Open accepts.
var Drivers = []string{"sqlite", "sqlite3"}
