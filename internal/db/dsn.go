package db

import (
	"fmt"
	"strings"
)

// Driver is a database/sql driver name.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

// ParseDSN picks the driver for a database URL and returns a DSN it accepts.
// postgres:// and postgresql:// go to lib/pq; sqlite://path, file: DSNs and
// bare paths go to SQLite. An empty URL means a local minimal_api.db file.
func ParseDSN(databaseURL string) (Driver, string) {
	u := strings.TrimSpace(databaseURL)
	switch {
	case u == "":
		return DriverSQLite, sqliteFile("minimal_api.db")
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return DriverPostgres, u
	case strings.HasPrefix(u, "sqlite://"):
		path := strings.TrimPrefix(u, "sqlite://")
		// sqlite:///abs/path.db keeps its leading slash.
		return DriverSQLite, sqliteFile(path)
	case strings.HasPrefix(u, "file:"):
		return DriverSQLite, u
	case strings.Contains(u, "host=") && strings.Contains(u, "dbname="):
		// lib/pq key=value form
		return DriverPostgres, u
	}
	return DriverSQLite, sqliteFile(u)
}

func sqliteFile(path string) string {
	return fmt.Sprintf("file:%s?%s", path, sqlitePragmas)
}
