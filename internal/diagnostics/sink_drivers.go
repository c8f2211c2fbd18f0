package diagnostics

import (
	"fmt"

	_ "github.com/denisenkom/go-mssqldb" // sqlserver
	_ "github.com/go-sql-driver/mysql"   // mysql
	_ "github.com/lib/pq"                // postgres
	_ "modernc.org/sqlite"               // sqlite, pure Go, the default
)

// DriverName maps the accepted aliases to the database/sql driver name
// registered by that driver's blank import, the same alias set the
// teacher's db_manager.go recognized.
func DriverName(name string) (string, error) {
	switch name {
	case "sqlite", "sqlite3", "":
		return "sqlite", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "mysql":
		return "mysql", nil
	case "mssql", "sqlserver":
		return "sqlserver", nil
	default:
		return "", fmt.Errorf("diagnostics: unsupported driver %q", name)
	}
}
