package storage

import (
	"database/sql"
	"database/sql/driver"
	"strings"

	"github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
)

// driverCGOUnicode is mattn/go-sqlite3 registered with a Unicode lower().
// DriverCGO opens through it.
const driverCGOUnicode = "sqlite3_unicode_lower"

// SQLite's built-in lower() folds ASCII only. Both drivers replace it with
// strings.ToLower so that search matches the memory backend.
func init() {
	sql.Register(driverCGOUnicode, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
	sqlite.MustRegisterDeterministicScalarFunction("lower", 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// openDriverName maps a configured driver to the name it is opened with.
func openDriverName(name string) string {
	if name == DriverCGO {
		return driverCGOUnicode
	}
	return name
}
