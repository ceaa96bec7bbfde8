package storage

import "fmt"

// BackendType is the explicit storage selection enum. Resolution order is
// documented on Resolve; nothing else about the environment is sniffed.
type BackendType string

const (
	BackendSQLite BackendType = "sqlite"
	BackendMySQL  BackendType = "mysql"
	BackendMemory BackendType = "memory"
)

// Options carries the connection parameters the factory may need.
type Options struct {
	Type       BackendType // explicit choice; empty means resolve from params
	SQLitePath string
	MySQLDSN   string
}

// Resolve picks the backend: an explicit Type always wins; otherwise prefer a
// durable backend whose connection parameters are present (mysql before
// sqlite), and fall back to the in-memory store.
func Resolve(o Options) BackendType {
	if o.Type != "" {
		return o.Type
	}
	if o.MySQLDSN != "" {
		return BackendMySQL
	}
	if o.SQLitePath != "" {
		return BackendSQLite
	}
	return BackendMemory
}

// New constructs the selected Store.
func New(o Options) (Store, error) {
	switch Resolve(o) {
	case BackendSQLite:
		path := o.SQLitePath
		if path == "" {
			path = "ministore.db"
		}
		return OpenSQL(DialectSQLite, path)
	case BackendMySQL:
		if o.MySQLDSN == "" {
			return nil, fmt.Errorf("mysql backend selected but no DSN configured")
		}
		return OpenSQL(DialectMySQL, o.MySQLDSN)
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unsupported storage backend %q", o.Type)
}
