package checks

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	// Database drivers available to SQL probes
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aryankumar/probectl/internal/probe"
)

// DBPinger captures the subset of *sql.DB used for readiness checks
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// SQLDrivers lists the driver names SQL accepts
var SQLDrivers = []string{"postgres", "mysql", "sqlite3"}

var driverAliases = map[string]string{
	"postgres":   "postgres",
	"postgresql": "postgres",
	"pg":         "postgres",
	"mysql":      "mysql",
	"mariadb":    "mysql",
	"sqlite3":    "sqlite3",
	"sqlite":     "sqlite3",
}

// NormalizeDriver maps a driver name or alias to a registered driver
func NormalizeDriver(driver string) (string, error) {
	name, ok := driverAliases[strings.ToLower(strings.TrimSpace(driver))]
	if !ok {
		return "", errors.Errorf("sql probe: unsupported driver %q (supported: %s)", driver, strings.Join(SQLDrivers, ", "))
	}
	return name, nil
}

// SQLOption configures SQL
type SQLOption func(*sqlConfig)

type sqlConfig struct {
	query string
}

// WithQuery runs query after connecting; it must return one row with one column
func WithQuery(query string) SQLOption {
	return func(cfg *sqlConfig) {
		cfg.query = query
	}
}

// SQL opens a connection, pings the database and optionally runs a query
// Each attempt uses a fresh connection that is closed before returning
func SQL(driver, dsn string, opts ...SQLOption) probe.Operation {
	cfg := &sqlConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	return func(ctx context.Context) error {
		name, err := NormalizeDriver(driver)
		if err != nil {
			return err
		}
		ctx = contextOrBackground(ctx)

		db, err := sqlx.ConnectContext(ctx, name, dsn)
		if err != nil {
			return probeFailed(name, err)
		}
		defer db.Close()

		if cfg.query == "" {
			return nil
		}

		var result interface{}
		if err := db.QueryRowxContext(ctx, cfg.query).Scan(&result); err != nil {
			return errors.Wrapf(err, "%s probe: query failed", name)
		}
		return nil
	}
}

// DBPing checks an existing database handle
func DBPing(name string, db DBPinger) probe.Operation {
	return func(ctx context.Context) error {
		if db == nil {
			return nilComponentError(name, "db client")
		}
		if err := db.PingContext(contextOrBackground(ctx)); err != nil {
			return probeFailed(name, err)
		}
		return nil
	}
}
