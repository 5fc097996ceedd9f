package db

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryTarget selects a private in-memory database instead of a file.
const MemoryTarget = ":memory:"

// Target is the database a command runs against.
type Target struct {
	path string
}

// ParseTarget turns the database argument into a Target. The literal
// ":memory:" selects an in-memory database, anything else is a file path.
func ParseTarget(s string) (Target, error) {
	if s == "" {
		return Target{}, errors.New("database target must be a path or " + MemoryTarget)
	}
	return Target{path: s}, nil
}

func (t Target) InMemory() bool {
	return t.path == MemoryTarget
}

func (t Target) String() string {
	return t.path
}

// uriPathEscaper escapes the characters SQLite would otherwise read as URI
// syntax; SQLite decodes them back before opening the file.
var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

func (t Target) dsn(busyTimeout time.Duration) string {
	if t.InMemory() {
		return MemoryTarget
	}
	q := url.Values{}
	q.Set("_busy_timeout", strconv.FormatInt(busyTimeout.Milliseconds(), 10))
	q.Set("_foreign_keys", "on")
	u := url.URL{Scheme: "file", Opaque: uriPathEscaper.Replace(t.path), RawQuery: q.Encode()}
	return u.String()
}

// Options tune how Open builds the connection.
type Options struct {
	// BusyTimeout is how long SQLite waits on a locked file database.
	BusyTimeout time.Duration
	// Logger receives gorm's SQL trace when LogSQL is set. Nil keeps gorm silent.
	Logger *zap.SugaredLogger
	LogSQL bool
}

// gormWriter routes gorm's logger output into zap.
type gormWriter struct {
	log *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Debugf(format, args...)
}

func newGormLogger(opts Options) logger.Interface {
	if opts.Logger == nil {
		return logger.Default.LogMode(logger.Silent)
	}
	level := logger.Silent
	if opts.LogSQL {
		level = logger.Info
	}
	return logger.New(
		gormWriter{log: opts.Logger},
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
}

// Open connects to the target. The pool is pinned to a single connection: one
// invocation holds one connection, and an in-memory database only lives as
// long as the connection that created it. Callers check the connection with
// SQLStore.Ping.
func Open(target Target, opts Options) (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(target.dsn(opts.BusyTimeout)), &gorm.Config{
		Logger:                 newGormLogger(opts),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", target, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool for %s: %w", target, err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)
	return conn, nil
}

// Close releases the connection opened by Open.
func Close(conn *gorm.DB) error {
	if conn == nil {
		return nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
