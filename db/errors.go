package db

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrDuplicateName = errors.New("duplicate name")
	ErrNotFound      = errors.New("not found")
	ErrStorage       = errors.New("storage error")
	ErrSchemaInit    = errors.New("schema initialization failed")
)

// sqliteErrorKinds maps SQLite extended result codes to the error kinds the
// store reports. Codes missing from the table are reported as ErrStorage.
var sqliteErrorKinds = map[sqlite3.ErrNoExtended]error{
	sqlite3.ErrConstraintUnique: ErrDuplicateName,
}

// classify returns the error kind for an error coming back from gorm.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if kind, ok := sqliteErrorKinds[sqliteErr.ExtendedCode]; ok {
			return kind
		}
	}
	return ErrStorage
}

// SchemaError reports the creation statement that failed during InitSchema.
type SchemaError struct {
	Statement string
	Err       error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: %v while running\n%s", ErrSchemaInit, e.Err, e.Statement)
}

func (e *SchemaError) Unwrap() []error {
	return []error{ErrSchemaInit, e.Err}
}
