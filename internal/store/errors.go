package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned for input the schema would reject.
	ErrInvalid = errors.New("invalid input")
)

// UniqueViolation reports a write that collided with a unique index.
type UniqueViolation struct {
	Table string
	Field string
	Err   error
}

func (e *UniqueViolation) Error() string {
	return fmt.Sprintf("unique violation on %s.%s", e.Table, e.Field)
}

func (e *UniqueViolation) Unwrap() error { return e.Err }

// IsUniqueViolation reports whether err, or anything it wraps, is a
// UniqueViolation.
func IsUniqueViolation(err error) bool {
	var uv *UniqueViolation
	return errors.As(err, &uv)
}

const pqUniqueViolation = "23505"

// classify turns driver errors into the package's error vocabulary.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		uv := &UniqueViolation{Table: pqErr.Table, Field: pqErr.Constraint, Err: err}
		if idx, ok := indexByName(pqErr.Constraint); ok {
			uv.Table, uv.Field = idx.Table, strings.Join(idx.Columns, ",")
		}
		return uv
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		const marker = "UNIQUE constraint failed: "
		msg := liteErr.Error()
		if i := strings.Index(msg, marker); i >= 0 {
			// "UNIQUE constraint failed: users.username (2067)"
			target := msg[i+len(marker):]
			if j := strings.IndexAny(target, " ,"); j >= 0 {
				target = target[:j]
			}
			table, field, _ := strings.Cut(target, ".")
			return &UniqueViolation{Table: table, Field: field, Err: err}
		}
	}

	return err
}
