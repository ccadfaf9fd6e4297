package sqlite

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Constraint names the kind of constraint a write violated
type Constraint int

const (
	NoConstraint Constraint = iota
	Unique                  // UNIQUE or PRIMARY KEY, e.g. a reused phone number
	ForeignKey              // address pointing at a customer that is gone
)

// ConstraintOf classifies err. Errors that are not SQLite constraint
// violations report NoConstraint.
func ConstraintOf(err error) Constraint {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return NoConstraint
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return Unique
	case sqlite3.ErrConstraintForeignKey:
		return ForeignKey
	}
	return NoConstraint
}

func IsUniqueConstraintError(err error) bool {
	return ConstraintOf(err) == Unique
}

func IsForeignKeyError(err error) bool {
	return ConstraintOf(err) == ForeignKey
}
